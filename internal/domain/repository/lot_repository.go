package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia de lotes.
// Los listados se devuelven en orden FIFO: vencimiento ascendente (sin vencimiento al final), luego ingreso.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// GetForUpdate bloquea el lote hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	GetByNumber(ctx context.Context, productID, branchID, lotNumber string) (*entity.Lot, error)
	// ListAvailableForUpdate lotes con cantidad > 0, bloqueados, en orden FIFO.
	ListAvailableForUpdate(ctx context.Context, productID, branchID string) ([]*entity.Lot, error)
	List(ctx context.Context, productID, branchID string, onlyWithStock bool) ([]*entity.Lot, error)
	// Decrement resta qty solo si el lote tiene al menos qty; false si no se aplicó.
	Decrement(ctx context.Context, lotID string, qty int) (bool, error)
}
