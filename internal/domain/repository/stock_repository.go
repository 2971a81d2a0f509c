package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// StockRepository define el puerto del resumen de stock por sucursal+producto.
// Get y GetForUpdate devuelven un resumen en cero cuando la fila no existe.
type StockRepository interface {
	Get(ctx context.Context, productID, branchID string) (*entity.BranchStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, branchID string) (*entity.BranchStock, error)
	// Increment suma qty creando la fila con mínimo y máximo en 0 si no existe.
	Increment(ctx context.Context, productID, branchID string, qty int) error
	// Decrement resta qty solo si current_stock >= qty; false si no se aplicó.
	Decrement(ctx context.Context, productID, branchID string, qty int) (bool, error)
	ListLow(ctx context.Context, branchID string) ([]*entity.BranchStock, error)
}
