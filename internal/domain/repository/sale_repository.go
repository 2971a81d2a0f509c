package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentTotals acumulados de ventas completadas por medio de pago.
type PaymentTotals struct {
	Cash  decimal.Decimal
	Card  decimal.Decimal
	Count int
}

// SaleRepository define el puerto de persistencia de ventas.
type SaleRepository interface {
	// NextNumber reserva el siguiente consecutivo (V-00000001).
	NextNumber(ctx context.Context) (string, error)
	// Create persiste cabecera, líneas y lotes consumidos por línea.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera y devuelve la venta con sus líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	MarkCancelled(ctx context.Context, id, userID, reason string, at time.Time) error
	// List devuelve cabeceras, más recientes primero.
	List(ctx context.Context, filter entity.SaleFilter) ([]*entity.Sale, error)
	// TotalsByPayment suma las ventas completadas de la sucursal en [from, to).
	TotalsByPayment(ctx context.Context, branchID string, from, to time.Time) (PaymentTotals, error)
}
