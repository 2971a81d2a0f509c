package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// CreditRepository puerto del libro de créditos y abonos.
type CreditRepository interface {
	Create(ctx context.Context, credit *entity.Credit) error
	GetByID(ctx context.Context, id string) (*entity.Credit, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Credit, error)
	// UpdateBalance persiste monto pagado, saldo y estado.
	UpdateBalance(ctx context.Context, credit *entity.Credit) error
	// ListByClient devuelve los créditos más recientes primero.
	ListByClient(ctx context.Context, clientID string) ([]*entity.Credit, error)
	CreatePayment(ctx context.Context, payment *entity.CreditPayment) error
	ListPayments(ctx context.Context, creditID string) ([]entity.CreditPayment, error)
}
