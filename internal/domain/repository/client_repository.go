package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ClientRepository puerto de persistencia de clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// GetForUpdate bloquea la fila del cliente (saldo y cupo).
	GetForUpdate(ctx context.Context, id string) (*entity.Client, error)
	// Update persiste los datos de contacto y el cupo; no toca el saldo.
	Update(ctx context.Context, client *entity.Client) error
	// AddBalance suma delta (puede ser negativo) al saldo actual.
	AddBalance(ctx context.Context, id string, delta decimal.Decimal) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Client, error)
}
