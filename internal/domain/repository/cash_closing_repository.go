package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// CashClosingRepository puerto de persistencia de turnos de caja.
type CashClosingRepository interface {
	Create(ctx context.Context, closing *entity.CashClosing) error
	GetByID(ctx context.Context, id string) (*entity.CashClosing, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CashClosing, error)
	// GetOpenByBranch turno abierto de la sucursal, (nil, nil) si no hay.
	GetOpenByBranch(ctx context.Context, branchID string) (*entity.CashClosing, error)
	Close(ctx context.Context, closing *entity.CashClosing) error
}
