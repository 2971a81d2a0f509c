package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// StockMovementRepository puerto del historial de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error)
}
