package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// QuotationRepository puerto de persistencia de cotizaciones.
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error)
	MarkConverted(ctx context.Context, id, saleID string) error
}
