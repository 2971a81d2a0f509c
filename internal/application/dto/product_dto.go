package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string          `json:"name"`
	Barcode        string          `json:"barcode"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RequiresLot    bool            `json:"requires_lot"`
}

// UpdateProductRequest patch de producto; solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Barcode        *string          `json:"barcode"`
	Category       *string          `json:"category"`
	Description    *string          `json:"description"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	RequiresLot    *bool            `json:"requires_lot"`
	Active         *bool            `json:"active"`
}

// Patch convierte el request al patch tipado del dominio.
func (r UpdateProductRequest) Patch() entity.ProductPatch {
	return entity.ProductPatch{
		Name:           r.Name,
		Barcode:        r.Barcode,
		Category:       r.Category,
		Description:    r.Description,
		CostPrice:      r.CostPrice,
		SalePrice:      r.SalePrice,
		WholesalePrice: r.WholesalePrice,
		RequiresLot:    r.RequiresLot,
		Active:         r.Active,
	}
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Barcode        string          `json:"barcode"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RequiresLot    bool            `json:"requires_lot"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewProductResponse mapea la entidad a la respuesta.
func NewProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Barcode:        p.Barcode,
		Category:       p.Category,
		Description:    p.Description,
		CostPrice:      p.CostPrice,
		SalePrice:      p.SalePrice,
		WholesalePrice: p.WholesalePrice,
		RequiresLot:    p.RequiresLot,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []*ProductResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
