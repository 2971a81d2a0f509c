package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock vive en lotes y en el resumen por sucursal.
type Product struct {
	ID             string
	Name           string
	Barcode        string // código de barras, único cuando no está vacío
	Category       string
	Description    string
	CostPrice      decimal.Decimal // precio de compra de referencia
	SalePrice      decimal.Decimal // precio de venta al detal
	WholesalePrice decimal.Decimal // precio mayorista
	RequiresLot    bool            // el POS debe elegir lote explícito
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductPatch enumera los campos actualizables de un producto; nil = sin cambio.
type ProductPatch struct {
	Name           *string
	Barcode        *string
	Category       *string
	Description    *string
	CostPrice      *decimal.Decimal
	SalePrice      *decimal.Decimal
	WholesalePrice *decimal.Decimal
	RequiresLot    *bool
	Active         *bool
}

// IsEmpty indica si el patch no modifica ningún campo.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Barcode == nil && p.Category == nil && p.Description == nil &&
		p.CostPrice == nil && p.SalePrice == nil && p.WholesalePrice == nil &&
		p.RequiresLot == nil && p.Active == nil
}

// Apply copia sobre el producto los campos presentes en el patch.
func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Barcode != nil {
		p.Barcode = *patch.Barcode
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CostPrice != nil {
		p.CostPrice = *patch.CostPrice
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.WholesalePrice != nil {
		p.WholesalePrice = *patch.WholesalePrice
	}
	if patch.RequiresLot != nil {
		p.RequiresLot = *patch.RequiresLot
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // nombre o código de barras
	Category   string
	OnlyActive bool
	Limit      int
	Offset     int
}
