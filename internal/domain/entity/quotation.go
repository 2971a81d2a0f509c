package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cotización.
const (
	QuotationStatusValid     = "vigente"
	QuotationStatusExpired   = "expirada"
	QuotationStatusConverted = "convertida"
)

// Quotation cotización sin efecto en stock; puede convertirse en venta.
type Quotation struct {
	ID         string
	BranchID   string
	SellerID   string
	ClientID   string
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	ValidUntil time.Time
	Status     string
	SaleID     string // venta generada al convertir
	Notes      string
	CreatedAt  time.Time
	Items      []QuotationItem
}

// EffectiveStatus deriva "expirada" si pasó la vigencia sin convertirse.
func (q Quotation) EffectiveStatus(now time.Time) string {
	if q.Status == QuotationStatusValid && now.After(q.ValidUntil) {
		return QuotationStatusExpired
	}
	return q.Status
}

// QuotationItem línea cotizada.
type QuotationItem struct {
	ID          string
	QuotationID string
	Position    int
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Subtotal    decimal.Decimal
}
