package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuotationItemRequest línea cotizada.
type QuotationItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateQuotationRequest body para POST /api/quotations.
type CreateQuotationRequest struct {
	BranchID  string                 `json:"branch_id"`
	ClientID  string                 `json:"client_id,omitempty"`
	Items     []QuotationItemRequest `json:"items"`
	Discount  decimal.Decimal        `json:"discount"`
	ValidDays int                    `json:"valid_days"` // 0 = 15 días
	Notes     string                 `json:"notes,omitempty"`
}

// ConvertQuotationRequest body para POST /api/quotations/:id/convert.
type ConvertQuotationRequest struct {
	PaymentType  string           `json:"payment_type"`
	CashReceived *decimal.Decimal `json:"cash_received,omitempty"`
}

// QuotationItemResponse línea cotizada.
type QuotationItemResponse struct {
	Position    int             `json:"position"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// QuotationResponse cotización.
type QuotationResponse struct {
	ID         string                  `json:"id"`
	BranchID   string                  `json:"branch_id"`
	SellerID   string                  `json:"seller_id"`
	ClientID   string                  `json:"client_id,omitempty"`
	Subtotal   decimal.Decimal         `json:"subtotal"`
	Discount   decimal.Decimal         `json:"discount"`
	Tax        decimal.Decimal         `json:"tax"`
	Total      decimal.Decimal         `json:"total"`
	ValidUntil time.Time               `json:"valid_until"`
	Status     string                  `json:"status"`
	SaleID     string                  `json:"sale_id,omitempty"`
	Notes      string                  `json:"notes,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	Items      []QuotationItemResponse `json:"items"`
}

// NewQuotationResponse mapea la cotización derivando "expirada" con now.
func NewQuotationResponse(q *entity.Quotation, now time.Time) *QuotationResponse {
	out := &QuotationResponse{
		ID:         q.ID,
		BranchID:   q.BranchID,
		SellerID:   q.SellerID,
		ClientID:   q.ClientID,
		Subtotal:   q.Subtotal,
		Discount:   q.Discount,
		Tax:        q.Tax,
		Total:      q.Total,
		ValidUntil: q.ValidUntil,
		Status:     q.EffectiveStatus(now),
		SaleID:     q.SaleID,
		Notes:      q.Notes,
		CreatedAt:  q.CreatedAt,
	}
	for _, it := range q.Items {
		out.Items = append(out.Items, QuotationItemResponse{
			Position:    it.Position,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
