package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	LotID     string          `json:"lot_id,omitempty"` // vacío = FIFO
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	BranchID     string            `json:"branch_id"`
	ClientID     string            `json:"client_id,omitempty"`
	PaymentType  string            `json:"payment_type"` // efectivo, tarjeta, credito, mixto
	Items        []SaleItemRequest `json:"items"`
	Discount     decimal.Decimal   `json:"discount"`
	CashReceived *decimal.Decimal  `json:"cash_received,omitempty"`
	CreditDueAt  string            `json:"credit_due_date,omitempty"` // YYYY-MM-DD, vacío = hoy + días por defecto
	Notes        string            `json:"notes,omitempty"`
}

// CancelSaleRequest body para POST /api/sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

// LotAllocationResponse cantidad tomada de un lote.
type LotAllocationResponse struct {
	LotID     string `json:"lot_id"`
	LotNumber string `json:"lot_number"`
	Quantity  int    `json:"quantity"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID          string                  `json:"id"`
	Position    int                     `json:"position"`
	ProductID   string                  `json:"product_id"`
	ProductName string                  `json:"product_name"`
	LotID       string                  `json:"lot_id,omitempty"`
	LotNumber   string                  `json:"lot_number,omitempty"`
	Quantity    int                     `json:"quantity"`
	UnitPrice   decimal.Decimal         `json:"unit_price"`
	Discount    decimal.Decimal         `json:"discount"`
	Subtotal    decimal.Decimal         `json:"subtotal"`
	Lots        []LotAllocationResponse `json:"lots"`
}

// SaleResponse venta compuesta (cabecera + líneas).
type SaleResponse struct {
	ID           string             `json:"id"`
	Number       string             `json:"number"`
	BranchID     string             `json:"branch_id"`
	SellerID     string             `json:"seller_id"`
	ClientID     string             `json:"client_id,omitempty"`
	PaymentType  string             `json:"payment_type"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Discount     decimal.Decimal    `json:"discount"`
	Tax          decimal.Decimal    `json:"tax"`
	Total        decimal.Decimal    `json:"total"`
	CashReceived decimal.Decimal    `json:"cash_received"`
	Change       decimal.Decimal    `json:"change"`
	Status       string             `json:"status"`
	Notes        string             `json:"notes,omitempty"`
	CreditID     string             `json:"credit_id,omitempty"`
	CancelReason string             `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	Items        []SaleItemResponse `json:"items,omitempty"`
}

// NewSaleResponse mapea la venta con sus líneas.
func NewSaleResponse(s *entity.Sale) *SaleResponse {
	out := &SaleResponse{
		ID:           s.ID,
		Number:       s.Number,
		BranchID:     s.BranchID,
		SellerID:     s.SellerID,
		ClientID:     s.ClientID,
		PaymentType:  s.PaymentType,
		Subtotal:     s.Subtotal,
		Discount:     s.Discount,
		Tax:          s.Tax,
		Total:        s.Total,
		CashReceived: s.CashReceived,
		Change:       s.Change,
		Status:       s.Status,
		Notes:        s.Notes,
		CreditID:     s.CreditID,
		CancelReason: s.CancelReason,
		CancelledAt:  s.CancelledAt,
		CreatedAt:    s.CreatedAt,
	}
	for _, it := range s.Items {
		item := SaleItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			LotID:       it.LotID,
			LotNumber:   it.LotNumber,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Subtotal:    it.Subtotal,
			Lots:        make([]LotAllocationResponse, 0, len(it.Allocations)),
		}
		for _, a := range it.Allocations {
			item.Lots = append(item.Lots, LotAllocationResponse{LotID: a.LotID, LotNumber: a.LotNumber, Quantity: a.Quantity})
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// SaleListResponse listado de ventas (sin líneas).
type SaleListResponse struct {
	Items []*SaleResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
