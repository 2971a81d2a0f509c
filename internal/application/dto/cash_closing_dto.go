package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OpenCashRequest body para POST /api/cash-closings.
type OpenCashRequest struct {
	BranchID      string          `json:"branch_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseCashRequest body para POST /api/cash-closings/:id/close.
type CloseCashRequest struct {
	DeclaredCash decimal.Decimal `json:"declared_cash"`
	DeclaredCard decimal.Decimal `json:"declared_card"`
	Notes        string          `json:"notes,omitempty"`
}

// CashClosingResponse turno de caja.
type CashClosingResponse struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branch_id"`
	OpenedBy      string          `json:"opened_by"`
	ClosedBy      string          `json:"closed_by,omitempty"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	CashSales     decimal.Decimal `json:"cash_sales"`
	CardSales     decimal.Decimal `json:"card_sales"`
	ExpectedCash  decimal.Decimal `json:"expected_cash"`
	DeclaredCash  decimal.Decimal `json:"declared_cash"`
	DeclaredCard  decimal.Decimal `json:"declared_card"`
	Difference    decimal.Decimal `json:"difference"`
	SalesCount    int             `json:"sales_count"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// NewCashClosingResponse mapea la entidad.
func NewCashClosingResponse(c *entity.CashClosing) *CashClosingResponse {
	return &CashClosingResponse{
		ID:            c.ID,
		BranchID:      c.BranchID,
		OpenedBy:      c.OpenedBy,
		ClosedBy:      c.ClosedBy,
		OpeningAmount: c.OpeningAmount,
		CashSales:     c.CashSales,
		CardSales:     c.CardSales,
		ExpectedCash:  c.ExpectedCash,
		DeclaredCash:  c.DeclaredCash,
		DeclaredCard:  c.DeclaredCard,
		Difference:    c.Difference,
		SalesCount:    c.SalesCount,
		Status:        c.Status,
		Notes:         c.Notes,
		OpenedAt:      c.OpenedAt,
		ClosedAt:      c.ClosedAt,
	}
}
