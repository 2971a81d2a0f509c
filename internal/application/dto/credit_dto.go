package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest body para POST /api/credits/:id/payments.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"` // efectivo, tarjeta, transferencia
}

// CreditPaymentResponse abono.
type CreditPaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreditResponse crédito con su estado efectivo y abonos.
type CreditResponse struct {
	ID               string                  `json:"id"`
	SaleID           string                  `json:"sale_id"`
	ClientID         string                  `json:"client_id"`
	AmountTotal      decimal.Decimal         `json:"amount_total"`
	AmountPaid       decimal.Decimal         `json:"amount_paid"`
	RemainingBalance decimal.Decimal         `json:"remaining_balance"`
	DueDate          time.Time               `json:"due_date"`
	Status           string                  `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
	Payments         []CreditPaymentResponse `json:"payments,omitempty"`
}

// NewCreditResponse mapea el crédito derivando el estado vencido con now.
func NewCreditResponse(c *entity.Credit, now time.Time) *CreditResponse {
	out := &CreditResponse{
		ID:               c.ID,
		SaleID:           c.SaleID,
		ClientID:         c.ClientID,
		AmountTotal:      c.AmountTotal,
		AmountPaid:       c.AmountPaid,
		RemainingBalance: c.RemainingBalance,
		DueDate:          c.DueDate,
		Status:           c.EffectiveStatus(now),
		CreatedAt:        c.CreatedAt,
	}
	for _, p := range c.Payments {
		out.Payments = append(out.Payments, CreditPaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			UserID:    p.UserID,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}
