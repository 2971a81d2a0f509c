package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de crédito. Pagado es terminal.
const (
	CreditStatusPending = "pendiente"
	CreditStatusPaid    = "pagado"
	CreditStatusOverdue = "vencido"
)

// Métodos de abono.
const (
	PaymentMethodCash     = "efectivo"
	PaymentMethodCard     = "tarjeta"
	PaymentMethodTransfer = "transferencia"
)

// Credit saldo adeudado por una venta a crédito.
// Invariante: RemainingBalance == AmountTotal - AmountPaid >= 0.
type Credit struct {
	ID               string
	SaleID           string
	ClientID         string
	AmountTotal      decimal.Decimal
	AmountPaid       decimal.Decimal
	RemainingBalance decimal.Decimal
	DueDate          time.Time
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Payments         []CreditPayment
}

// EffectiveStatus deriva "vencido" cuando pasó la fecha límite con saldo pendiente.
func (c Credit) EffectiveStatus(now time.Time) string {
	if c.Status == CreditStatusPending && c.RemainingBalance.IsPositive() && now.After(c.DueDate) {
		return CreditStatusOverdue
	}
	return c.Status
}

// CreditPayment abono registrado contra un crédito.
type CreditPayment struct {
	ID        string
	CreditID  string
	Amount    decimal.Decimal
	Method    string
	UserID    string
	CreatedAt time.Time
}
