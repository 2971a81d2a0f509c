package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client cliente con cuenta de crédito.
// Invariante: CurrentBalance <= CreditLimit después de cada venta a crédito.
type Client struct {
	ID             string
	Name           string
	Document       string // cédula o NIT
	Email          string
	Phone          string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal // suma de saldos pendientes de sus créditos
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AvailableCredit cupo restante.
func (c Client) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentBalance)
}

// ClientPatch campos actualizables de un cliente.
type ClientPatch struct {
	Name        *string
	Document    *string
	Email       *string
	Phone       *string
	CreditLimit *decimal.Decimal
}
