package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de caja.
const (
	CashClosingOpen   = "abierto"
	CashClosingClosed = "cerrado"
)

// CashClosing turno de caja de una sucursal: apertura y cierre con arqueo.
type CashClosing struct {
	ID            string
	BranchID      string
	OpenedBy      string
	ClosedBy      string
	OpeningAmount decimal.Decimal
	CashSales     decimal.Decimal // ventas en efectivo completadas del turno
	CardSales     decimal.Decimal
	ExpectedCash  decimal.Decimal // apertura + ventas en efectivo
	DeclaredCash  decimal.Decimal
	DeclaredCard  decimal.Decimal
	Difference    decimal.Decimal // declarado - esperado
	SalesCount    int
	Status        string
	Notes         string
	OpenedAt      time.Time
	ClosedAt      *time.Time
}
