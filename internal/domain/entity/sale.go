package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pago.
const (
	PaymentCash   = "efectivo"
	PaymentCard   = "tarjeta"
	PaymentCredit = "credito"
	PaymentMixed  = "mixto"
)

// Estados de venta. Cancelada es terminal.
const (
	SaleStatusCompleted = "completada"
	SaleStatusCancelled = "cancelada"
)

// IsValidPaymentType valida el tipo de pago.
func IsValidPaymentType(t string) bool {
	switch t {
	case PaymentCash, PaymentCard, PaymentCredit, PaymentMixed:
		return true
	}
	return false
}

// Sale cabecera de venta con sus líneas.
// Invariante: Total == Subtotal - Discount + Tax.
type Sale struct {
	ID           string
	Number       string // V-00000001
	BranchID     string
	SellerID     string
	ClientID     string // vacío = consumidor final
	PaymentType  string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	CashReceived decimal.Decimal // monto declarado en efectivo (0 si no aplica)
	Change       decimal.Decimal
	Status       string
	Notes        string
	CreditID     string
	CancelledBy  string
	CancelReason string
	CancelledAt  *time.Time
	CreatedAt    time.Time
	Items        []SaleItem
}

// SaleItem línea de venta. Invariante: Subtotal == Quantity*UnitPrice - Discount.
type SaleItem struct {
	ID          string
	SaleID      string
	Position    int // 1..n, orden de captura
	ProductID   string
	ProductName string
	LotID       string // informado cuando la línea consumió exactamente un lote
	LotNumber   string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Subtotal    decimal.Decimal
	Allocations []LotAllocation
}

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	BranchID string
	Status   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
