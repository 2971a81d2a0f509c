package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "entrada"
	MovementTypeOUT        = "salida"
	MovementTypeTRANSFER   = "traslado"
	MovementTypeADJUSTMENT = "ajuste"
	MovementTypeRETURN     = "devolucion"
)

// Motivos usados por los flujos del sistema.
const (
	MovementReasonSale    = "venta"
	MovementReasonRestock = "reabastecimiento"
	MovementReasonCancel  = "cancelacion de venta"
)

// StockMovement registro de auditoría inmutable de un cambio de stock.
type StockMovement struct {
	ID        string
	Type      string
	ProductID string
	LotID     string
	BranchID  string
	Quantity  int // positivo entrada, negativo salida
	UnitCost  decimal.Decimal
	Reason    string
	SaleID    string // vacío si no está ligado a una venta
	UserID    string
	CreatedAt time.Time
}

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	BranchID  string
	ProductID string
	SaleID    string
	Limit     int
}
