package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen del lote.
const (
	LotSourceRestock  = "reabastecimiento"
	LotSourceReturn   = "devolucion"
	LotSourceTransfer = "traslado"
)

// Estado de vencimiento derivado (no se persiste).
const (
	ExpirationExpired = "vencido"
	ExpirationNear    = "proximo_a_vencer"
	ExpirationValid   = "vigente"
)

// Lot es un lote fechado de un producto en una sucursal.
// Invariante: 0 <= CurrentQuantity <= InitialQuantity.
type Lot struct {
	ID              string
	ProductID       string
	BranchID        string
	LotNumber       string     // único por producto+sucursal
	ExpirationDate  *time.Time // nil = sin vencimiento
	InitialQuantity int
	CurrentQuantity int
	UnitCost        decimal.Decimal
	Source          string
	ReceivedAt      time.Time
	CreatedAt       time.Time
}

// LotAllocation cantidad tomada de un lote al despachar.
type LotAllocation struct {
	LotID     string
	LotNumber string
	Quantity  int
	UnitCost  decimal.Decimal
}
