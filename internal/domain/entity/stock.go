package entity

import "time"

// BranchStock resumen desnormalizado del stock de un producto en una sucursal.
// Invariante: CurrentStock == suma de CurrentQuantity de los lotes del par producto+sucursal.
type BranchStock struct {
	ProductID    string
	BranchID     string
	CurrentStock int
	MinStock     int
	MaxStock     int
	UpdatedAt    time.Time
}

// IsLow indica si el stock está en o por debajo del mínimo.
func (s BranchStock) IsLow() bool {
	return s.CurrentStock <= s.MinStock
}
