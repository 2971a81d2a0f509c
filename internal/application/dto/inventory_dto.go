package dto

import (
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AddLotRequest body para POST /api/inventory/lots (reabastecimiento).
type AddLotRequest struct {
	ProductID      string          `json:"product_id"`
	BranchID       string          `json:"branch_id"`
	LotNumber      string          `json:"lot_number"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ExpirationDate string          `json:"expiration_date,omitempty"` // YYYY-MM-DD, vacío = sin vencimiento
}

// AdjustStockRequest body para POST /api/inventory/adjustments (merma o corrección a la baja).
type AdjustStockRequest struct {
	LotID    string `json:"lot_id"`
	Quantity int    `json:"quantity"` // cantidad a retirar del lote, > 0
	Reason   string `json:"reason"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	ProductID    string `json:"product_id"`
	FromBranchID string `json:"from_branch_id"`
	ToBranchID   string `json:"to_branch_id"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason"`
}

// LotResponse lote con su estado de vencimiento derivado.
type LotResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	BranchID         string          `json:"branch_id"`
	LotNumber        string          `json:"lot_number"`
	ExpirationDate   *time.Time      `json:"expiration_date,omitempty"`
	InitialQuantity  int             `json:"initial_quantity"`
	CurrentQuantity  int             `json:"current_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Source           string          `json:"source"`
	ExpirationStatus string          `json:"expiration_status"`
	ReceivedAt       time.Time       `json:"received_at"`
}

// NewLotResponse mapea un lote con el estado calculado por el llamador.
func NewLotResponse(l *entity.Lot, status string) *LotResponse {
	return &LotResponse{
		ID:               l.ID,
		ProductID:        l.ProductID,
		BranchID:         l.BranchID,
		LotNumber:        l.LotNumber,
		ExpirationDate:   l.ExpirationDate,
		InitialQuantity:  l.InitialQuantity,
		CurrentQuantity:  l.CurrentQuantity,
		UnitCost:         l.UnitCost,
		Source:           l.Source,
		ExpirationStatus: status,
		ReceivedAt:       l.ReceivedAt,
	}
}

// StockResponse resumen de stock de un producto en una sucursal.
type StockResponse struct {
	ProductID    string `json:"product_id"`
	BranchID     string `json:"branch_id"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	MaxStock     int    `json:"max_stock"`
	Low          bool   `json:"low"`
}

// NewStockResponse mapea el resumen.
func NewStockResponse(s *entity.BranchStock) *StockResponse {
	return &StockResponse{
		ProductID:    s.ProductID,
		BranchID:     s.BranchID,
		CurrentStock: s.CurrentStock,
		MinStock:     s.MinStock,
		MaxStock:     s.MaxStock,
		Low:          s.IsLow(),
	}
}

// MovementResponse movimiento de inventario.
type MovementResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	ProductID string          `json:"product_id"`
	LotID     string          `json:"lot_id,omitempty"`
	BranchID  string          `json:"branch_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reason    string          `json:"reason"`
	SaleID    string          `json:"sale_id,omitempty"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewMovementResponse mapea el movimiento.
func NewMovementResponse(m *entity.StockMovement) *MovementResponse {
	return &MovementResponse{
		ID:        m.ID,
		Type:      m.Type,
		ProductID: m.ProductID,
		LotID:     m.LotID,
		BranchID:  m.BranchID,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		Reason:    m.Reason,
		SaleID:    m.SaleID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}
