package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// DefaultExpiryHorizonDays días antes del vencimiento en que un lote pasa a "próximo a vencer".
const DefaultExpiryHorizonDays = 30

// SortFIFO ordena los lotes por vencimiento ascendente (sin vencimiento al final),
// luego por fecha de ingreso ascendente. El ID desempata para que el orden sea determinista.
func SortFIFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.ExpirationDate != nil && b.ExpirationDate == nil:
			return true
		case a.ExpirationDate == nil && b.ExpirationDate != nil:
			return false
		case a.ExpirationDate != nil && b.ExpirationDate != nil && !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.ID < b.ID
	})
}

// PlanFIFO calcula qué cantidad tomar de cada lote sin modificar ninguno.
// Verifica el total disponible antes de asignar: si no alcanza devuelve *domain.InsufficientStockError
// y ninguna asignación. Los lotes deben venir ya ordenados con SortFIFO.
func PlanFIFO(productID, branchID string, lots []*entity.Lot, quantity int) ([]entity.LotAllocation, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	available := 0
	for _, l := range lots {
		if l.CurrentQuantity > 0 {
			available += l.CurrentQuantity
		}
	}
	if available < quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			BranchID:  branchID,
			Requested: quantity,
			Available: available,
		}
	}

	remaining := quantity
	allocs := make([]entity.LotAllocation, 0, 2)
	for _, l := range lots {
		if remaining == 0 {
			break
		}
		if l.CurrentQuantity <= 0 {
			continue
		}
		take := l.CurrentQuantity
		if take > remaining {
			take = remaining
		}
		allocs = append(allocs, entity.LotAllocation{
			LotID:     l.ID,
			LotNumber: l.LotNumber,
			Quantity:  take,
			UnitCost:  l.UnitCost,
		})
		remaining -= take
	}
	return allocs, nil
}

// PlanSingleLot asignación contra un lote elegido explícitamente.
func PlanSingleLot(productID, branchID string, lot *entity.Lot, quantity int) ([]entity.LotAllocation, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if lot.ProductID != productID || lot.BranchID != branchID {
		return nil, domain.Invalid("lot_id", "no pertenece al producto y sucursal")
	}
	if lot.CurrentQuantity < quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			BranchID:  branchID,
			Requested: quantity,
			Available: lot.CurrentQuantity,
		}
	}
	return []entity.LotAllocation{{
		LotID:     lot.ID,
		LotNumber: lot.LotNumber,
		Quantity:  quantity,
		UnitCost:  lot.UnitCost,
	}}, nil
}

// ExpirationStatus deriva el estado de vencimiento con granularidad de día calendario:
// vencido si la fecha es anterior a hoy, próximo a vencer si cae dentro del horizonte.
func ExpirationStatus(expiration *time.Time, now time.Time, horizonDays int) string {
	if expiration == nil {
		return entity.ExpirationValid
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	exp := time.Date(expiration.Year(), expiration.Month(), expiration.Day(), 0, 0, 0, 0, time.UTC)
	if exp.Before(today) {
		return entity.ExpirationExpired
	}
	if !exp.After(today.AddDate(0, 0, horizonDays)) {
		return entity.ExpirationNear
	}
	return entity.ExpirationValid
}

// TotalAllocated suma las cantidades asignadas.
func TotalAllocated(allocs []entity.LotAllocation) int {
	n := 0
	for _, a := range allocs {
		n += a.Quantity
	}
	return n
}
