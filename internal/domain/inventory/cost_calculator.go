package inventory

import (
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AverageAllocationCost costo unitario promedio ponderado de las asignaciones de una línea.
// Costo = Σ(cantidad * costo) / Σ cantidad. Devuelve fallback si no hay cantidades.
func AverageAllocationCost(allocs []entity.LotAllocation, fallback decimal.Decimal) decimal.Decimal {
	qty := 0
	num := decimal.Zero
	for _, a := range allocs {
		if a.Quantity <= 0 {
			continue
		}
		qty += a.Quantity
		num = num.Add(a.UnitCost.Mul(decimal.NewFromInt(int64(a.Quantity))))
	}
	if qty == 0 {
		return fallback
	}
	return num.Div(decimal.NewFromInt(int64(qty))).Round(2)
}
