// Package pricing calcula subtotales y totales de ventas y cotizaciones con aritmética decimal
// redondeada a 2 decimales en cada línea y en el total.
package pricing

import (
	"fmt"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line entrada de cálculo para una línea.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Totals resultado del cálculo. Total == Subtotal - Discount + Tax.
type Totals struct {
	LineSubtotals []decimal.Decimal
	LineDiscounts []decimal.Decimal // descuento por línea ya redondeado, el que se persiste
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// LineSubtotal cantidad * precio - descuento, redondeado.
func LineSubtotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount).Round(2)
}

// Compute valida las líneas y calcula los totales. taxRate es un porcentaje (19 = 19%).
func Compute(lines []Line, discount, taxRate decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.Invalid("items", "debe contener al menos una línea")
	}
	out := Totals{
		LineSubtotals: make([]decimal.Decimal, len(lines)),
		LineDiscounts: make([]decimal.Decimal, len(lines)),
	}
	subtotal := decimal.Zero
	for i, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if !l.UnitPrice.IsPositive() {
			return Totals{}, domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "debe ser mayor que cero")
		}
		gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		lineDiscount := l.Discount.Round(2)
		if lineDiscount.IsNegative() || lineDiscount.GreaterThan(gross) {
			return Totals{}, domain.Invalid(fmt.Sprintf("items[%d].discount", i), "fuera de rango")
		}
		ls := LineSubtotal(l.Quantity, l.UnitPrice, lineDiscount)
		out.LineDiscounts[i] = lineDiscount
		out.LineSubtotals[i] = ls
		subtotal = subtotal.Add(ls)
	}
	discount = discount.Round(2)
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return Totals{}, domain.Invalid("discount", "fuera de rango")
	}
	if taxRate.IsNegative() {
		return Totals{}, domain.Invalid("tax_rate", "no puede ser negativo")
	}
	base := subtotal.Sub(discount)
	tax := base.Mul(taxRate).Div(hundred).Round(2)

	out.Subtotal = subtotal
	out.Discount = discount
	out.Tax = tax
	out.Total = base.Add(tax)
	return out, nil
}
