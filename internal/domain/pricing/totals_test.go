package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_SinImpuesto(t *testing.T) {
	totals, err := pricing.Compute([]pricing.Line{
		{Quantity: 2, UnitPrice: d("50000"), Discount: d("5000")},
		{Quantity: 1, UnitPrice: d("30000")},
	}, d("10000"), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "95000", totals.LineSubtotals[0].String())
	assert.Equal(t, "30000", totals.LineSubtotals[1].String())
	assert.Equal(t, "125000", totals.Subtotal.String())
	assert.Equal(t, "10000", totals.Discount.String())
	assert.True(t, totals.Tax.IsZero())
	assert.Equal(t, "115000", totals.Total.String())
}

func TestCompute_ConImpuestoRedondeado(t *testing.T) {
	totals, err := pricing.Compute([]pricing.Line{
		{Quantity: 3, UnitPrice: d("33.33")},
	}, decimal.Zero, d("19"))
	require.NoError(t, err)

	// 99.99 * 19% = 18.9981 -> 19.00
	assert.Equal(t, "99.99", totals.Subtotal.String())
	assert.Equal(t, "19", totals.Tax.String())
	assert.Equal(t, "118.99", totals.Total.String())
	assert.True(t, totals.Total.Equal(totals.Subtotal.Sub(totals.Discount).Add(totals.Tax)))
}

func TestCompute_Validaciones(t *testing.T) {
	cases := []struct {
		name     string
		lines    []pricing.Line
		discount decimal.Decimal
		tax      decimal.Decimal
	}{
		{"sin líneas", nil, decimal.Zero, decimal.Zero},
		{"cantidad cero", []pricing.Line{{Quantity: 0, UnitPrice: d("1")}}, decimal.Zero, decimal.Zero},
		{"precio cero", []pricing.Line{{Quantity: 1, UnitPrice: decimal.Zero}}, decimal.Zero, decimal.Zero},
		{"descuento de línea mayor al bruto", []pricing.Line{{Quantity: 1, UnitPrice: d("10"), Discount: d("11")}}, decimal.Zero, decimal.Zero},
		{"descuento global negativo", []pricing.Line{{Quantity: 1, UnitPrice: d("10")}}, d("-1"), decimal.Zero},
		{"descuento global mayor al subtotal", []pricing.Line{{Quantity: 1, UnitPrice: d("10")}}, d("10.01"), decimal.Zero},
		{"impuesto negativo", []pricing.Line{{Quantity: 1, UnitPrice: d("10")}}, decimal.Zero, d("-19")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.Compute(tc.lines, tc.discount, tc.tax)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLineSubtotal(t *testing.T) {
	assert.Equal(t, "20.01", pricing.LineSubtotal(3, d("6.67"), decimal.Zero).String())
	assert.Equal(t, "0", pricing.LineSubtotal(1, d("10"), d("10")).String())
}

func TestCompute_DescuentoDeLineaSubCentavo(t *testing.T) {
	totals, err := pricing.Compute([]pricing.Line{
		{Quantity: 1, UnitPrice: d("10"), Discount: d("0.005")},
	}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "0.01", totals.LineDiscounts[0].String())
	assert.Equal(t, "9.99", totals.LineSubtotals[0].String())
	assert.True(t, totals.LineSubtotals[0].Equal(d("10").Sub(totals.LineDiscounts[0])),
		"subtotal == cantidad * precio - descuento con el descuento persistido")
}
