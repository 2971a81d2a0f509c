package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/pdf"
)

func sampleSale(status string) *entity.Sale {
	d := decimal.RequireFromString
	return &entity.Sale{
		ID:           "s-1",
		Number:       "V-00000042",
		BranchID:     "b-1",
		SellerID:     "u-1",
		PaymentType:  entity.PaymentCash,
		Subtotal:     d("250000"),
		Discount:     decimal.Zero,
		Tax:          decimal.Zero,
		Total:        d("250000"),
		CashReceived: d("300000"),
		Change:       d("50000"),
		Status:       status,
		CreatedAt:    time.Date(2025, 5, 2, 15, 30, 0, 0, time.UTC),
		Items: []entity.SaleItem{{
			Position: 1, ProductID: "p-1", ProductName: "Proteína Whey 5lb",
			Quantity: 1, UnitPrice: d("250000"), Discount: decimal.Zero, Subtotal: d("250000"),
			Allocations: []entity.LotAllocation{{LotID: "l-1", LotNumber: "W-2025-01", Quantity: 1}},
		}},
	}
}

func TestGenerateSaleReceipt_ProducePDF(t *testing.T) {
	g := pdf.NewReceiptGenerator()
	cases := []struct {
		name string
		data sales.ReceiptData
	}{
		{"consumidor final", sales.ReceiptData{Sale: sampleSale(entity.SaleStatusCompleted), Branch: &entity.Branch{Name: "Centro", Address: "Cra 7"}}},
		{"con cliente y anulada", sales.ReceiptData{
			Sale:   sampleSale(entity.SaleStatusCancelled),
			Branch: &entity.Branch{Name: "Norte"},
			Client: &entity.Client{Name: "Gimnasio Titán", Document: "900123"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := g.GenerateSaleReceipt(context.Background(), tc.data)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
		})
	}
}

func TestGenerateSaleReceipt_SinVenta(t *testing.T) {
	_, err := pdf.NewReceiptGenerator().GenerateSaleReceipt(context.Background(), sales.ReceiptData{})
	assert.Error(t, err)
}
