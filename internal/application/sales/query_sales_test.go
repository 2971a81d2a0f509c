package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func TestListSales_VendedorSoloVeSuSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	centro := f.branch(t, "Centro")
	norte := f.branch(t, "Norte")
	p := f.product(t, "Whey", "100")
	f.addLot(t, p, centro, "W-1", 10, "")
	f.addLot(t, p, norte, "W-1", 10, "")

	for _, b := range []string{centro, centro, norte} {
		_, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
			BranchID: b, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 1, "100")},
		})
		require.NoError(t, err)
	}

	own, err := f.sales.ListSales(ctx, seller(centro), entity.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, own.Items, 2)
	for _, s := range own.Items {
		assert.Equal(t, centro, s.BranchID)
	}

	_, err = f.sales.ListSales(ctx, seller(centro), entity.SaleFilter{BranchID: norte})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := f.sales.ListSales(ctx, admin, entity.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 20, all.Page.Limit)

	_, err = f.sales.ListSales(ctx, admin, entity.SaleFilter{Status: "anulada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetSale_AlcancePorSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	centro := f.branch(t, "Centro")
	norte := f.branch(t, "Norte")
	p := f.product(t, "Whey", "100")
	f.addLot(t, p, norte, "W-1", 10, "")
	sale, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: norte, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 1, "100")},
	})
	require.NoError(t, err)

	_, err = f.sales.GetSale(ctx, seller(centro), sale.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.sales.GetSale(ctx, seller(norte), sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Whey", got.Items[0].ProductName)

	_, err = f.sales.GetSale(ctx, admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobante
// ──────────────────────────────────────────────────────────────────────────────

type fakeGenerator struct {
	got sales.ReceiptData
	err error
}

func (g *fakeGenerator) GenerateSaleReceipt(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	g.got = data
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestReceiptDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "Whey", "100")
	f.addLot(t, p, branch, "W-1", 10, "")
	client := f.client(t, "500", "0")
	sale, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: branch, ClientID: client, PaymentType: entity.PaymentCard,
		Items: []dto.SaleItemRequest{line(p, 1, "100")},
	})
	require.NoError(t, err)

	gen := &fakeGenerator{}
	uc := sales.NewReceiptUseCase(f.sales, gen)

	pdf, filename, err := uc.Download(ctx, admin, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, sale.Number+".pdf", filename)
	assert.Equal(t, "Centro", gen.got.Branch.Name)
	require.NotNil(t, gen.got.Client)
	assert.Equal(t, client, gen.got.Client.ID)
	assert.Len(t, gen.got.Sale.Items, 1)

	gen.err = errors.New("fallo de render")
	_, _, err = uc.Download(ctx, admin, sale.ID)
	assert.Error(t, err)

	_, _, err = uc.Download(ctx, admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
