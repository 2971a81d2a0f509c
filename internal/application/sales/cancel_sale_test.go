package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func TestCancelSale_DevuelveStockComoLotesDeDevolucion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	whey := f.product(t, "Whey", "100")
	creatine := f.product(t, "Creatina", "80")
	f.addLot(t, whey, branch, "W-1", 10, "2025-04-01")
	f.addLot(t, creatine, branch, "C-1", 10, "")

	sale, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID:    branch,
		PaymentType: entity.PaymentCash,
		Items:       []dto.SaleItemRequest{line(whey, 3, "100"), line(creatine, 2, "80")},
	})
	require.NoError(t, err)
	require.Equal(t, 7, f.stock(t, whey, branch))
	require.Equal(t, 8, f.stock(t, creatine, branch))

	cancelled, err := f.sales.CancelSale(ctx, admin, sale.ID, dto.CancelSaleRequest{Reason: "cliente desistió"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, "cliente desistió", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)

	assert.Equal(t, 10, f.stock(t, whey, branch))
	assert.Equal(t, 10, f.stock(t, creatine, branch))
	f.requireSummaryMatchesLots(t, whey, branch)
	f.requireSummaryMatchesLots(t, creatine, branch)

	var returns []*dto.MovementResponse
	for _, m := range f.movements(t, entity.MovementFilter{SaleID: sale.ID}) {
		if m.Type == entity.MovementTypeRETURN {
			returns = append(returns, m)
		}
	}
	require.Len(t, returns, 2, "un movimiento de devolución por línea")

	lots, err := f.lots.ListLots(ctx, whey, branch, true)
	require.NoError(t, err)
	var returnLot *dto.LotResponse
	for _, l := range lots {
		if l.LotNumber == "DEVOLUCION-"+sale.Number+"-1" {
			returnLot = l
		}
	}
	require.NotNil(t, returnLot, "lote de devolución de la primera línea")
	assert.Equal(t, 3, returnLot.CurrentQuantity)
	assert.Equal(t, entity.LotSourceReturn, returnLot.Source)
	assert.Nil(t, returnLot.ExpirationDate)
	assert.True(t, dec("10000").Equal(returnLot.UnitCost), "costo promedio de los lotes consumidos")

	stored, err := f.sales.GetSale(ctx, admin, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, stored.Status)
}

func TestCancelSale_DosVecesEsEstadoInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "Whey", "100")
	f.addLot(t, p, branch, "W-1", 4, "")

	sale, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 2, "100")},
	})
	require.NoError(t, err)
	_, err = f.sales.CancelSale(ctx, admin, sale.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)

	_, err = f.sales.CancelSale(ctx, admin, sale.ID, dto.CancelSaleRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.SaleStatusCancelled, stateErr.State)
	assert.Equal(t, 4, f.stock(t, p, branch), "la segunda cancelación no devuelve stock otra vez")
}

func TestCancelSale_NoRevierteElCredito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "Whey", "100")
	f.addLot(t, p, branch, "W-1", 4, "")
	client := f.client(t, "1000", "0")

	sale, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: branch, ClientID: client, PaymentType: entity.PaymentCredit,
		Items: []dto.SaleItemRequest{line(p, 2, "100")},
	})
	require.NoError(t, err)

	_, err = f.sales.CancelSale(ctx, admin, sale.ID, dto.CancelSaleRequest{Reason: "error de digitación"})
	require.NoError(t, err)

	assert.True(t, dec("200").Equal(f.balance(t, client)), "el saldo del cliente queda igual")
	credit, err := f.repos.Credits.GetByID(ctx, sale.CreditID)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStatusPending, credit.Status)
}

func TestCancelSale_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	home := f.branch(t, "Centro")
	other := f.branch(t, "Norte")
	p := f.product(t, "Whey", "100")
	f.addLot(t, p, other, "W-1", 4, "")
	sale, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: other, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 1, "100")},
	})
	require.NoError(t, err)

	_, err = f.sales.CancelSale(ctx, admin, "no-existe", dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.sales.CancelSale(ctx, seller(home), sale.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 3, f.stock(t, p, other))

	_, err = f.sales.CancelSale(ctx, entity.Principal{}, sale.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
