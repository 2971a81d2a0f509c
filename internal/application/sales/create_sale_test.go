package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Descuento FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaFIFOPorVencimiento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	whey := f.product(t, "Proteína Whey 2lb", "100")
	noExp := f.addLot(t, whey, branch, "L-C", 5, "")
	late := f.addLot(t, whey, branch, "L-B", 5, "2025-03-01")
	early := f.addLot(t, whey, branch, "L-A", 5, "2025-01-01")

	sale, err := f.sales.CreateSale(ctx, seller(branch), dto.CreateSaleRequest{
		BranchID:    branch,
		PaymentType: entity.PaymentCash,
		Items:       []dto.SaleItemRequest{line(whey, 7, "100")},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.lotQty(t, early))
	assert.Equal(t, 3, f.lotQty(t, late))
	assert.Equal(t, 5, f.lotQty(t, noExp), "el lote sin vencimiento queda intacto")
	assert.Equal(t, 8, f.stock(t, whey, branch))
	f.requireSummaryMatchesLots(t, whey, branch)

	require.Len(t, sale.Items, 1)
	lots := sale.Items[0].Lots
	require.Len(t, lots, 2)
	assert.Equal(t, "L-A", lots[0].LotNumber)
	assert.Equal(t, 5, lots[0].Quantity)
	assert.Equal(t, "L-B", lots[1].LotNumber)
	assert.Equal(t, 2, lots[1].Quantity)

	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Equal(t, "V-00000001", sale.Number)
	assert.Equal(t, "700", sale.Total.String())
	assert.Equal(t, "seller-1", sale.SellerID)

	movs := f.movements(t, entity.MovementFilter{SaleID: sale.ID})
	require.Len(t, movs, 2, "un movimiento de salida por lote tocado")
	total := 0
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		total += m.Quantity
	}
	assert.Equal(t, -7, total)
}

func TestCreateSale_AsignacionesEnOrdenDeConsumo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "Caseína", "90")
	f.addLot(t, p, branch, "A-TARDIO", 5, "2025-03-01")
	f.addLot(t, p, branch, "Z-PRONTO", 2, "2025-01-01")

	created, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCash,
		Items: []dto.SaleItemRequest{line(p, 4, "90")},
	})
	require.NoError(t, err)

	stored, err := f.repos.Sales.GetByID(ctx, created.ID)
	require.NoError(t, err)
	allocs := stored.Items[0].Allocations
	require.Len(t, allocs, 2)
	assert.Equal(t, "Z-PRONTO", allocs[0].LotNumber, "primero el lote que vence antes, no el de menor número")
	assert.Equal(t, 2, allocs[0].Quantity)
	assert.Equal(t, "A-TARDIO", allocs[1].LotNumber)
	assert.Equal(t, 2, allocs[1].Quantity)
}

func TestCreateSale_LoteExplicito(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Creatina 300g", "80")
	f.addLot(t, p, branch, "L-1", 5, "2025-01-01")
	chosen := f.addLot(t, p, branch, "L-2", 5, "2025-06-01")

	item := line(p, 2, "80")
	item.LotID = chosen
	sale, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCard, Items: []dto.SaleItemRequest{item},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, f.lotQty(t, chosen))
	assert.Equal(t, chosen, sale.Items[0].LotID)
	assert.Equal(t, "L-2", sale.Items[0].LotNumber)
	f.requireSummaryMatchesLots(t, p, branch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "BCAA", "50")
	l1 := f.addLot(t, p, branch, "L-1", 1, "2025-01-01")
	l2 := f.addLot(t, p, branch, "L-2", 2, "")
	movsBefore := len(f.movements(t, entity.MovementFilter{BranchID: branch}))

	_, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 5, "50")},
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr, "el error de stock llega sin reemplazar")
	assert.Equal(t, p, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Available)

	assert.Equal(t, 1, f.lotQty(t, l1))
	assert.Equal(t, 2, f.lotQty(t, l2))
	assert.Equal(t, 3, f.stock(t, p, branch))
	assert.Len(t, f.movements(t, entity.MovementFilter{BranchID: branch}), movsBefore)

	list, err := f.sales.ListSales(ctx, admin, entity.SaleFilter{BranchID: branch})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "no debe persistir ninguna venta")
}

func TestCreateSale_SegundaLineaSinStockRevierteLaPrimera(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	a := f.product(t, "Omega 3", "40")
	b := f.product(t, "Multivitamínico", "30")
	lotA := f.addLot(t, a, branch, "A-1", 10, "")
	f.addLot(t, b, branch, "B-1", 1, "")

	_, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID:    branch,
		PaymentType: entity.PaymentCash,
		Items:       []dto.SaleItemRequest{line(a, 4, "40"), line(b, 2, "30")},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, f.lotQty(t, lotA), "la línea ya descontada se revierte con el resto")
	assert.Equal(t, 10, f.stock(t, a, branch))
	f.requireSummaryMatchesLots(t, a, branch)
	f.requireSummaryMatchesLots(t, b, branch)
}

func TestCreateSale_MismoProductoEnDosLineas(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Glutamina", "60")
	f.addLot(t, p, branch, "G-1", 5, "2025-02-01")
	f.addLot(t, p, branch, "G-2", 5, "2025-05-01")

	sale, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID:    branch,
		PaymentType: entity.PaymentCash,
		Items:       []dto.SaleItemRequest{line(p, 3, "60"), line(p, 4, "60")},
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 3, f.stock(t, p, branch))
	f.requireSummaryMatchesLots(t, p, branch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Crédito
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_CreditoDentroDelCupo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "Pre-entreno", "150")
	f.addLot(t, p, branch, "P-1", 10, "")
	client := f.client(t, "1000", "800")

	sale, err := f.sales.CreateSale(ctx, seller(branch), dto.CreateSaleRequest{
		BranchID:    branch,
		ClientID:    client,
		PaymentType: entity.PaymentCredit,
		Items:       []dto.SaleItemRequest{line(p, 1, "150")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, sale.CreditID)
	assert.True(t, dec("950").Equal(f.balance(t, client)))

	credit, err := f.repos.Credits.GetByID(ctx, sale.CreditID)
	require.NoError(t, err)
	require.NotNil(t, credit)
	assert.Equal(t, entity.CreditStatusPending, credit.Status)
	assert.True(t, dec("150").Equal(credit.RemainingBalance))
	assert.Equal(t, sale.ID, credit.SaleID)
	assert.Equal(t, testNow.AddDate(0, 0, 30), credit.DueDate)

	t.Run("la siguiente venta supera el cupo", func(t *testing.T) {
		_, err := f.sales.CreateSale(ctx, seller(branch), dto.CreateSaleRequest{
			BranchID:    branch,
			ClientID:    client,
			PaymentType: entity.PaymentCredit,
			Items:       []dto.SaleItemRequest{line(p, 1, "100")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))

		var limitErr *domain.CreditLimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, client, limitErr.ClientID)

		assert.True(t, dec("950").Equal(f.balance(t, client)), "el saldo no cambia")
		assert.Equal(t, 9, f.stock(t, p, branch), "no se descuenta stock")
	})
}

func TestCreateSale_CreditoExactamenteEnElCupo(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Caseína", "200")
	f.addLot(t, p, branch, "C-1", 3, "")
	client := f.client(t, "1000", "800")

	_, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID: branch, ClientID: client, PaymentType: entity.PaymentCredit,
		Items: []dto.SaleItemRequest{line(p, 1, "200")},
	})
	require.NoError(t, err, "saldo + total == cupo está permitido")
	assert.True(t, dec("1000").Equal(f.balance(t, client)))
}

func TestCreateSale_CreditoSinCliente(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Caseína", "200")

	_, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCredit, Items: []dto.SaleItemRequest{line(p, 1, "200")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_CreditoClienteInexistente(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Caseína", "200")
	f.addLot(t, p, branch, "C-1", 3, "")

	_, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID: branch, ClientID: "no-existe", PaymentType: entity.PaymentCredit,
		Items: []dto.SaleItemRequest{line(p, 1, "200")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y alcance
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_EfectivoMenorAlTotal(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Proteína vegana", "120")
	f.addLot(t, p, branch, "V-1", 5, "")

	_, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCash, CashReceived: decPtr("100"),
		Items: []dto.SaleItemRequest{line(p, 1, "120")},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, f.stock(t, p, branch))
}

func TestCreateSale_EfectivoCalculaCambio(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Proteína vegana", "120")
	f.addLot(t, p, branch, "V-1", 5, "")

	sale, err := f.sales.CreateSale(context.Background(), admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCash, CashReceived: decPtr("150"),
		Discount: dec("10"),
		Items:    []dto.SaleItemRequest{line(p, 1, "120")},
	})
	require.NoError(t, err)
	assert.Equal(t, "110", sale.Total.String())
	assert.Equal(t, "40", sale.Change.String())
}

func TestCreateSale_DescuentoSubCentavoRespetaSubtotalDeLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	branch := f.branch(t, "Centro")
	p := f.product(t, "Glutamina", "10")
	f.addLot(t, p, branch, "G-1", 5, "")

	item := line(p, 1, "10")
	item.Discount = dec("0.005")
	created, err := f.sales.CreateSale(ctx, admin, dto.CreateSaleRequest{
		BranchID: branch, PaymentType: entity.PaymentCard,
		Items: []dto.SaleItemRequest{item},
	})
	require.NoError(t, err)

	stored, err := f.repos.Sales.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	it := stored.Items[0]
	assert.Equal(t, "0.01", it.Discount.String())
	assert.Equal(t, "9.99", it.Subtotal.String())
	assert.True(t, it.Subtotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)))
	assert.Equal(t, "9.99", stored.Total.String())
}

func TestCreateSale_VendedorEnOtraSucursal(t *testing.T) {
	f := newFixture(t)
	home := f.branch(t, "Centro")
	other := f.branch(t, "Norte")
	p := f.product(t, "Quemador", "90")
	f.addLot(t, p, other, "Q-1", 5, "")

	_, err := f.sales.CreateSale(context.Background(), seller(home), dto.CreateSaleRequest{
		BranchID: other, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 1, "90")},
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 5, f.stock(t, p, other))
}

func TestCreateSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	branch := f.branch(t, "Centro")
	p := f.product(t, "Quemador", "90")

	cases := []struct {
		name string
		in   dto.CreateSaleRequest
		want error
	}{
		{"sin sucursal", dto.CreateSaleRequest{PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 1, "90")}}, domain.ErrInvalidInput},
		{"tipo de pago desconocido", dto.CreateSaleRequest{BranchID: branch, PaymentType: "bitcoin", Items: []dto.SaleItemRequest{line(p, 1, "90")}}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateSaleRequest{BranchID: branch, PaymentType: entity.PaymentCash}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateSaleRequest{BranchID: branch, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 0, "90")}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateSaleRequest{BranchID: branch, PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line("nope", 1, "90")}}, domain.ErrNotFound},
		{"sucursal inexistente", dto.CreateSaleRequest{BranchID: "nope", PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{line(p, 1, "90")}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sales.CreateSale(context.Background(), admin, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateSale_SinUsuario(t *testing.T) {
	f := newFixture(t)
	_, err := f.sales.CreateSale(context.Background(), entity.Principal{}, dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
