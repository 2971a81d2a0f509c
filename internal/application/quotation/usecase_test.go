package quotation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/quotation"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
	"github.com/jhoicas/suplementos-api/pkg/logger"
)

type env struct {
	clock  time.Time
	repos  repository.Repos
	lots   *inventory.LotStore
	uc     *quotation.UseCase
	branch string
	whey   string
}

var admin = entity.Principal{UserID: "admin-1", Role: entity.RoleAdmin}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	now := func() time.Time { return e.clock }

	store := memory.New()
	e.repos = store.Repos()
	e.lots = inventory.NewLotStore(store, e.repos, inventory.Config{Now: now})
	salesUC := sales.NewSaleUseCase(store, e.repos, e.lots, logger.Nop(), sales.Config{TaxRate: dec("19"), Now: now})
	e.uc = quotation.NewUseCase(e.repos, salesUC, dec("19"), now)

	b := &entity.Branch{ID: uuid.NewString(), Name: "Centro", Active: true}
	require.NoError(t, e.repos.Branches.Create(ctx, b))
	p := &entity.Product{ID: uuid.NewString(), Name: "Whey 5lb", SalePrice: dec("250"), Active: true}
	require.NoError(t, e.repos.Products.Create(ctx, p))
	e.branch, e.whey = b.ID, p.ID
	return e
}

func (e *env) quote(t *testing.T, qty int, validDays int) *dto.QuotationResponse {
	t.Helper()
	q, err := e.uc.Create(context.Background(), admin, dto.CreateQuotationRequest{
		BranchID:  e.branch,
		Items:     []dto.QuotationItemRequest{{ProductID: e.whey, Quantity: qty, UnitPrice: dec("100")}},
		ValidDays: validDays,
	})
	require.NoError(t, err)
	return q
}

func (e *env) stock(t *testing.T) int {
	t.Helper()
	st, err := e.repos.Stock.Get(context.Background(), e.whey, e.branch)
	require.NoError(t, err)
	return st.CurrentStock
}

func TestCreate_CalculaTotalesSinTocarStock(t *testing.T) {
	e := newEnv(t)

	q := e.quote(t, 2, 0)
	assert.Equal(t, entity.QuotationStatusValid, q.Status)
	assert.Equal(t, "200", q.Subtotal.String())
	assert.Equal(t, "38", q.Tax.String())
	assert.Equal(t, "238", q.Total.String())
	assert.Equal(t, e.clock.AddDate(0, 0, quotation.DefaultValidDays), q.ValidUntil)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "Whey 5lb", q.Items[0].ProductName)
	assert.Equal(t, 0, e.stock(t))
}

func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Create(ctx, admin, dto.CreateQuotationRequest{BranchID: e.branch})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Create(ctx, admin, dto.CreateQuotationRequest{
		BranchID: e.branch, ValidDays: -1,
		Items: []dto.QuotationItemRequest{{ProductID: e.whey, Quantity: 1, UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Create(ctx, admin, dto.CreateQuotationRequest{
		BranchID: e.branch, ClientID: "nope",
		Items: []dto.QuotationItemRequest{{ProductID: e.whey, Quantity: 1, UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	seller := entity.Principal{UserID: "s1", Role: entity.RoleVendedor, HomeBranchID: "otra"}
	_, err = e.uc.Create(ctx, seller, dto.CreateQuotationRequest{
		BranchID: e.branch,
		Items:    []dto.QuotationItemRequest{{ProductID: e.whey, Quantity: 1, UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGet_ExpiraAlPasarLaVigencia(t *testing.T) {
	e := newEnv(t)
	q := e.quote(t, 1, 3)

	e.clock = e.clock.AddDate(0, 0, 4)
	got, err := e.uc.Get(context.Background(), admin, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusExpired, got.Status)
}

func TestConvert_CreaLaVentaYMarcaConvertida(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.lots.AddLot(ctx, admin, dto.AddLotRequest{
		ProductID: e.whey, BranchID: e.branch, LotNumber: "W-1", Quantity: 5, UnitCost: dec("60"),
	})
	require.NoError(t, err)
	q := e.quote(t, 2, 0)

	sale, err := e.uc.Convert(ctx, admin, q.ID, dto.ConvertQuotationRequest{PaymentType: entity.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, q.Total.String(), sale.Total.String(), "se respetan los precios cotizados")
	assert.Equal(t, 3, e.stock(t))

	got, err := e.uc.Get(ctx, admin, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusConverted, got.Status)
	assert.Equal(t, sale.ID, got.SaleID)

	_, err = e.uc.Convert(ctx, admin, q.ID, dto.ConvertQuotationRequest{PaymentType: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 3, e.stock(t))
}

func TestConvert_SinStockLaCotizacionSigueVigente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	q := e.quote(t, 2, 0)

	_, err := e.uc.Convert(ctx, admin, q.ID, dto.ConvertQuotationRequest{PaymentType: entity.PaymentCash})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := e.uc.Get(ctx, admin, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusValid, got.Status)
	assert.Empty(t, got.SaleID)
}

func TestConvert_Expirada(t *testing.T) {
	e := newEnv(t)
	q := e.quote(t, 1, 1)
	e.clock = e.clock.AddDate(0, 0, 2)

	_, err := e.uc.Convert(context.Background(), admin, q.ID, dto.ConvertQuotationRequest{PaymentType: entity.PaymentCash})
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.QuotationStatusExpired, stateErr.State)

	_, err = e.uc.Convert(context.Background(), admin, "nope", dto.ConvertQuotationRequest{PaymentType: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
