package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
	"github.com/jhoicas/suplementos-api/pkg/logger"
)

var (
	testNow = time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)
	admin   = entity.Principal{UserID: "admin-1", Role: entity.RoleAdmin}
)

type fixture struct {
	store *memory.Store
	repos repository.Repos
	lots  *inventory.LotStore
	sales *sales.SaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	clock := func() time.Time { return testNow }
	lots := inventory.NewLotStore(store, repos, inventory.Config{Now: clock})
	return &fixture{
		store: store,
		repos: repos,
		lots:  lots,
		sales: sales.NewSaleUseCase(store, repos, lots, logger.Nop(), sales.Config{
			CreditDueDays: 30,
			TaxRate:       decimal.Zero,
			Now:           clock,
		}),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seller(branchID string) entity.Principal {
	return entity.Principal{UserID: "seller-1", Role: entity.RoleVendedor, HomeBranchID: branchID}
}

func (f *fixture) branch(t *testing.T, name string) string {
	t.Helper()
	b := &entity.Branch{ID: uuid.NewString(), Name: name, Active: true, CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, f.repos.Branches.Create(context.Background(), b))
	return b.ID
}

func (f *fixture) product(t *testing.T, name, price string) string {
	t.Helper()
	p := &entity.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Barcode:     "770" + uuid.NewString()[:8],
		CostPrice:   dec(price).Div(decimal.NewFromInt(2)),
		SalePrice:   dec(price),
		RequiresLot: true,
		Active:      true,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) client(t *testing.T, limit, balance string) string {
	t.Helper()
	c := &entity.Client{
		ID:             uuid.NewString(),
		Name:           "Cliente " + limit,
		CreditLimit:    dec(limit),
		CurrentBalance: dec(balance),
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
	require.NoError(t, f.repos.Clients.Create(context.Background(), c))
	return c.ID
}

// addLot expiration vacío = sin vencimiento.
func (f *fixture) addLot(t *testing.T, productID, branchID, number string, qty int, expiration string) string {
	t.Helper()
	lot, err := f.lots.AddLot(context.Background(), admin, dto.AddLotRequest{
		ProductID:      productID,
		BranchID:       branchID,
		LotNumber:      number,
		Quantity:       qty,
		UnitCost:       dec("10000"),
		ExpirationDate: expiration,
	})
	require.NoError(t, err)
	return lot.ID
}

func (f *fixture) stock(t *testing.T, productID, branchID string) int {
	t.Helper()
	st, err := f.repos.Stock.Get(context.Background(), productID, branchID)
	require.NoError(t, err)
	return st.CurrentStock
}

func (f *fixture) lotQty(t *testing.T, lotID string) int {
	t.Helper()
	l, err := f.repos.Lots.GetByID(context.Background(), lotID)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l.CurrentQuantity
}

func (f *fixture) balance(t *testing.T, clientID string) decimal.Decimal {
	t.Helper()
	c, err := f.repos.Clients.GetByID(context.Background(), clientID)
	require.NoError(t, err)
	return c.CurrentBalance
}

// requireSummaryMatchesLots el resumen por sucursal es igual a la suma de los lotes.
func (f *fixture) requireSummaryMatchesLots(t *testing.T, productID, branchID string) {
	t.Helper()
	lots, err := f.repos.Lots.List(context.Background(), productID, branchID, false)
	require.NoError(t, err)
	sum := 0
	for _, l := range lots {
		require.GreaterOrEqual(t, l.CurrentQuantity, 0)
		require.LessOrEqual(t, l.CurrentQuantity, l.InitialQuantity)
		sum += l.CurrentQuantity
	}
	require.Equal(t, sum, f.stock(t, productID, branchID), "resumen de stock desincronizado de los lotes")
}

func (f *fixture) movements(t *testing.T, filter entity.MovementFilter) []*dto.MovementResponse {
	t.Helper()
	out, err := f.lots.ListMovements(context.Background(), filter)
	require.NoError(t, err)
	return out
}

func line(productID string, qty int, price string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: qty, UnitPrice: dec(price)}
}
