package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Unidad de trabajo
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ConfirmaSoloSinError(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.Run(ctx, func(r repository.Repos) error {
		return r.Branches.Create(ctx, &entity.Branch{ID: "b1", Name: "Centro", Active: true})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Branches.Create(ctx, &entity.Branch{ID: "b2", Name: "Norte"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	repos := store.Repos()
	b1, err := repos.Branches.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.NotNil(t, b1)
	b2, err := repos.Branches.GetByID(ctx, "b2")
	require.NoError(t, err)
	assert.Nil(t, b2, "la transacción fallida no deja rastro")
}

func TestRun_PanicDescartaLaCopia(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.Run(ctx, func(r repository.Repos) error {
			_ = r.Branches.Create(ctx, &entity.Branch{ID: "b1"})
			panic("fallo inesperado")
		})
	})

	b, err := store.Repos().Branches.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, b)

	// el mutex quedó libre
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error { return nil }))
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.New().Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestRepos_DevuelvenCopias(t *testing.T) {
	store := memory.New()
	repos := store.Repos()
	ctx := context.Background()

	p := &entity.Product{ID: "p1", Name: "Whey", Barcode: "770", SalePrice: decimal.NewFromInt(10)}
	require.NoError(t, repos.Products.Create(ctx, p))
	p.Name = "modificado fuera"

	got, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Whey", got.Name)
	got.Name = "otra vez"

	again, err := repos.Products.GetByBarcode(ctx, "770")
	require.NoError(t, err)
	assert.Equal(t, "Whey", again.Name)
}

func TestProducts_CodigoDeBarrasUnico(t *testing.T) {
	repos := memory.New().Repos()
	ctx := context.Background()

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Barcode: "770"}))
	err := repos.Products.Create(ctx, &entity.Product{ID: "p2", Barcode: "770"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p3"}), "sin código no hay conflicto")
	assert.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p4"}))
}

func TestSales_NumeracionConsecutiva(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	var first, second string
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		var err error
		first, err = r.Sales.NextNumber(ctx)
		return err
	}))
	_ = store.Run(ctx, func(r repository.Repos) error {
		_, _ = r.Sales.NextNumber(ctx)
		return errors.New("rollback")
	})
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		var err error
		second, err = r.Sales.NextNumber(ctx)
		return err
	}))

	assert.Equal(t, "V-00000001", first)
	assert.Equal(t, "V-00000003", second, "los números consumidos en un rollback no se reutilizan")
}

func TestStock_FilaAusenteEsCero(t *testing.T) {
	repos := memory.New().Repos()
	st, err := repos.Stock.Get(context.Background(), "p1", "b1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 0, st.CurrentStock)
}
