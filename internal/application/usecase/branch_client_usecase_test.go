package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
)

func TestBranch_CrearYConsultar(t *testing.T) {
	uc := usecase.NewBranchUseCase(memory.New().Repos().Branches)
	ctx := context.Background()

	b, err := uc.Create(ctx, dto.CreateBranchRequest{Name: " Centro ", Address: "Cra 7 # 12-30"})
	require.NoError(t, err)
	assert.Equal(t, "Centro", b.Name)
	assert.True(t, b.Active)

	got, err := uc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Create(ctx, dto.CreateBranchRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_CreaConSaldoCero(t *testing.T) {
	uc := usecase.NewClientUseCase(memory.New().Repos().Clients)
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Gimnasio Titán", Document: "900123", CreditLimit: dec("500000")})
	require.NoError(t, err)
	assert.True(t, c.CurrentBalance.IsZero())
	assert.Equal(t, "500000", c.AvailableCredit.String())

	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: "x", CreditLimit: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_UpdateRespetaElSaldo(t *testing.T) {
	store := memory.New()
	repos := store.Repos()
	uc := usecase.NewClientUseCase(repos.Clients)
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Ana", CreditLimit: dec("1000")})
	require.NoError(t, err)
	require.NoError(t, repos.Clients.AddBalance(ctx, c.ID, dec("400")))

	lower := decimal.RequireFromString("300")
	_, err = uc.Update(ctx, c.ID, dto.UpdateClientRequest{CreditLimit: &lower})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el cupo no puede quedar bajo el saldo")

	limit := decimal.RequireFromString("400")
	updated, err := uc.Update(ctx, c.ID, dto.UpdateClientRequest{Name: strPtr("Ana María"), CreditLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, "400", updated.CurrentBalance.String())
	assert.True(t, updated.AvailableCredit.IsZero())

	_, err = uc.Update(ctx, "nope", dto.UpdateClientRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_ListBusca(t *testing.T) {
	uc := usecase.NewClientUseCase(memory.New().Repos().Clients)
	ctx := context.Background()
	for _, n := range []string{"Ana", "Andrés", "Beatriz"} {
		_, err := uc.Create(ctx, dto.CreateClientRequest{Name: n})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, "an", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
