package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func TestAdjustStock_RetiraDelLote(t *testing.T) {
	e := newEnv(t)
	branch, product := e.branch(t), e.product(t, true)
	lot := e.add(t, product, branch, "L-1", 10, "2025-01-05")

	mov, err := e.lots.AdjustStock(context.Background(), admin, dto.AdjustStockRequest{
		LotID: lot.ID, Quantity: 4, Reason: "vencido",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, mov.Type)
	assert.Equal(t, -4, mov.Quantity)
	assert.Equal(t, "vencido", mov.Reason)
	assert.Equal(t, 6, e.stock(t, product, branch))
	e.requireInSync(t, product, branch)
}

func TestAdjustStock_Errores(t *testing.T) {
	e := newEnv(t)
	branch, product := e.branch(t), e.product(t, true)
	lot := e.add(t, product, branch, "L-1", 3, "")
	ctx := context.Background()

	_, err := e.lots.AdjustStock(ctx, admin, dto.AdjustStockRequest{LotID: lot.ID, Quantity: 4, Reason: "conteo"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.lots.AdjustStock(ctx, admin, dto.AdjustStockRequest{LotID: lot.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo es obligatorio")

	_, err = e.lots.AdjustStock(ctx, admin, dto.AdjustStockRequest{LotID: "nope", Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	seller := entity.Principal{UserID: "s1", Role: entity.RoleVendedor, HomeBranchID: "otra"}
	_, err = e.lots.AdjustStock(ctx, seller, dto.AdjustStockRequest{LotID: lot.ID, Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, 3, e.stock(t, product, branch))
}

func TestTransferStock_ConservaLoteYVencimiento(t *testing.T) {
	e := newEnv(t)
	from, to := e.branch(t), e.branch(t)
	product := e.product(t, true)
	e.add(t, product, from, "A", 3, "2025-02-01")
	e.add(t, product, from, "B", 5, "2025-06-01")
	e.add(t, product, to, "A", 1, "2025-02-01")

	created, err := e.lots.TransferStock(context.Background(), admin, dto.TransferStockRequest{
		ProductID: product, FromBranchID: from, ToBranchID: to, Quantity: 4,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, "A-T1", created[0].LotNumber, "número existente en destino recibe sufijo")
	assert.Equal(t, 3, created[0].CurrentQuantity)
	assert.Equal(t, entity.LotSourceTransfer, created[0].Source)
	require.NotNil(t, created[0].ExpirationDate)
	assert.Equal(t, "2025-02-01", created[0].ExpirationDate.Format(dto.DateLayout))
	assert.Equal(t, "B", created[1].LotNumber)
	assert.Equal(t, 1, created[1].CurrentQuantity)

	assert.Equal(t, 4, e.stock(t, product, from))
	assert.Equal(t, 5, e.stock(t, product, to))
	e.requireInSync(t, product, from)
	e.requireInSync(t, product, to)
}

func TestTransferStock_Errores(t *testing.T) {
	e := newEnv(t)
	from, to := e.branch(t), e.branch(t)
	product := e.product(t, true)
	e.add(t, product, from, "A", 3, "")
	ctx := context.Background()

	_, err := e.lots.TransferStock(ctx, admin, dto.TransferStockRequest{ProductID: product, FromBranchID: from, ToBranchID: to, Quantity: 4})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.lots.TransferStock(ctx, admin, dto.TransferStockRequest{ProductID: product, FromBranchID: from, ToBranchID: from, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.lots.TransferStock(ctx, admin, dto.TransferStockRequest{ProductID: product, FromBranchID: from, ToBranchID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 3, e.stock(t, product, from))
	assert.Equal(t, 0, e.stock(t, product, to))
}
