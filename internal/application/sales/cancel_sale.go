package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	dominv "github.com/jhoicas/suplementos-api/internal/domain/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CancelSale revierte una venta completada: por cada línea crea un lote de devolución sin vencimiento
// con la cantidad exacta, registra el movimiento de devolución y marca la venta como cancelada.
// Cancelar una venta ya cancelada devuelve InvalidStateError.
func (uc *SaleUseCase) CancelSale(ctx context.Context, principal entity.Principal, saleID string, in dto.CancelSaleRequest) (*dto.SaleResponse, error) {
	ctx, span := uc.inst.tracer.Start(ctx, "sales.CancelSale")
	defer span.End()
	span.SetAttributes(attribute.String("sale.id", saleID))

	if saleID == "" {
		return nil, domain.Invalid("id", "es obligatorio")
	}
	if principal.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	reason := strings.TrimSpace(in.Reason)

	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		s, err := uc.cancelInTx(ctx, r, principal, saleID, reason)
		if err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errorReason(err))
		uc.log.Warn().Err(err).Str("sale_id", saleID).Msg("cancelación rechazada")
		return nil, err
	}

	uc.inst.cancelled.Add(ctx, 1)
	uc.log.Info().Str("sale_id", sale.ID).Str("number", sale.Number).Str("user_id", principal.UserID).Msg("venta cancelada")
	return dto.NewSaleResponse(sale), nil
}

func (uc *SaleUseCase) cancelInTx(ctx context.Context, r repository.Repos, principal entity.Principal, saleID, reason string) (*entity.Sale, error) {
	sale, err := r.Sales.GetForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", saleID)
	}
	if !principal.CanAccessBranch(sale.BranchID) {
		return nil, domain.ErrForbidden
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, &domain.InvalidStateError{Entity: "venta", State: sale.Status}
	}

	productIDs := make([]string, 0, len(sale.Items))
	for _, it := range sale.Items {
		productIDs = append(productIDs, it.ProductID)
	}
	if err := uc.lots.LockStock(ctx, r, sale.BranchID, productIDs); err != nil {
		return nil, err
	}

	movReason := entity.MovementReasonCancel
	if reason != "" {
		movReason += ": " + reason
	}
	for _, it := range sale.Items {
		product, err := r.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		fallback := it.UnitPrice
		if product != nil && product.CostPrice.IsPositive() {
			fallback = product.CostPrice
		}
		if _, err := uc.lots.ReceiveInTx(ctx, r, inventory.LotEntry{
			ProductID:    it.ProductID,
			BranchID:     sale.BranchID,
			LotNumber:    fmt.Sprintf("DEVOLUCION-%s-%d", sale.Number, it.Position),
			Quantity:     it.Quantity,
			UnitCost:     dominv.AverageAllocationCost(it.Allocations, fallback),
			Source:       entity.LotSourceReturn,
			MovementType: entity.MovementTypeRETURN,
			Reason:       movReason,
			SaleID:       sale.ID,
			UserID:       principal.UserID,
		}); err != nil {
			return nil, err
		}
	}

	// TODO: revertir el crédito asociado (saldo del cliente y estado del crédito) cuando negocio
	// defina si una venta a crédito cancelada anula la deuda o genera nota crédito.
	now := uc.cfg.Now()
	if err := r.Sales.MarkCancelled(ctx, sale.ID, principal.UserID, reason, now); err != nil {
		return nil, err
	}
	sale.Status = entity.SaleStatusCancelled
	sale.CancelledBy = principal.UserID
	sale.CancelReason = reason
	sale.CancelledAt = &now
	return sale, nil
}
