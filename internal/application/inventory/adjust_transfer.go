package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// AdjustStock retira unidades de un lote (merma, vencimiento, conteo físico).
// Los ajustes al alza se registran como reabastecimiento con AddLot.
func (s *LotStore) AdjustStock(ctx context.Context, principal entity.Principal, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	if in.LotID == "" {
		return nil, domain.Invalid("lot_id", "es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.Invalid("reason", "es obligatorio")
	}

	var mov *entity.StockMovement
	err := s.txRunner.Run(ctx, func(r repository.Repos) error {
		lot, err := r.Lots.GetByID(ctx, in.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.NotFound("lote", in.LotID)
		}
		if !principal.CanAccessBranch(lot.BranchID) {
			return domain.ErrForbidden
		}
		allocs, err := s.DepleteInTx(ctx, r, lot.ProductID, lot.BranchID, lot.ID, in.Quantity)
		if err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:        uuid.New().String(),
			Type:      entity.MovementTypeADJUSTMENT,
			ProductID: lot.ProductID,
			LotID:     lot.ID,
			BranchID:  lot.BranchID,
			Quantity:  -allocs[0].Quantity,
			UnitCost:  lot.UnitCost,
			Reason:    in.Reason,
			UserID:    principal.UserID,
			CreatedAt: s.now(),
		}
		return r.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewMovementResponse(mov), nil
}

// TransferStock traslada unidades entre sucursales: descuenta FIFO en el origen y crea en el destino
// lotes con el mismo número, vencimiento y costo de los lotes tomados.
func (s *LotStore) TransferStock(ctx context.Context, principal entity.Principal, in dto.TransferStockRequest) ([]*dto.LotResponse, error) {
	if in.ProductID == "" || in.FromBranchID == "" || in.ToBranchID == "" {
		return nil, domain.Invalid("product_id/from_branch_id/to_branch_id", "son obligatorios")
	}
	if in.FromBranchID == in.ToBranchID {
		return nil, domain.Invalid("to_branch_id", "debe ser distinta del origen")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if !principal.CanAccessBranch(in.FromBranchID) {
		return nil, domain.ErrForbidden
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "traslado entre sucursales"
	}

	var created []*entity.Lot
	err := s.txRunner.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto", in.ProductID)
		}
		for _, id := range []string{in.FromBranchID, in.ToBranchID} {
			b, err := r.Branches.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if b == nil {
				return domain.NotFound("sucursal", id)
			}
		}
		allocs, err := s.DepleteInTx(ctx, r, in.ProductID, in.FromBranchID, "", in.Quantity)
		if err != nil {
			return err
		}
		now := s.now()
		for _, a := range allocs {
			origin, err := r.Lots.GetByID(ctx, a.LotID)
			if err != nil {
				return err
			}
			if origin == nil {
				return domain.NotFound("lote", a.LotID)
			}
			if err := r.Movements.Create(ctx, &entity.StockMovement{
				ID:        uuid.New().String(),
				Type:      entity.MovementTypeTRANSFER,
				ProductID: in.ProductID,
				LotID:     a.LotID,
				BranchID:  in.FromBranchID,
				Quantity:  -a.Quantity,
				UnitCost:  a.UnitCost,
				Reason:    reason,
				UserID:    principal.UserID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			number, err := s.destinationLotNumber(ctx, r, in.ProductID, in.ToBranchID, origin.LotNumber)
			if err != nil {
				return err
			}
			lot, err := s.ReceiveInTx(ctx, r, LotEntry{
				ProductID:      in.ProductID,
				BranchID:       in.ToBranchID,
				LotNumber:      number,
				Quantity:       a.Quantity,
				UnitCost:       a.UnitCost,
				ExpirationDate: origin.ExpirationDate,
				Source:         entity.LotSourceTransfer,
				MovementType:   entity.MovementTypeTRANSFER,
				Reason:         reason,
				UserID:         principal.UserID,
			})
			if err != nil {
				return err
			}
			created = append(created, lot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]*dto.LotResponse, 0, len(created))
	for _, l := range created {
		out = append(out, dto.NewLotResponse(l, expirationStatus(l, now, s.horizon)))
	}
	return out, nil
}

// destinationLotNumber conserva el número del lote de origen; si ya existe en el destino agrega el sufijo -T<n>.
func (s *LotStore) destinationLotNumber(ctx context.Context, r repository.Repos, productID, branchID, number string) (string, error) {
	candidate := number
	for i := 1; ; i++ {
		existing, err := r.Lots.GetByNumber(ctx, productID, branchID, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-T%d", number, i)
	}
}
