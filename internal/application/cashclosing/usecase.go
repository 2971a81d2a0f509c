package cashclosing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// UseCase apertura y cierre de caja por sucursal con arqueo contra las ventas del turno.
type UseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, repos repository.Repos, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{txRunner: txRunner, repos: repos, now: now}
}

// Open abre un turno. Solo puede haber un turno abierto por sucursal.
func (uc *UseCase) Open(ctx context.Context, principal entity.Principal, in dto.OpenCashRequest) (*dto.CashClosingResponse, error) {
	if in.BranchID == "" {
		return nil, domain.Invalid("branch_id", "es obligatorio")
	}
	if in.OpeningAmount.IsNegative() {
		return nil, domain.Invalid("opening_amount", "no puede ser negativo")
	}
	if !principal.CanAccessBranch(in.BranchID) {
		return nil, domain.ErrForbidden
	}
	var closing *entity.CashClosing
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		branch, err := r.Branches.GetByID(ctx, in.BranchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return domain.NotFound("sucursal", in.BranchID)
		}
		open, err := r.CashClosings.GetOpenByBranch(ctx, in.BranchID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrConflict
		}
		closing = &entity.CashClosing{
			ID:            uuid.New().String(),
			BranchID:      in.BranchID,
			OpenedBy:      principal.UserID,
			OpeningAmount: in.OpeningAmount.Round(2),
			Status:        entity.CashClosingOpen,
			OpenedAt:      uc.now(),
		}
		return r.CashClosings.Create(ctx, closing)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCashClosingResponse(closing), nil
}

// Close cierra el turno: efectivo esperado = apertura + ventas en efectivo completadas desde la apertura;
// diferencia = efectivo declarado - esperado.
func (uc *UseCase) Close(ctx context.Context, principal entity.Principal, id string, in dto.CloseCashRequest) (*dto.CashClosingResponse, error) {
	if in.DeclaredCash.IsNegative() || in.DeclaredCard.IsNegative() {
		return nil, domain.Invalid("declared_cash/declared_card", "no pueden ser negativos")
	}
	var closing *entity.CashClosing
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		c, err := r.CashClosings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("caja", id)
		}
		if !principal.CanAccessBranch(c.BranchID) {
			return domain.ErrForbidden
		}
		if c.Status != entity.CashClosingOpen {
			return &domain.InvalidStateError{Entity: "caja", State: c.Status}
		}
		now := uc.now()
		totals, err := r.Sales.TotalsByPayment(ctx, c.BranchID, c.OpenedAt, now)
		if err != nil {
			return err
		}
		c.CashSales = totals.Cash
		c.CardSales = totals.Card
		c.SalesCount = totals.Count
		c.ExpectedCash = c.OpeningAmount.Add(totals.Cash)
		c.DeclaredCash = in.DeclaredCash.Round(2)
		c.DeclaredCard = in.DeclaredCard.Round(2)
		c.Difference = c.DeclaredCash.Sub(c.ExpectedCash)
		c.ClosedBy = principal.UserID
		c.ClosedAt = &now
		c.Status = entity.CashClosingClosed
		c.Notes = in.Notes
		if err := r.CashClosings.Close(ctx, c); err != nil {
			return err
		}
		closing = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCashClosingResponse(closing), nil
}

// Get obtiene un turno de caja.
func (uc *UseCase) Get(ctx context.Context, principal entity.Principal, id string) (*dto.CashClosingResponse, error) {
	c, err := uc.repos.CashClosings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("caja", id)
	}
	if !principal.CanAccessBranch(c.BranchID) {
		return nil, domain.ErrForbidden
	}
	return dto.NewCashClosingResponse(c), nil
}
