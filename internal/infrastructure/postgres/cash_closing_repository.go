package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.CashClosingRepository = (*CashClosingRepo)(nil)

const cashClosingColumns = `id, branch_id, opened_by, closed_by, opening_amount, cash_sales, card_sales, expected_cash,
	declared_cash, declared_card, difference, sales_count, status, notes, opened_at, closed_at`

// CashClosingRepo turnos de caja sobre PostgreSQL.
type CashClosingRepo struct {
	q Querier
}

// NewCashClosingRepository construye el adaptador de cierres de caja.
func NewCashClosingRepository(q Querier) *CashClosingRepo {
	return &CashClosingRepo{q: q}
}

// Create abre el turno. El índice parcial de turnos abiertos convierte una apertura doble en ErrConflict.
func (r *CashClosingRepo) Create(ctx context.Context, c *entity.CashClosing) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_closings (`+cashClosingColumns+`)
		VALUES ($1, $2, $3, NULL, $4, 0, 0, 0, 0, 0, 0, 0, $5, $6, $7, NULL)`,
		c.ID, c.BranchID, c.OpenedBy, c.OpeningAmount, c.Status, c.Notes, c.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("caja abierta en sucursal %s: %w", c.BranchID, domain.ErrConflict)
		}
		return fmt.Errorf("insert cash closing: %w", err)
	}
	return nil
}

func (r *CashClosingRepo) GetByID(ctx context.Context, id string) (*entity.CashClosing, error) {
	return r.get(ctx, `SELECT `+cashClosingColumns+` FROM cash_closings WHERE id = $1`, id)
}

func (r *CashClosingRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashClosing, error) {
	return r.get(ctx, `SELECT `+cashClosingColumns+` FROM cash_closings WHERE id = $1 FOR UPDATE`, id)
}

func (r *CashClosingRepo) GetOpenByBranch(ctx context.Context, branchID string) (*entity.CashClosing, error) {
	return r.get(ctx, `SELECT `+cashClosingColumns+` FROM cash_closings WHERE branch_id = $1 AND status = 'abierto'`, branchID)
}

func (r *CashClosingRepo) get(ctx context.Context, query, arg string) (*entity.CashClosing, error) {
	var (
		c        entity.CashClosing
		closedBy *string
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.BranchID, &c.OpenedBy, &closedBy, &c.OpeningAmount,
		&c.CashSales, &c.CardSales, &c.ExpectedCash, &c.DeclaredCash, &c.DeclaredCard, &c.Difference,
		&c.SalesCount, &c.Status, &c.Notes, &c.OpenedAt, &c.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash closing: %w", err)
	}
	c.ClosedBy = derefString(closedBy)
	return &c, nil
}

func (r *CashClosingRepo) Close(ctx context.Context, c *entity.CashClosing) error {
	_, err := r.q.Exec(ctx, `
		UPDATE cash_closings SET closed_by = $2, cash_sales = $3, card_sales = $4, expected_cash = $5,
			declared_cash = $6, declared_card = $7, difference = $8, sales_count = $9, status = $10,
			notes = $11, closed_at = $12
		WHERE id = $1`,
		c.ID, c.ClosedBy, c.CashSales, c.CardSales, c.ExpectedCash, c.DeclaredCash, c.DeclaredCard,
		c.Difference, c.SalesCount, c.Status, c.Notes, c.ClosedAt)
	if err != nil {
		return fmt.Errorf("close cash closing: %w", err)
	}
	return nil
}
