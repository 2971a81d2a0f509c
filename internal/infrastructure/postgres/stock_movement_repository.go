package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos, solo inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, type, product_id, lot_id, branch_id, quantity, unit_cost, reason, sale_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Type, m.ProductID, nullString(m.LotID), m.BranchID, m.Quantity, m.UnitCost, m.Reason,
		nullString(m.SaleID), m.UserID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.BranchID != "" {
		add("branch_id = $%d", f.BranchID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.SaleID != "" {
		add("sale_id = $%d", f.SaleID)
	}
	query := `SELECT id, type, product_id, lot_id, branch_id, quantity, unit_cost, reason, sale_id, user_id, created_at
		FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limitOr(f.Limit, 100))
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m             entity.StockMovement
			lotID, saleID *string
		)
		if err := rows.Scan(&m.ID, &m.Type, &m.ProductID, &lotID, &m.BranchID, &m.Quantity, &m.UnitCost,
			&m.Reason, &saleID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.LotID = derefString(lotID)
		m.SaleID = derefString(saleID)
		list = append(list, &m)
	}
	return list, rows.Err()
}
