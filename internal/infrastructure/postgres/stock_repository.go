package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el resumen de un producto en una sucursal; en cero si no hay fila.
func (r *StockRepo) Get(ctx context.Context, productID, branchID string) (*entity.BranchStock, error) {
	return r.get(ctx, `
		SELECT product_id, branch_id, current_stock, min_stock, max_stock, updated_at
		FROM branch_stock WHERE product_id = $1 AND branch_id = $2`, productID, branchID)
}

// GetForUpdate obtiene el resumen y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.BranchStock, error) {
	return r.get(ctx, `
		SELECT product_id, branch_id, current_stock, min_stock, max_stock, updated_at
		FROM branch_stock WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`, productID, branchID)
}

func (r *StockRepo) get(ctx context.Context, query, productID, branchID string) (*entity.BranchStock, error) {
	var s entity.BranchStock
	err := r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&s.ProductID, &s.BranchID, &s.CurrentStock, &s.MinStock, &s.MaxStock, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BranchStock{ProductID: productID, BranchID: branchID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Increment suma qty al resumen creando la fila si no existe.
func (r *StockRepo) Increment(ctx context.Context, productID, branchID string, qty int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO branch_stock (product_id, branch_id, current_stock, min_stock, max_stock, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET current_stock = branch_stock.current_stock + EXCLUDED.current_stock, updated_at = now()`,
		productID, branchID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	return nil
}

// Decrement resta qty solo si alcanza.
func (r *StockRepo) Decrement(ctx context.Context, productID, branchID string, qty int) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE branch_stock SET current_stock = current_stock - $3, updated_at = now()
		WHERE product_id = $1 AND branch_id = $2 AND current_stock >= $3`,
		productID, branchID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListLow resúmenes en o bajo el mínimo. branchID vacío = todas las sucursales.
func (r *StockRepo) ListLow(ctx context.Context, branchID string) ([]*entity.BranchStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, branch_id, current_stock, min_stock, max_stock, updated_at
		FROM branch_stock
		WHERE current_stock <= min_stock AND ($1 = '' OR branch_id::text = $1)
		ORDER BY branch_id, current_stock`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.BranchStock
	for rows.Next() {
		var s entity.BranchStock
		if err := rows.Scan(&s.ProductID, &s.BranchID, &s.CurrentStock, &s.MinStock, &s.MaxStock, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
