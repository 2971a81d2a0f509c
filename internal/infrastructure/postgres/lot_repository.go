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

var _ repository.LotRepository = (*LotRepo)(nil)

const (
	lotColumns = `id, product_id, branch_id, lot_number, expiration_date, initial_quantity, current_quantity,
	unit_cost, source, received_at, created_at`
	fifoOrder = `ORDER BY expiration_date ASC NULLS LAST, received_at ASC, id ASC`
)

// LotRepo lotes sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create inserta el lote. Un número repetido para el mismo producto y sucursal devuelve ErrConflict.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lots (`+lotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.ProductID, l.BranchID, l.LotNumber, dateOnly(l.ExpirationDate), l.InitialQuantity,
		l.CurrentQuantity, l.UnitCost, l.Source, l.ReceivedAt, l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %s: %w", l.LotNumber, domain.ErrConflict)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
}

func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1 FOR UPDATE`, id)
}

func (r *LotRepo) GetByNumber(ctx context.Context, productID, branchID, lotNumber string) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lots WHERE product_id = $1 AND branch_id = $2 AND lot_number = $3`,
		productID, branchID, lotNumber)
}

func (r *LotRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// ListAvailableForUpdate bloquea los lotes con existencia en orden FIFO.
func (r *LotRepo) ListAvailableForUpdate(ctx context.Context, productID, branchID string) ([]*entity.Lot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM lots
		WHERE product_id = $1 AND branch_id = $2 AND current_quantity > 0 `+fifoOrder+` FOR UPDATE`,
		productID, branchID)
}

func (r *LotRepo) List(ctx context.Context, productID, branchID string, onlyWithStock bool) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE product_id = $1 AND branch_id = $2`
	if onlyWithStock {
		query += ` AND current_quantity > 0`
	}
	return r.list(ctx, query+" "+fifoOrder, productID, branchID)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var lots []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

// Decrement resta de forma condicional; 0 filas afectadas significa que otro escritor consumió el lote.
func (r *LotRepo) Decrement(ctx context.Context, lotID string, qty int) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE lots SET current_quantity = current_quantity - $2
		WHERE id = $1 AND current_quantity >= $2`, lotID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement lot: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.ProductID, &l.BranchID, &l.LotNumber, &l.ExpirationDate, &l.InitialQuantity,
		&l.CurrentQuantity, &l.UnitCost, &l.Source, &l.ReceivedAt, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
