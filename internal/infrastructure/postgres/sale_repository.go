package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, number, branch_id, seller_id, client_id, payment_type, subtotal, discount, tax, total,
	cash_received, change, status, notes, credit_id, cancelled_by, cancel_reason, cancelled_at, created_at`

// SaleRepo ventas sobre PostgreSQL: cabecera, líneas y lotes consumidos por línea.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextNumber toma el siguiente valor de la secuencia. Un rollback deja el número sin usar.
func (r *SaleRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('sale_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next sale number: %w", err)
	}
	return fmt.Sprintf("V-%08d", n), nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULL, NULL, NULL, $16)`,
		s.ID, s.Number, s.BranchID, s.SellerID, nullString(s.ClientID), s.PaymentType, s.Subtotal, s.Discount,
		s.Tax, s.Total, s.CashReceived, s.Change, s.Status, s.Notes, nullString(s.CreditID), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, position, product_id, product_name, lot_id, lot_number, quantity, unit_price, discount, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, s.ID, it.Position, it.ProductID, it.ProductName, nullString(it.LotID), it.LotNumber,
			it.Quantity, it.UnitPrice, it.Discount, it.Subtotal)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
		// ordinal conserva el orden FIFO en que se tomaron los lotes.
		for ordinal, a := range it.Allocations {
			_, err := r.q.Exec(ctx, `
				INSERT INTO sale_item_lots (sale_item_id, ordinal, lot_id, lot_number, quantity, unit_cost)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				it.ID, ordinal+1, a.LotID, a.LotNumber, a.Quantity, a.UnitCost)
			if err != nil {
				return fmt.Errorf("insert sale item lot: %w", err)
			}
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getWithItems(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getWithItems(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getWithItems(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, product_id, product_name, lot_id, lot_number, quantity, unit_price, discount, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	var items []entity.SaleItem
	index := map[string]int{}
	for rows.Next() {
		var (
			it    entity.SaleItem
			lotID *string
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Position, &it.ProductID, &it.ProductName, &lotID,
			&it.LotNumber, &it.Quantity, &it.UnitPrice, &it.Discount, &it.Subtotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.LotID = derefString(lotID)
		index[it.ID] = len(items)
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lotRows, err := r.q.Query(ctx, `
		SELECT sil.sale_item_id, sil.lot_id, sil.lot_number, sil.quantity, sil.unit_cost
		FROM sale_item_lots sil JOIN sale_items si ON si.id = sil.sale_item_id
		WHERE si.sale_id = $1 ORDER BY si.position, sil.ordinal`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale item lots: %w", err)
	}
	defer lotRows.Close()
	for lotRows.Next() {
		var (
			itemID string
			a      entity.LotAllocation
		)
		if err := lotRows.Scan(&itemID, &a.LotID, &a.LotNumber, &a.Quantity, &a.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale item lot: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Allocations = append(items[i].Allocations, a)
		}
	}
	return items, lotRows.Err()
}

// MarkCancelled pasa la venta a cancelada. Solo afecta ventas completadas.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id, userID, reason string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, cancelled_by = $3, cancel_reason = $4, cancelled_at = $5
		WHERE id = $1 AND status = $6`,
		id, entity.SaleStatusCancelled, userID, reason, at, entity.SaleStatusCompleted)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, error) {
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
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limitOr(f.Limit, 20), f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// TotalsByPayment suma ventas completadas en [from, to). En pago mixto la porción en efectivo es
// cash_received (tope el total) y el resto va a tarjeta.
func (r *SaleRepo) TotalsByPayment(ctx context.Context, branchID string, from, to time.Time) (repository.PaymentTotals, error) {
	var t repository.PaymentTotals
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE payment_type
				WHEN 'efectivo' THEN total
				WHEN 'mixto' THEN LEAST(cash_received, total)
				ELSE 0 END), 0),
			COALESCE(SUM(CASE payment_type
				WHEN 'tarjeta' THEN total
				WHEN 'mixto' THEN total - LEAST(cash_received, total)
				ELSE 0 END), 0),
			COUNT(*)
		FROM sales
		WHERE branch_id = $1 AND status = $2 AND created_at >= $3 AND created_at < $4`,
		branchID, entity.SaleStatusCompleted, from, to).Scan(&t.Cash, &t.Card, &t.Count)
	if err != nil {
		return t, fmt.Errorf("sale totals: %w", err)
	}
	return t, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var clientID, creditID, cancelledBy, why *string
	err := row.Scan(&s.ID, &s.Number, &s.BranchID, &s.SellerID, &clientID, &s.PaymentType, &s.Subtotal,
		&s.Discount, &s.Tax, &s.Total, &s.CashReceived, &s.Change, &s.Status, &s.Notes, &creditID,
		&cancelledBy, &why, &s.CancelledAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.ClientID = derefString(clientID)
	s.CreditID = derefString(creditID)
	s.CancelledBy = derefString(cancelledBy)
	s.CancelReason = derefString(why)
	return &s, nil
}
