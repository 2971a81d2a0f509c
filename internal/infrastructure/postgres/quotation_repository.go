package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

const quotationColumns = `id, branch_id, seller_id, client_id, subtotal, discount, tax, total, valid_until, status, sale_id, notes, created_at`

// QuotationRepo cotizaciones sobre PostgreSQL.
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador de cotizaciones.
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

func (r *QuotationRepo) Create(ctx context.Context, qt *entity.Quotation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quotations (`+quotationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, $11, $12)`,
		qt.ID, qt.BranchID, qt.SellerID, nullString(qt.ClientID), qt.Subtotal, qt.Discount, qt.Tax, qt.Total,
		qt.ValidUntil, qt.Status, qt.Notes, qt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}
	for _, it := range qt.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO quotation_items (id, quotation_id, position, product_id, product_name, quantity, unit_price, discount, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, qt.ID, it.Position, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Discount, it.Subtotal)
		if err != nil {
			return fmt.Errorf("insert quotation item: %w", err)
		}
	}
	return nil
}

func (r *QuotationRepo) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.get(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
}

func (r *QuotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.get(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1 FOR UPDATE`, id)
}

func (r *QuotationRepo) get(ctx context.Context, query, id string) (*entity.Quotation, error) {
	var (
		qt               entity.Quotation
		clientID, saleID *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&qt.ID, &qt.BranchID, &qt.SellerID, &clientID, &qt.Subtotal,
		&qt.Discount, &qt.Tax, &qt.Total, &qt.ValidUntil, &qt.Status, &saleID, &qt.Notes, &qt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	qt.ClientID = derefString(clientID)
	qt.SaleID = derefString(saleID)

	rows, err := r.q.Query(ctx, `
		SELECT id, quotation_id, position, product_id, product_name, quantity, unit_price, discount, subtotal
		FROM quotation_items WHERE quotation_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.Position, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Discount, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		qt.Items = append(qt.Items, it)
	}
	return &qt, rows.Err()
}

func (r *QuotationRepo) MarkConverted(ctx context.Context, id, saleID string) error {
	_, err := r.q.Exec(ctx, `UPDATE quotations SET status = $2, sale_id = $3 WHERE id = $1`,
		id, entity.QuotationStatusConverted, saleID)
	if err != nil {
		return fmt.Errorf("convert quotation: %w", err)
	}
	return nil
}
