package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.CreditRepository = (*CreditRepo)(nil)

const creditColumns = `id, sale_id, client_id, amount_total, amount_paid, remaining_balance, due_date, status, created_at, updated_at`

// CreditRepo créditos y abonos sobre PostgreSQL.
type CreditRepo struct {
	q Querier
}

// NewCreditRepository construye el adaptador de créditos.
func NewCreditRepository(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

func (r *CreditRepo) Create(ctx context.Context, c *entity.Credit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.SaleID, c.ClientID, c.AmountTotal, c.AmountPaid, c.RemainingBalance, c.DueDate, c.Status,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert credit: %w", err)
	}
	return nil
}

func (r *CreditRepo) GetByID(ctx context.Context, id string) (*entity.Credit, error) {
	return r.getOne(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = $1`, id)
}

func (r *CreditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Credit, error) {
	return r.getOne(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = $1 FOR UPDATE`, id)
}

func (r *CreditRepo) getOne(ctx context.Context, query, id string) (*entity.Credit, error) {
	c, err := scanCredit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit: %w", err)
	}
	return c, nil
}

func (r *CreditRepo) UpdateBalance(ctx context.Context, c *entity.Credit) error {
	_, err := r.q.Exec(ctx, `
		UPDATE credits SET amount_paid = $2, remaining_balance = $3, status = $4, updated_at = $5
		WHERE id = $1`, c.ID, c.AmountPaid, c.RemainingBalance, c.Status, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	return nil
}

func (r *CreditRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Credit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+creditColumns+` FROM credits WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CreditRepo) CreatePayment(ctx context.Context, p *entity.CreditPayment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO credit_payments (id, credit_id, amount, method, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, p.ID, p.CreditID, p.Amount, p.Method, p.UserID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert credit payment: %w", err)
	}
	return nil
}

func (r *CreditRepo) ListPayments(ctx context.Context, creditID string) ([]entity.CreditPayment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, credit_id, amount, method, user_id, created_at
		FROM credit_payments WHERE credit_id = $1 ORDER BY created_at`, creditID)
	if err != nil {
		return nil, fmt.Errorf("list credit payments: %w", err)
	}
	defer rows.Close()
	var list []entity.CreditPayment
	for rows.Next() {
		var p entity.CreditPayment
		if err := rows.Scan(&p.ID, &p.CreditID, &p.Amount, &p.Method, &p.UserID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credit payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanCredit(row pgx.Row) (*entity.Credit, error) {
	var c entity.Credit
	err := row.Scan(&c.ID, &c.SaleID, &c.ClientID, &c.AmountTotal, &c.AmountPaid, &c.RemainingBalance,
		&c.DueDate, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
