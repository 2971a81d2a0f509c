package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type saleRepo struct{ v *view }

// NextNumber usa un contador fuera del estado transaccional, como una secuencia: el rollback no lo devuelve.
func (r *saleRepo) NextNumber(_ context.Context) (string, error) {
	return fmt.Sprintf("V-%08d", r.v.seq.Add(1)), nil
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	st, done := r.v.enter()
	defer done()
	if _, ok := st.sales[s.ID]; ok {
		return fmt.Errorf("venta %s: %w", s.ID, domain.ErrConflict)
	}
	st.sales[s.ID] = cloneSale(*s)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	st, done := r.v.enter()
	defer done()
	s, ok := st.sales[id]
	if !ok {
		return nil, nil
	}
	s = cloneSale(s)
	return &s, nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) MarkCancelled(_ context.Context, id, userID, reason string, at time.Time) error {
	st, done := r.v.enter()
	defer done()
	s, ok := st.sales[id]
	if !ok || s.Status != entity.SaleStatusCompleted {
		return nil
	}
	s.Status = entity.SaleStatusCancelled
	s.CancelledBy = userID
	s.CancelReason = reason
	s.CancelledAt = &at
	st.sales[id] = s
	return nil
}

func (r *saleRepo) List(_ context.Context, f entity.SaleFilter) ([]*entity.Sale, error) {
	st, done := r.v.enter()
	defer done()
	var list []*entity.Sale
	for _, s := range st.sales {
		if f.BranchID != "" && s.BranchID != f.BranchID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.CreatedAt.Before(*f.To) {
			continue
		}
		s = cloneSale(s)
		s.Items = nil
		list = append(list, &s)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Number > list[j].Number
	})
	return page(list, f.Limit, f.Offset, 20), nil
}

func (r *saleRepo) TotalsByPayment(_ context.Context, branchID string, from, to time.Time) (repository.PaymentTotals, error) {
	st, done := r.v.enter()
	defer done()
	t := repository.PaymentTotals{Cash: decimal.Zero, Card: decimal.Zero}
	for _, s := range st.sales {
		if s.BranchID != branchID || s.Status != entity.SaleStatusCompleted {
			continue
		}
		if s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		t.Count++
		switch s.PaymentType {
		case entity.PaymentCash:
			t.Cash = t.Cash.Add(s.Total)
		case entity.PaymentCard:
			t.Card = t.Card.Add(s.Total)
		case entity.PaymentMixed:
			cash := decimal.Min(s.CashReceived, s.Total)
			t.Cash = t.Cash.Add(cash)
			t.Card = t.Card.Add(s.Total.Sub(cash))
		}
	}
	return t, nil
}

type creditRepo struct{ v *view }

func (r *creditRepo) Create(_ context.Context, c *entity.Credit) error {
	st, done := r.v.enter()
	defer done()
	credit := *c
	credit.Payments = nil
	st.credits[c.ID] = credit
	return nil
}

func (r *creditRepo) GetByID(_ context.Context, id string) (*entity.Credit, error) {
	st, done := r.v.enter()
	defer done()
	c, ok := st.credits[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *creditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Credit, error) {
	return r.GetByID(ctx, id)
}

func (r *creditRepo) UpdateBalance(_ context.Context, c *entity.Credit) error {
	st, done := r.v.enter()
	defer done()
	current, ok := st.credits[c.ID]
	if !ok {
		return nil
	}
	current.AmountPaid = c.AmountPaid
	current.RemainingBalance = c.RemainingBalance
	current.Status = c.Status
	current.UpdatedAt = c.UpdatedAt
	st.credits[c.ID] = current
	return nil
}

func (r *creditRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Credit, error) {
	st, done := r.v.enter()
	defer done()
	var list []*entity.Credit
	for _, c := range st.credits {
		if c.ClientID != clientID {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *creditRepo) CreatePayment(_ context.Context, p *entity.CreditPayment) error {
	st, done := r.v.enter()
	defer done()
	st.payments[p.CreditID] = append(st.payments[p.CreditID], *p)
	return nil
}

func (r *creditRepo) ListPayments(_ context.Context, creditID string) ([]entity.CreditPayment, error) {
	st, done := r.v.enter()
	defer done()
	return append([]entity.CreditPayment(nil), st.payments[creditID]...), nil
}

type quotationRepo struct{ v *view }

func (r *quotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	st, done := r.v.enter()
	defer done()
	st.quotations[q.ID] = cloneQuotation(*q)
	return nil
}

func (r *quotationRepo) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	st, done := r.v.enter()
	defer done()
	q, ok := st.quotations[id]
	if !ok {
		return nil, nil
	}
	q = cloneQuotation(q)
	return &q, nil
}

func (r *quotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.GetByID(ctx, id)
}

func (r *quotationRepo) MarkConverted(_ context.Context, id, saleID string) error {
	st, done := r.v.enter()
	defer done()
	q, ok := st.quotations[id]
	if !ok {
		return domain.NotFound("cotización", id)
	}
	q.Status = entity.QuotationStatusConverted
	q.SaleID = saleID
	st.quotations[id] = q
	return nil
}

type cashClosingRepo struct{ v *view }

func (r *cashClosingRepo) Create(_ context.Context, c *entity.CashClosing) error {
	st, done := r.v.enter()
	defer done()
	for _, existing := range st.closings {
		if existing.BranchID == c.BranchID && existing.Status == entity.CashClosingOpen {
			return fmt.Errorf("caja abierta en sucursal %s: %w", c.BranchID, domain.ErrConflict)
		}
	}
	st.closings[c.ID] = cloneClosing(*c)
	return nil
}

func (r *cashClosingRepo) GetByID(_ context.Context, id string) (*entity.CashClosing, error) {
	st, done := r.v.enter()
	defer done()
	c, ok := st.closings[id]
	if !ok {
		return nil, nil
	}
	c = cloneClosing(c)
	return &c, nil
}

func (r *cashClosingRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashClosing, error) {
	return r.GetByID(ctx, id)
}

func (r *cashClosingRepo) GetOpenByBranch(_ context.Context, branchID string) (*entity.CashClosing, error) {
	st, done := r.v.enter()
	defer done()
	for _, c := range st.closings {
		if c.BranchID == branchID && c.Status == entity.CashClosingOpen {
			c = cloneClosing(c)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *cashClosingRepo) Close(_ context.Context, c *entity.CashClosing) error {
	st, done := r.v.enter()
	defer done()
	if _, ok := st.closings[c.ID]; !ok {
		return domain.NotFound("caja", c.ID)
	}
	st.closings[c.ID] = cloneClosing(*c)
	return nil
}
