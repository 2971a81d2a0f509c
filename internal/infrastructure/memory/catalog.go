package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	st, done := r.v.enter()
	defer done()
	if p.Barcode != "" {
		for _, existing := range st.products {
			if existing.Barcode == p.Barcode {
				return fmt.Errorf("código de barras %s: %w", p.Barcode, domain.ErrConflict)
			}
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	st, done := r.v.enter()
	defer done()
	p, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	st, done := r.v.enter()
	defer done()
	for _, p := range st.products {
		if barcode != "" && p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	st, done := r.v.enter()
	defer done()
	if _, ok := st.products[p.ID]; !ok {
		return nil
	}
	if p.Barcode != "" {
		for id, existing := range st.products {
			if id != p.ID && existing.Barcode == p.Barcode {
				return fmt.Errorf("código de barras %s: %w", p.Barcode, domain.ErrConflict)
			}
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	st, done := r.v.enter()
	defer done()
	search := strings.ToLower(f.Search)
	var list []*entity.Product
	for _, p := range st.products {
		if f.OnlyActive && !p.Active {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Barcode), search) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, f.Limit, f.Offset, 20), nil
}

type branchRepo struct{ v *view }

func (r *branchRepo) Create(_ context.Context, b *entity.Branch) error {
	st, done := r.v.enter()
	defer done()
	st.branches[b.ID] = *b
	return nil
}

func (r *branchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	st, done := r.v.enter()
	defer done()
	b, ok := st.branches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *branchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	st, done := r.v.enter()
	defer done()
	list := make([]*entity.Branch, 0, len(st.branches))
	for _, b := range st.branches {
		b := b
		list = append(list, &b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type clientRepo struct{ v *view }

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	st, done := r.v.enter()
	defer done()
	st.clients[c.ID] = *c
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	st, done := r.v.enter()
	defer done()
	c, ok := st.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.GetByID(ctx, id)
}

func (r *clientRepo) Update(_ context.Context, c *entity.Client) error {
	st, done := r.v.enter()
	defer done()
	current, ok := st.clients[c.ID]
	if !ok {
		return nil
	}
	balance := current.CurrentBalance
	current = *c
	current.CurrentBalance = balance
	st.clients[c.ID] = current
	return nil
}

func (r *clientRepo) AddBalance(_ context.Context, id string, delta decimal.Decimal) error {
	st, done := r.v.enter()
	defer done()
	c, ok := st.clients[id]
	if !ok {
		return domain.NotFound("cliente", id)
	}
	c.CurrentBalance = c.CurrentBalance.Add(delta)
	st.clients[id] = c
	return nil
}

func (r *clientRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Client, error) {
	st, done := r.v.enter()
	defer done()
	search = strings.ToLower(search)
	var list []*entity.Client
	for _, c := range st.clients {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Document), search) {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset, 20), nil
}
