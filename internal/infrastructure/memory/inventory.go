package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/inventory"
)

type lotRepo struct{ v *view }

func (r *lotRepo) Create(_ context.Context, l *entity.Lot) error {
	st, done := r.v.enter()
	defer done()
	for _, existing := range st.lots {
		if existing.ProductID == l.ProductID && existing.BranchID == l.BranchID && existing.LotNumber == l.LotNumber {
			return fmt.Errorf("lote %s: %w", l.LotNumber, domain.ErrConflict)
		}
	}
	st.lots[l.ID] = cloneLot(*l)
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	st, done := r.v.enter()
	defer done()
	l, ok := st.lots[id]
	if !ok {
		return nil, nil
	}
	l = cloneLot(l)
	return &l, nil
}

func (r *lotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

func (r *lotRepo) GetByNumber(_ context.Context, productID, branchID, lotNumber string) (*entity.Lot, error) {
	st, done := r.v.enter()
	defer done()
	for _, l := range st.lots {
		if l.ProductID == productID && l.BranchID == branchID && l.LotNumber == lotNumber {
			l = cloneLot(l)
			return &l, nil
		}
	}
	return nil, nil
}

func (r *lotRepo) ListAvailableForUpdate(ctx context.Context, productID, branchID string) ([]*entity.Lot, error) {
	return r.List(ctx, productID, branchID, true)
}

func (r *lotRepo) List(_ context.Context, productID, branchID string, onlyWithStock bool) ([]*entity.Lot, error) {
	st, done := r.v.enter()
	defer done()
	var list []*entity.Lot
	for _, l := range st.lots {
		if l.ProductID != productID || l.BranchID != branchID {
			continue
		}
		if onlyWithStock && l.CurrentQuantity <= 0 {
			continue
		}
		l = cloneLot(l)
		list = append(list, &l)
	}
	inventory.SortFIFO(list)
	return list, nil
}

func (r *lotRepo) Decrement(_ context.Context, lotID string, qty int) (bool, error) {
	st, done := r.v.enter()
	defer done()
	l, ok := st.lots[lotID]
	if !ok || l.CurrentQuantity < qty {
		return false, nil
	}
	l.CurrentQuantity -= qty
	st.lots[lotID] = l
	return true, nil
}

type stockRepo struct{ v *view }

func (r *stockRepo) Get(_ context.Context, productID, branchID string) (*entity.BranchStock, error) {
	st, done := r.v.enter()
	defer done()
	s, ok := st.stock[stockKey{productID, branchID}]
	if !ok {
		return &entity.BranchStock{ProductID: productID, BranchID: branchID}, nil
	}
	return &s, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.BranchStock, error) {
	return r.Get(ctx, productID, branchID)
}

func (r *stockRepo) Increment(_ context.Context, productID, branchID string, qty int) error {
	st, done := r.v.enter()
	defer done()
	key := stockKey{productID, branchID}
	s, ok := st.stock[key]
	if !ok {
		s = entity.BranchStock{ProductID: productID, BranchID: branchID}
	}
	s.CurrentStock += qty
	s.UpdatedAt = time.Now()
	st.stock[key] = s
	return nil
}

func (r *stockRepo) Decrement(_ context.Context, productID, branchID string, qty int) (bool, error) {
	st, done := r.v.enter()
	defer done()
	key := stockKey{productID, branchID}
	s, ok := st.stock[key]
	if !ok || s.CurrentStock < qty {
		return false, nil
	}
	s.CurrentStock -= qty
	s.UpdatedAt = time.Now()
	st.stock[key] = s
	return true, nil
}

func (r *stockRepo) ListLow(_ context.Context, branchID string) ([]*entity.BranchStock, error) {
	st, done := r.v.enter()
	defer done()
	var list []*entity.BranchStock
	for _, s := range st.stock {
		if branchID != "" && s.BranchID != branchID {
			continue
		}
		if !s.IsLow() {
			continue
		}
		s := s
		list = append(list, &s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].BranchID != list[j].BranchID {
			return list[i].BranchID < list[j].BranchID
		}
		return list[i].CurrentStock < list[j].CurrentStock
	})
	return list, nil
}

// SetThresholds fija mínimo y máximo de un resumen. Solo para sembrar datos de prueba y desarrollo.
func (s *Store) SetThresholds(productID, branchID string, minStock, maxStock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stockKey{productID, branchID}
	row, ok := s.data.stock[key]
	if !ok {
		row = entity.BranchStock{ProductID: productID, BranchID: branchID}
	}
	row.MinStock = minStock
	row.MaxStock = maxStock
	s.data.stock[key] = row
}

type movementRepo struct{ v *view }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st, done := r.v.enter()
	defer done()
	st.movements = append(st.movements, *m)
	return nil
}

func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	st, done := r.v.enter()
	defer done()
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	var list []*entity.StockMovement
	for i := len(st.movements) - 1; i >= 0 && len(list) < limit; i-- {
		m := st.movements[i]
		if f.BranchID != "" && m.BranchID != f.BranchID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.SaleID != "" && m.SaleID != f.SaleID {
			continue
		}
		list = append(list, &m)
	}
	return list, nil
}
