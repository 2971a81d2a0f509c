// Package memory implementa todos los repositorios en memoria. Sirve para desarrollo (DB_DRIVER=memory)
// y para las pruebas de los casos de uso.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

type stockKey struct {
	productID string
	branchID  string
}

// state es una instantánea completa de los datos.
type state struct {
	products   map[string]entity.Product
	branches   map[string]entity.Branch
	lots       map[string]entity.Lot
	stock      map[stockKey]entity.BranchStock
	movements  []entity.StockMovement
	sales      map[string]entity.Sale
	credits    map[string]entity.Credit
	payments   map[string][]entity.CreditPayment
	clients    map[string]entity.Client
	quotations map[string]entity.Quotation
	closings   map[string]entity.CashClosing
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		branches:   map[string]entity.Branch{},
		lots:       map[string]entity.Lot{},
		stock:      map[stockKey]entity.BranchStock{},
		sales:      map[string]entity.Sale{},
		credits:    map[string]entity.Credit{},
		payments:   map[string][]entity.CreditPayment{},
		clients:    map[string]entity.Client{},
		quotations: map[string]entity.Quotation{},
		closings:   map[string]entity.CashClosing{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = cloneLot(v)
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range s.credits {
		c.credits[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = append([]entity.CreditPayment(nil), v...)
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.quotations {
		c.quotations[k] = cloneQuotation(v)
	}
	for k, v := range s.closings {
		c.closings[k] = cloneClosing(v)
	}
	return c
}

// Store guarda los datos detrás de un mutex. Las transacciones se serializan: trabajan sobre una copia
// que reemplaza al estado solo si fn termina sin error.
type Store struct {
	mu   sync.Mutex
	data *state
	seq  atomic.Int64
}

var _ repository.TxRunner = (*Store)(nil)

// New crea un almacén vacío.
func New() *Store {
	return &Store{data: newState()}
}

// Repos devuelve repositorios que operan fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() repository.Repos {
	return s.bind(&view{store: s})
}

// Run ejecuta fn sobre una copia del estado y la confirma si fn devuelve nil.
// Un panic en fn descarta la copia y se propaga.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(s.bind(&view{tx: work, seq: &s.seq})); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) bind(v *view) repository.Repos {
	if v.store != nil {
		v.seq = &s.seq
	}
	return repository.Repos{
		Products:     &productRepo{v},
		Branches:     &branchRepo{v},
		Lots:         &lotRepo{v},
		Stock:        &stockRepo{v},
		Movements:    &movementRepo{v},
		Sales:        &saleRepo{v},
		Credits:      &creditRepo{v},
		Clients:      &clientRepo{v},
		Quotations:   &quotationRepo{v},
		CashClosings: &cashClosingRepo{v},
	}
}

// view resuelve el estado sobre el que opera un repositorio: la copia de la transacción
// o el estado confirmado bajo el mutex.
type view struct {
	store *Store
	tx    *state
	seq   *atomic.Int64
}

func (v *view) enter() (*state, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.Lock()
	return v.store.data, v.store.mu.Unlock
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneLot(l entity.Lot) entity.Lot {
	l.ExpirationDate = cloneTime(l.ExpirationDate)
	return l
}

func cloneSale(s entity.Sale) entity.Sale {
	s.CancelledAt = cloneTime(s.CancelledAt)
	items := make([]entity.SaleItem, len(s.Items))
	for i, it := range s.Items {
		it.Allocations = append([]entity.LotAllocation(nil), it.Allocations...)
		items[i] = it
	}
	s.Items = items
	return s
}

func cloneQuotation(q entity.Quotation) entity.Quotation {
	q.Items = append([]entity.QuotationItem(nil), q.Items...)
	return q
}

func cloneClosing(c entity.CashClosing) entity.CashClosing {
	c.ClosedAt = cloneTime(c.ClosedAt)
	return c
}

func page[T any](list []T, limit, offset, def int) []T {
	if limit <= 0 {
		limit = def
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
