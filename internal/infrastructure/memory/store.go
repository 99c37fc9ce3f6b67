// Package memory implementa los repositorios en memoria (STORAGE_DRIVER=memory y tests).
//
// Un mutex único serializa todo: las transacciones lo toman completo durante Run y
// restauran una copia del estado si fn devuelve error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	batches      map[string]*entity.StockBatch
	sales        map[string]*entity.Sale
	usages       map[string]*entity.ProductionUsage
	runs         map[string]*entity.ProductionRun
	transactions map[string]*entity.CashTransaction
	seq          int64
}

func newState() *state {
	return &state{
		batches:      make(map[string]*entity.StockBatch),
		sales:        make(map[string]*entity.Sale),
		usages:       make(map[string]*entity.ProductionUsage),
		runs:         make(map[string]*entity.ProductionRun),
		transactions: make(map[string]*entity.CashTransaction),
	}
}

// clone copia profunda; los registros se guardan como copias propias y nunca se comparten.
func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.batches {
		c.batches[k] = v.Clone()
	}
	for k, v := range s.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range s.usages {
		c.usages[k] = cloneUsage(v)
	}
	for k, v := range s.runs {
		c.runs[k] = cloneRun(v)
	}
	for k, v := range s.transactions {
		t := *v
		c.transactions[k] = &t
	}
	return c
}

// Store dueño del estado en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories repos que toman el mutex en cada llamada (lecturas y escrituras sueltas).
func (s *Store) Repositories() repository.Repositories {
	return s.repos(true)
}

func (s *Store) repos(lock bool) repository.Repositories {
	h := &handle{store: s, lock: lock}
	return repository.Repositories{
		Batches:      &batchRepo{h},
		Sales:        &saleRepo{h},
		Productions:  &productionRepo{h},
		Transactions: &transactionRepo{h},
	}
}

// Run ejecuta fn con el store bloqueado. Si fn falla se descarta todo lo que hizo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repos(false)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// handle acceso al estado; lock=false dentro de Run (el mutex ya está tomado).
type handle struct {
	store *Store
	lock  bool
}

func (h *handle) with(fn func(st *state) error) error {
	if h.lock {
		h.store.mu.Lock()
		defer h.store.mu.Unlock()
	}
	return fn(h.store.st)
}

func cloneAllocations(a entity.Allocations) entity.Allocations {
	if a == nil {
		return nil
	}
	out := make(entity.Allocations, len(a))
	copy(out, a)
	return out
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.BatchUsages = cloneAllocations(s.BatchUsages)
	return &c
}

func cloneUsage(u *entity.ProductionUsage) *entity.ProductionUsage {
	c := *u
	c.BatchUsages = cloneAllocations(u.BatchUsages)
	return &c
}

func cloneRun(r *entity.ProductionRun) *entity.ProductionRun {
	c := *r
	c.Ingredients = make([]entity.IngredientUsage, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ing.BatchUsages = cloneAllocations(ing.BatchUsages)
		c.Ingredients[i] = ing
	}
	c.OperationalCosts = append([]entity.OperationalCost(nil), r.OperationalCosts...)
	return &c
}
