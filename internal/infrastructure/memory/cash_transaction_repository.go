package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
)

var _ repository.CashTransactionRepository = (*transactionRepo)(nil)

type transactionRepo struct{ h *handle }

func (r *transactionRepo) Create(_ context.Context, t *entity.CashTransaction) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.transactions[t.ID]; ok {
			return domain.ErrDuplicate
		}
		if !t.Amount.IsPositive() {
			return domain.ErrInvalidInput
		}
		c := *t
		st.transactions[t.ID] = &c
		return nil
	})
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*entity.CashTransaction, error) {
	var out *entity.CashTransaction
	err := r.h.with(func(st *state) error {
		if t, ok := st.transactions[id]; ok {
			c := *t
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *transactionRepo) List(_ context.Context, businessID string, f repository.TransactionFilter) ([]*entity.CashTransaction, error) {
	var out []*entity.CashTransaction
	err := r.h.with(func(st *state) error {
		for _, t := range st.transactions {
			if t.BusinessID != businessID || !inRange(t.Date, f.From, f.To) {
				continue
			}
			if f.Category != "" && t.Category != f.Category {
				continue
			}
			if f.Type != "" && t.Type != f.Type {
				continue
			}
			c := *t
			out = append(out, &c)
		}
		return nil
	})
	sort.SliceStable(out, byDate(func(i int) (time.Time, time.Time) { return out[i].Date, out[i].CreatedAt }))
	return out, err
}

func (r *transactionRepo) Delete(_ context.Context, id string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.transactions[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.transactions, id)
		return nil
	})
}

func (r *transactionRepo) DeleteBySale(_ context.Context, saleID string) error {
	return r.h.with(func(st *state) error {
		for id, t := range st.transactions {
			if t.RelatedSaleID == saleID {
				delete(st.transactions, id)
			}
		}
		return nil
	})
}

func (r *transactionRepo) DeleteByBatch(_ context.Context, batchID string) error {
	return r.h.with(func(st *state) error {
		for id, t := range st.transactions {
			if t.RelatedBatchID == batchID {
				delete(st.transactions, id)
			}
		}
		return nil
	})
}
