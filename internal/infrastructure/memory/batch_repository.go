package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	domaininv "github.com/jhoicas/cashbook-api/internal/domain/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BatchLedger = (*batchRepo)(nil)

type batchRepo struct{ h *handle }

func (r *batchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.batches[b.ID]; ok {
			return domain.ErrDuplicate
		}
		if b.CurrentQty.IsNegative() || b.CurrentQty.GreaterThan(b.InitialQty) {
			return fmt.Errorf("crear lote %s: %w", b.ID, domain.ErrInvalidInput)
		}
		st.seq++
		b.Seq = st.seq
		st.batches[b.ID] = b.Clone()
		return nil
	})
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	var out *entity.StockBatch
	err := r.h.with(func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = b.Clone()
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID: el mutex del store ya serializa.
func (r *batchRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error) {
	return r.GetByID(ctx, id)
}

func (r *batchRepo) List(_ context.Context, businessID string, f repository.BatchFilter) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	err := r.h.with(func(st *state) error {
		for _, b := range st.batches {
			if b.BusinessID != businessID {
				continue
			}
			if f.ProductName != "" && b.ProductName != f.ProductName {
				continue
			}
			if f.Class != "" && b.Class != f.Class {
				continue
			}
			if f.OnlyAvailable && !b.CurrentQty.IsPositive() {
				continue
			}
			out = append(out, b.Clone())
		}
		return nil
	})
	domaininv.SortFIFO(out)
	return out, err
}

func (r *batchRepo) ListAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) ([]*entity.StockBatch, error) {
	return r.List(ctx, businessID, repository.BatchFilter{ProductName: productName, Class: class, OnlyAvailable: true})
}

func (r *batchRepo) LockAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) ([]*entity.StockBatch, error) {
	return r.ListAvailable(ctx, businessID, productName, class)
}

func (r *batchRepo) TotalAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) (decimal.Decimal, error) {
	list, err := r.ListAvailable(ctx, businessID, productName, class)
	if err != nil {
		return decimal.Zero, err
	}
	return domaininv.Available(list), nil
}

func (r *batchRepo) Debit(_ context.Context, id string, amount decimal.Decimal) error {
	return r.h.with(func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
		}
		return b.Debit(amount)
	})
}

func (r *batchRepo) Credit(_ context.Context, id string, amount decimal.Decimal) error {
	return r.h.with(func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
		}
		return b.Credit(amount)
	})
}

func (r *batchRepo) Remove(_ context.Context, id string) error {
	return r.h.with(func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
		}
		if !b.Deletable() {
			return fmt.Errorf("lote %s: %w", id, domain.ErrNotDeletable)
		}
		delete(st.batches, id)
		return nil
	})
}
