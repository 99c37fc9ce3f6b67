package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository       = (*saleRepo)(nil)
	_ repository.ProductionRepository = (*productionRepo)(nil)
)

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func byDate(dates func(i int) (time.Time, time.Time)) func(i, j int) bool {
	return func(i, j int) bool {
		di, ci := dates(i)
		dj, cj := dates(j)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return ci.Before(cj)
	}
}

type saleRepo struct{ h *handle }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[s.ID] = cloneSale(s)
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.with(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = cloneSale(s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) List(_ context.Context, businessID string, from, to *time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.with(func(st *state) error {
		for _, s := range st.sales {
			if s.BusinessID == businessID && inRange(s.Date, from, to) {
				out = append(out, cloneSale(s))
			}
		}
		return nil
	})
	sort.SliceStable(out, byDate(func(i int) (time.Time, time.Time) { return out[i].Date, out[i].CreatedAt }))
	return out, err
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.sales, id)
		return nil
	})
}

type productionRepo struct{ h *handle }

func (r *productionRepo) CreateUsage(_ context.Context, u *entity.ProductionUsage) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.usages[u.ID]; ok {
			return domain.ErrDuplicate
		}
		st.usages[u.ID] = cloneUsage(u)
		return nil
	})
}

func (r *productionRepo) GetUsage(_ context.Context, id string) (*entity.ProductionUsage, error) {
	var out *entity.ProductionUsage
	err := r.h.with(func(st *state) error {
		if u, ok := st.usages[id]; ok {
			out = cloneUsage(u)
		}
		return nil
	})
	return out, err
}

func (r *productionRepo) ListUsages(_ context.Context, businessID string, from, to *time.Time) ([]*entity.ProductionUsage, error) {
	var out []*entity.ProductionUsage
	err := r.h.with(func(st *state) error {
		for _, u := range st.usages {
			if u.BusinessID == businessID && inRange(u.Date, from, to) {
				out = append(out, cloneUsage(u))
			}
		}
		return nil
	})
	sort.SliceStable(out, byDate(func(i int) (time.Time, time.Time) { return out[i].Date, out[i].CreatedAt }))
	return out, err
}

func (r *productionRepo) DeleteUsage(_ context.Context, id string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.usages[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.usages, id)
		return nil
	})
}

func (r *productionRepo) CreateRun(_ context.Context, run *entity.ProductionRun) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.runs[run.ID]; ok {
			return domain.ErrDuplicate
		}
		st.runs[run.ID] = cloneRun(run)
		return nil
	})
}

func (r *productionRepo) GetRun(_ context.Context, id string) (*entity.ProductionRun, error) {
	var out *entity.ProductionRun
	err := r.h.with(func(st *state) error {
		if run, ok := st.runs[id]; ok {
			out = cloneRun(run)
		}
		return nil
	})
	return out, err
}

func (r *productionRepo) ListRuns(_ context.Context, businessID string, from, to *time.Time) ([]*entity.ProductionRun, error) {
	var out []*entity.ProductionRun
	err := r.h.with(func(st *state) error {
		for _, run := range st.runs {
			if run.BusinessID == businessID && inRange(run.Date, from, to) {
				out = append(out, cloneRun(run))
			}
		}
		return nil
	})
	sort.SliceStable(out, byDate(func(i int) (time.Time, time.Time) { return out[i].Date, out[i].CreatedAt }))
	return out, err
}

func (r *productionRepo) DeleteRun(_ context.Context, id string) error {
	return r.h.with(func(st *state) error {
		if _, ok := st.runs[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.runs, id)
		return nil
	})
}
