package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas (con su asignación FIFO).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, businessID string, from, to *time.Time) ([]*entity.Sale, error)
	Delete(ctx context.Context, id string) error
}

// ProductionRepository persistencia de consumos de materia prima y producciones.
type ProductionRepository interface {
	CreateUsage(ctx context.Context, usage *entity.ProductionUsage) error
	GetUsage(ctx context.Context, id string) (*entity.ProductionUsage, error)
	ListUsages(ctx context.Context, businessID string, from, to *time.Time) ([]*entity.ProductionUsage, error)
	DeleteUsage(ctx context.Context, id string) error

	CreateRun(ctx context.Context, run *entity.ProductionRun) error
	GetRun(ctx context.Context, id string) (*entity.ProductionRun, error)
	ListRuns(ctx context.Context, businessID string, from, to *time.Time) ([]*entity.ProductionRun, error)
	DeleteRun(ctx context.Context, id string) error
}
