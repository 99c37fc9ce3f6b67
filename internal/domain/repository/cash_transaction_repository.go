package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
)

// TransactionFilter filtro del libro de caja. Campos vacíos no filtran.
type TransactionFilter struct {
	From     *time.Time
	To       *time.Time
	Category entity.TransactionCategory
	Type     entity.TransactionType
}

// CashTransactionRepository persistencia del libro de caja.
type CashTransactionRepository interface {
	Create(ctx context.Context, t *entity.CashTransaction) error
	GetByID(ctx context.Context, id string) (*entity.CashTransaction, error)
	// List devuelve los movimientos ordenados por fecha ascendente.
	List(ctx context.Context, businessID string, f TransactionFilter) ([]*entity.CashTransaction, error)
	Delete(ctx context.Context, id string) error
	DeleteBySale(ctx context.Context, saleID string) error
	DeleteByBatch(ctx context.Context, batchID string) error
}
