package repository

import (
	"context"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BatchFilter filtro para listar lotes. Campos vacíos no filtran.
type BatchFilter struct {
	ProductName   string
	Class         entity.StockClass
	OnlyAvailable bool // CurrentQty > 0
}

// BatchLedger define el puerto del libro de lotes: dueño único de las cantidades.
// Las listas de disponibles se devuelven en orden FIFO (fecha asc, luego inserción).
type BatchLedger interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error)
	List(ctx context.Context, businessID string, f BatchFilter) ([]*entity.StockBatch, error)
	ListAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) ([]*entity.StockBatch, error)
	// LockAvailable serializa los consumos del producto y devuelve sus lotes disponibles bloqueados.
	LockAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) ([]*entity.StockBatch, error)
	TotalAvailable(ctx context.Context, businessID, productName string, class entity.StockClass) (decimal.Decimal, error)
	// Debit falla con ErrInvariantViolation si amount > CurrentQty.
	Debit(ctx context.Context, id string, amount decimal.Decimal) error
	// Credit falla con ErrInvariantViolation si CurrentQty+amount > InitialQty y ErrNotFound si no existe.
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
	// Remove falla con ErrNotDeletable si el lote no está intacto.
	Remove(ctx context.Context, id string) error
}
