package inventory

import (
	"context"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Todo lo que haga fn se confirma junto o se descarta junto: un consumo nunca queda a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// Metrics observa el motor de costeo. La implementación Prometheus vive en infrastructure/metrics.
type Metrics interface {
	ObserveAllocation(class entity.StockClass, qty, cost decimal.Decimal)
	ObserveReversal(lines int, qty decimal.Decimal)
	ObserveRejection(reason string)
}

// NopMetrics descarta las observaciones.
type NopMetrics struct{}

func (NopMetrics) ObserveAllocation(entity.StockClass, decimal.Decimal, decimal.Decimal) {}
func (NopMetrics) ObserveReversal(int, decimal.Decimal)                                  {}
func (NopMetrics) ObserveRejection(string)                                               {}
