package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cashbook-api/internal/domain/entity"
)

func TestObserveAllocation_AcumulaPorClase(t *testing.T) {
	p := NewPrometheus()
	p.ObserveAllocation(entity.StockClassForSale, decimal.NewFromInt(7), decimal.NewFromInt(1600))
	p.ObserveAllocation(entity.StockClassForSale, decimal.NewFromInt(3), decimal.NewFromInt(900))
	p.ObserveAllocation(entity.StockClassForProduction, decimal.NewFromInt(2), decimal.Zero)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.allocations.WithLabelValues("for_sale")))
	assert.Equal(t, 10.0, testutil.ToFloat64(p.allocatedQty.WithLabelValues("for_sale")))
	assert.Equal(t, 2500.0, testutil.ToFloat64(p.allocatedCost.WithLabelValues("for_sale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.allocations.WithLabelValues("for_production")))
}

func TestObserveReversalYRechazos(t *testing.T) {
	p := NewPrometheus()
	p.ObserveReversal(3, decimal.NewFromInt(7))
	p.ObserveRejection("insufficient_stock")
	p.ObserveRejection("insufficient_stock")

	assert.Equal(t, 1.0, testutil.ToFloat64(p.reversals))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.reversedLines))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.rejections.WithLabelValues("insufficient_stock")))
}
