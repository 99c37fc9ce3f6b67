package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
)

func newWidget(t *testing.T, qty int64) *entity.StockBatch {
	t.Helper()
	b, err := entity.NewStockBatch("b1", "biz", " Widget ", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(qty), decimal.NewFromInt(100), entity.StockClassForSale)
	require.NoError(t, err)
	return b
}

func TestNewStockBatch_Intacto(t *testing.T) {
	b := newWidget(t, 10)
	assert.Equal(t, "Widget", b.ProductName)
	assert.True(t, b.CurrentQty.Equal(b.InitialQty))
	assert.True(t, b.TotalCost.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, entity.BatchStateActive, b.State())
	assert.True(t, b.Deletable())
}

func TestNewStockBatch_Invalido(t *testing.T) {
	date := time.Now()
	cases := []struct {
		name  string
		prod  string
		qty   decimal.Decimal
		price decimal.Decimal
		class entity.StockClass
	}{
		{"sin producto", "  ", decimal.NewFromInt(1), decimal.NewFromInt(1), entity.StockClassForSale},
		{"cantidad cero", "W", decimal.Zero, decimal.NewFromInt(1), entity.StockClassForSale},
		{"precio negativo", "W", decimal.NewFromInt(1), decimal.NewFromInt(-1), entity.StockClassForSale},
		{"clase desconocida", "W", decimal.NewFromInt(1), decimal.NewFromInt(1), entity.StockClass("otro")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := entity.NewStockBatch("x", "biz", tc.prod, date, tc.qty, tc.price, tc.class)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStockBatch_DebitYCredit(t *testing.T) {
	b := newWidget(t, 10)

	require.NoError(t, b.Debit(decimal.NewFromInt(4)))
	assert.Equal(t, entity.BatchStatePartiallyConsumed, b.State())
	assert.False(t, b.Deletable())
	assert.True(t, b.ConsumedQty().Equal(decimal.NewFromInt(4)))
	assert.True(t, b.OnHandValue().Equal(decimal.NewFromInt(600)))

	require.NoError(t, b.Debit(decimal.NewFromInt(6)))
	assert.Equal(t, entity.BatchStateFullyConsumed, b.State())

	assert.ErrorIs(t, b.Debit(decimal.NewFromInt(1)), domain.ErrInvariantViolation)

	require.NoError(t, b.Credit(decimal.NewFromInt(10)))
	assert.Equal(t, entity.BatchStateActive, b.State())
	assert.ErrorIs(t, b.Credit(decimal.NewFromInt(1)), domain.ErrInvariantViolation)
	assert.ErrorIs(t, b.Credit(decimal.NewFromInt(-1)), domain.ErrInvariantViolation)
	assert.True(t, b.CurrentQty.Equal(decimal.NewFromInt(10)))
}

func TestParseStockClass_EtiquetasHeredadas(t *testing.T) {
	for in, want := range map[string]entity.StockClass{
		"for_sale":       entity.StockClassForSale,
		"Dijual":         entity.StockClassForSale,
		"HASIL_PRODUKSI": entity.StockClassForSale,
		"Produksi":       entity.StockClassForProduction,
		"for-production": entity.StockClassForProduction,
	} {
		got, err := entity.ParseStockClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := entity.ParseStockClass("chatarra")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocations_Totales(t *testing.T) {
	as := entity.Allocations{
		{BatchID: "b1", QtyUsed: decimal.NewFromInt(10), CostPerUnit: decimal.NewFromInt(100)},
		{BatchID: "b2", QtyUsed: decimal.NewFromInt(5), CostPerUnit: decimal.NewFromInt(120)},
		{BatchID: "b1", QtyUsed: decimal.NewFromInt(1), CostPerUnit: decimal.NewFromInt(100)},
	}
	assert.True(t, as.TotalQty().Equal(decimal.NewFromInt(16)))
	assert.True(t, as.TotalCost().Equal(decimal.NewFromInt(1700)))
	assert.True(t, as.QtyByBatch()["b1"].Equal(decimal.NewFromInt(11)))
}
