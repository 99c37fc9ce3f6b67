package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/application/sales"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/memory"
)

const biz = "biz-1"

type fixture struct {
	store   *memory.Store
	batches *inventory.BatchUseCase
	sales   *sales.SaleUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	repos := store.Repositories()
	return &fixture{
		store:   store,
		batches: inventory.NewBatchUseCase(store, repos, nil, nil),
		sales:   sales.NewSaleUseCase(store, repos, inventory.NewConsumptionAllocator(nil, nil), nil),
	}
}

func (f *fixture) batch(t *testing.T, date string, qty, price int64) string {
	t.Helper()
	p := decimal.NewFromInt(price)
	b, err := f.batches.Create(context.Background(), biz, dto.CreateBatchRequest{
		Date: date, ProductName: "Widget", Quantity: decimal.NewFromInt(qty), UnitPrice: &p, Class: "for_sale",
	})
	require.NoError(t, err)
	return b.ID
}

func (f *fixture) available(t *testing.T) decimal.Decimal {
	t.Helper()
	out, err := f.batches.TotalAvailable(context.Background(), biz, "Widget", "for_sale")
	require.NoError(t, err)
	return out.Available
}

func (f *fixture) transactions(t *testing.T, c entity.TransactionCategory) []*entity.CashTransaction {
	t.Helper()
	list, err := f.store.Repositories().Transactions.List(context.Background(), biz, repository.TransactionFilter{Category: c})
	require.NoError(t, err)
	return list
}

func TestSaleCreate_CostoYIngresoEnCaja(t *testing.T) {
	f := newFixture()
	b1 := f.batch(t, "2024-01-01", 10, 100)
	f.batch(t, "2024-01-05", 10, 120)

	sale, err := f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{
		Date: "2024-01-10", ProductName: "Widget", Quantity: decimal.NewFromInt(15), SellPrice: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalCOGS.Equal(decimal.NewFromInt(1600)))
	assert.True(t, sale.GrossProfit.Equal(decimal.NewFromInt(2250-1600)))
	assert.Equal(t, b1, sale.BatchUsages[0].BatchID)
	assert.True(t, sale.BatchUsages[1].Cost.Equal(decimal.NewFromInt(600)))

	income := f.transactions(t, entity.CategorySale)
	require.Len(t, income, 1)
	assert.Equal(t, sale.ID, income[0].RelatedSaleID)
	assert.True(t, income[0].Amount.Equal(decimal.NewFromInt(2250)))
}

func TestSaleCreate_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture()
	f.batch(t, "2024-01-01", 5, 100)

	_, err := f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: decimal.NewFromInt(6), SellPrice: decimal.NewFromInt(150),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.available(t).Equal(decimal.NewFromInt(5)))
	assert.Empty(t, f.transactions(t, entity.CategorySale))

	list, err := f.sales.List(context.Background(), biz, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaleCreate_EntradaInvalida(t *testing.T) {
	f := newFixture()
	_, err := f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{ProductName: "Widget", Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: decimal.NewFromInt(1), SellPrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaleCreate_PrecioCeroSinMovimiento(t *testing.T) {
	f := newFixture()
	f.batch(t, "2024-01-01", 5, 100)
	_, err := f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: decimal.NewFromInt(1), SellPrice: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Empty(t, f.transactions(t, entity.CategorySale))
}

func TestSaleDelete_RestauraLotesYCaja(t *testing.T) {
	f := newFixture()
	f.batch(t, "2024-01-01", 10, 100)
	f.batch(t, "2024-01-05", 10, 120)

	sale, err := f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: decimal.NewFromInt(15), SellPrice: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	require.True(t, f.available(t).Equal(decimal.NewFromInt(5)))

	require.NoError(t, f.sales.Delete(context.Background(), biz, sale.ID))
	assert.True(t, f.available(t).Equal(decimal.NewFromInt(20)))
	assert.Empty(t, f.transactions(t, entity.CategorySale))

	got, err := f.sales.Get(context.Background(), biz, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, f.sales.Delete(context.Background(), biz, sale.ID), domain.ErrNotFound)
}

func TestSaleDelete_OtroNegocio(t *testing.T) {
	f := newFixture()
	f.batch(t, "2024-01-01", 10, 100)
	sale, err := f.sales.Create(context.Background(), biz, dto.CreateSaleRequest{
		ProductName: "Widget", Quantity: decimal.NewFromInt(1), SellPrice: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, f.sales.Delete(context.Background(), "ajeno", sale.ID), domain.ErrNotFound)
	assert.True(t, f.available(t).Equal(decimal.NewFromInt(9)))
}
