package cashbook_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashbook-api/internal/application/analytics"
	"github.com/jhoicas/cashbook-api/internal/application/cashbook"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/application/inventory"
	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/memory"
	"github.com/jhoicas/cashbook-api/pkg/logger"
)

const biz = "biz-1"

func TestAdd_MovimientoManual(t *testing.T) {
	store := memory.NewStore()
	uc := cashbook.NewCashbookUseCase(store, store.Repositories(), nil)

	out, err := uc.Add(context.Background(), biz, dto.CreateTransactionRequest{
		Date: "2024-03-02", Amount: decimal.NewFromInt(500), Description: " Aporte ", Category: "modal", Type: "IN",
	})
	require.NoError(t, err)
	assert.Equal(t, "capital", out.Category)
	assert.Equal(t, "Aporte", out.Description)

	list, err := uc.List(context.Background(), biz, repository.TransactionFilter{Type: entity.TransactionIN})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, uc.Delete(context.Background(), biz, out.ID))
	assert.ErrorIs(t, uc.Delete(context.Background(), biz, out.ID), domain.ErrNotFound)
}

func TestAdd_Rechazos(t *testing.T) {
	store := memory.NewStore()
	uc := cashbook.NewCashbookUseCase(store, store.Repositories(), nil)
	cases := map[string]dto.CreateTransactionRequest{
		"compra de stock manual": {Amount: decimal.NewFromInt(1), Category: "stock_purchase", Type: "OUT"},
		"monto cero":             {Amount: decimal.Zero, Category: "expense", Type: "OUT"},
		"tipo inválido":          {Amount: decimal.NewFromInt(1), Category: "expense", Type: "SIDEWAYS"},
		"categoría inválida":     {Amount: decimal.NewFromInt(1), Category: "regalo", Type: "IN"},
	}
	for name, in := range cases {
		_, err := uc.Add(context.Background(), biz, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestDelete_EnlazadoALote(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	uc := cashbook.NewCashbookUseCase(store, repos, nil)
	batches := inventory.NewBatchUseCase(store, repos, nil, nil)

	p := decimal.NewFromInt(3)
	_, err := batches.Create(context.Background(), biz, dto.CreateBatchRequest{
		ProductName: "Widget", Quantity: decimal.NewFromInt(2), UnitPrice: &p, Class: "for_sale",
	})
	require.NoError(t, err)

	list, err := uc.List(context.Background(), biz, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.ErrorIs(t, uc.Delete(context.Background(), biz, list[0].ID), domain.ErrLinkedTransaction)
}

func TestAdd_FechaEnZonaDetrasDeUTC(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	store := memory.NewStore()
	repos := store.Repositories()
	uc := cashbook.NewCashbookUseCase(store, repos, nil).InLocation(bogota)

	_, err := uc.Add(context.Background(), biz, dto.CreateTransactionRequest{
		Date: "2024-01-01", Amount: decimal.NewFromInt(500), Category: "capital", Type: "IN",
	})
	require.NoError(t, err)

	reports := analytics.NewReportUseCase(repos, nil, nil)
	jan, err := dto.NewDateRange("2024-01-01", "2024-01-31", time.Date(2024, 2, 1, 9, 0, 0, 0, bogota))
	require.NoError(t, err)
	dec, err := dto.NewDateRange("2023-12-01", "2023-12-31", time.Date(2024, 2, 1, 9, 0, 0, 0, bogota))
	require.NoError(t, err)

	got, err := reports.Financial(context.Background(), biz, jan)
	require.NoError(t, err)
	assert.True(t, got.CapitalInjected.Equal(decimal.NewFromInt(500)), got.CapitalInjected.String())

	got, err = reports.Financial(context.Background(), biz, dec)
	require.NoError(t, err)
	assert.True(t, got.CapitalInjected.IsZero(), got.CapitalInjected.String())
}

func TestAdd_RegistraEnLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	store := memory.NewStore()
	uc := cashbook.NewCashbookUseCase(store, store.Repositories(), log)

	out, err := uc.Add(context.Background(), biz, dto.CreateTransactionRequest{
		Date: "2024-03-02", Amount: decimal.NewFromInt(80), Category: "expense", Type: "OUT",
	})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(context.Background(), biz, out.ID))

	logs := buf.String()
	assert.Contains(t, logs, `"component":"cashbook"`)
	assert.Contains(t, logs, "movimiento registrado")
	assert.Contains(t, logs, "movimiento eliminado")
	assert.Contains(t, logs, out.ID)
}
