package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashbook-api/internal/domain"
	"github.com/jhoicas/cashbook-api/internal/domain/entity"
	"github.com/jhoicas/cashbook-api/internal/domain/repository"
	"github.com/jhoicas/cashbook-api/internal/infrastructure/memory"
)

func newBatch(t *testing.T, id string, day int) *entity.StockBatch {
	t.Helper()
	b, err := entity.NewStockBatch(id, "biz", "Widget", time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(10), decimal.NewFromInt(5), entity.StockClassForSale)
	require.NoError(t, err)
	return b
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Repositories().Batches.Create(ctx, newBatch(t, "b1", 1)))

	boom := errors.New("boom")
	err := store.Run(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Batches.Debit(ctx, "b1", decimal.NewFromInt(4)))
		require.NoError(t, r.Batches.Create(ctx, newBatch(t, "b2", 2)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b1, err := store.Repositories().Batches.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, b1.CurrentQty.Equal(decimal.NewFromInt(10)))
	b2, err := store.Repositories().Batches.GetByID(ctx, "b2")
	require.NoError(t, err)
	assert.Nil(t, b2)
}

func TestBatches_OrdenFIFOYSeq(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Batches.Create(ctx, newBatch(t, "tarde", 3)))
	require.NoError(t, repos.Batches.Create(ctx, newBatch(t, "mismo-dia-1", 1)))
	require.NoError(t, repos.Batches.Create(ctx, newBatch(t, "mismo-dia-2", 1)))

	list, err := repos.Batches.ListAvailable(ctx, "biz", "Widget", entity.StockClassForSale)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "mismo-dia-1", list[0].ID)
	assert.Equal(t, "mismo-dia-2", list[1].ID)
	assert.Equal(t, "tarde", list[2].ID)

	assert.ErrorIs(t, repos.Batches.Create(ctx, newBatch(t, "tarde", 4)), domain.ErrDuplicate)
}

func TestBatches_LecturasSonCopias(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Batches.Create(ctx, newBatch(t, "b1", 1)))

	got, err := repos.Batches.GetByID(ctx, "b1")
	require.NoError(t, err)
	got.CurrentQty = decimal.Zero

	again, err := repos.Batches.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, again.CurrentQty.Equal(decimal.NewFromInt(10)))
}

func TestBatches_RemoveYDebitoExcesivo(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Batches.Create(ctx, newBatch(t, "b1", 1)))

	assert.ErrorIs(t, repos.Batches.Debit(ctx, "b1", decimal.NewFromInt(11)), domain.ErrInvariantViolation)
	require.NoError(t, repos.Batches.Debit(ctx, "b1", decimal.NewFromInt(1)))
	assert.ErrorIs(t, repos.Batches.Remove(ctx, "b1"), domain.ErrNotDeletable)
	require.NoError(t, repos.Batches.Credit(ctx, "b1", decimal.NewFromInt(1)))
	require.NoError(t, repos.Batches.Remove(ctx, "b1"))
	assert.ErrorIs(t, repos.Batches.Credit(ctx, "b1", decimal.NewFromInt(1)), domain.ErrNotFound)
}
