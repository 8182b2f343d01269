package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWarrantyManager(t *testing.T) (*WarrantyManager, *memStore, *domain.Product) {
	t.Helper()

	store := newMemStore()
	product, err := (&memProductRepo{store: store}).Create(context.Background(), domain.NewProduct("Phone", decimal.NewFromInt(500)))
	require.NoError(t, err)

	return NewWarrantyManager(&memWarrantyRepo{store: store}, newTestLogger()), store, product
}

func TestWarrantyManager_AttachOrReplace(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when absent", func(t *testing.T) {
		wm, store, product := newTestWarrantyManager(t)

		w, err := wm.AttachOrReplace(ctx, product, 12)
		require.NoError(t, err)

		assert.Equal(t, product.ID, w.ProductID)
		assert.Equal(t, int32(12), w.WarrantyPeriod)
		assert.Len(t, store.warranties, 1)
	})

	t.Run("replaces period in place", func(t *testing.T) {
		wm, store, product := newTestWarrantyManager(t)

		first, err := wm.AttachOrReplace(ctx, product, 12)
		require.NoError(t, err)

		second, err := wm.AttachOrReplace(ctx, product, 36)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int32(36), second.WarrantyPeriod)
		assert.Len(t, store.warranties, 1)
	})

	t.Run("same period is idempotent", func(t *testing.T) {
		wm, store, product := newTestWarrantyManager(t)

		first, err := wm.AttachOrReplace(ctx, product, 12)
		require.NoError(t, err)

		second, err := wm.AttachOrReplace(ctx, product, 12)
		require.NoError(t, err)

		assert.Equal(t, *first, *second)
		assert.Len(t, store.warranties, 1)
	})

	t.Run("storage failure", func(t *testing.T) {
		wm, store, product := newTestWarrantyManager(t)
		store.failOn = "Warranty.Create"

		_, err := wm.AttachOrReplace(ctx, product, 12)
		require.ErrorIs(t, err, errStorage)
		assert.Empty(t, store.warranties)
	})
}

func TestWarrantyManager_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes existing", func(t *testing.T) {
		wm, store, product := newTestWarrantyManager(t)

		_, err := wm.AttachOrReplace(ctx, product, 12)
		require.NoError(t, err)

		require.NoError(t, wm.Remove(ctx, product))
		assert.Empty(t, store.warranties)
	})

	t.Run("no warranty is not an error", func(t *testing.T) {
		wm, _, product := newTestWarrantyManager(t)
		assert.NoError(t, wm.Remove(ctx, product))
	})
}
