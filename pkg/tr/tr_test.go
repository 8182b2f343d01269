package tr

import (
	"context"
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx удовлетворяет pgx.Tx; методы не вызываются.
type fakeTx struct {
	pgx.Tx
}

type fakeQuerier struct {
	Querier
}

func TestTxFromCtx_NoTransaction(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestTxFromCtx_WithTransaction(t *testing.T) {
	tx := &fakeTx{}
	ctx := WithTx(context.Background(), tx)

	got, err := TxFromCtx(ctx)
	require.NoError(t, err)
	assert.Same(t, tx, got)
}

func TestQuerierFromCtx(t *testing.T) {
	pool := &fakeQuerier{}

	t.Run("falls back outside transaction", func(t *testing.T) {
		assert.Same(t, pool, QuerierFromCtx(context.Background(), pool))
	})

	t.Run("prefers transaction", func(t *testing.T) {
		tx := &fakeTx{}
		got := QuerierFromCtx(WithTx(context.Background(), tx), pool)
		assert.Same(t, tx, got)
	})
}
