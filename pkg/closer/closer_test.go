package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloser_LIFO(t *testing.T) {
	c := NewCloser(0)

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"telemetry", "postgres", "http server"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http server", "postgres", "telemetry"}, order)
}

func TestCloser_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	errDB := errors.New("db close failed")

	c.Add("postgres", func(context.Context) error { return errDB })
	c.Add("http server", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.Contains(t, err.Error(), "postgres")

	// Повторный вызов возвращает тот же результат и не закрывает ресурсы заново
	assert.Equal(t, err, c.Close(context.Background()))
}

func TestCloser_ForcedOnTimeout(t *testing.T) {
	c := NewCloser(50 * time.Millisecond)

	var forcedCalled bool
	c.Add("postgres", func(context.Context) error {
		forcedCalled = true
		return nil
	})
	c.Add("http server", func(context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 resources")
	assert.True(t, forcedCalled)
}
