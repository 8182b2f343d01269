package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// successIdx - индекс, который возвращается в случае успешного закрытия всех ресурсов
	successIdx = -1

	defaultForcedTimeout = 2 * time.Second
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer обеспечивает потокобезопасное закрытие ресурсов приложения в порядке LIFO.
type Closer struct {
	resources     []resource
	mu            sync.Mutex
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout задаёт время на принудительное закрытие ресурсов, не успевших закрыться до отмены ctx в Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
	}
}

// Add регистрирует ресурс. name попадает в текст ошибки закрытия.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы в обратном порядке регистрации. Повторные вызовы возвращают результат первого.
// Если ctx отменяется до завершения, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		stopIdx, errs := c.gracefulClose(ctx, resources)
		if stopIdx == successIdx {
			c.err = errors.Join(errs...)
			return
		}

		remaining := resources[:stopIdx+1]
		errs = append(errs, c.forcedClose(remaining)...)

		c.err = fmt.Errorf(
			"shutdown interrupted after %d/%d resources",
			len(resources)-1-stopIdx,
			len(resources),
		)
		if len(errs) > 0 {
			c.err = fmt.Errorf("%w: %w", c.err, errors.Join(errs...))
		}
	})

	return c.err
}

// gracefulClose закрывает ресурсы по одному, начиная с последнего.
// При отмене ctx возвращает индекс ресурса, закрытие которого не дождались.
func (c *Closer) gracefulClose(ctx context.Context, resources []resource) (int, []error) {
	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		var (
			res  = resources[i]
			done = make(chan error, 1)
		)

		go func() {
			done <- res.close(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", res.name, err))
			}
		case <-ctx.Done():
			return i, errs
		}
	}

	return successIdx, errs
}

// forcedClose параллельно закрывает оставшиеся ресурсы с собственным таймаутом.
func (c *Closer) forcedClose(resources []resource) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
