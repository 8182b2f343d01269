// Package jitter — экспоненциальные паузы со случайной добавкой для повторных попыток при старте сервиса.
package jitter

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает d с джиттером в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return d + time.Duration(rand.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff возвращает паузу перед попыткой attempt (с нуля): base*2^attempt, не больше max, плюс джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}
	if backoff > max {
		backoff = max
	}
	return Duration(backoff, jitterFactor)
}

// Retry вызывает fn до attempts раз, делая паузы между неудачными попытками.
// onRetry (может быть nil) вызывается перед каждой паузой. Возвращает последнюю ошибку fn или ошибку ctx.
func Retry(
	ctx context.Context,
	attempts int,
	base, max time.Duration,
	fn func(ctx context.Context) error,
	onRetry func(attempt int, wait time.Duration, err error),
) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		wait := ExponentialBackoff(base, max, attempt, DefaultJitter)
		if onRetry != nil {
			onRetry(attempt+1, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}
