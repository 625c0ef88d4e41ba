package storage

import (
	"context"
	"time"
)

const maxRetryDelay = 10 * time.Second

// sleepFunc is swapped out in tests so retry timing can be asserted
// without waiting.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fetchWithRetry runs fn up to maxRetries+1 times. The delay between
// attempts grows by half each time and is capped at maxRetryDelay. The last
// attempt's error is returned as-is so callers can inspect it.
func fetchWithRetry[T any](ctx context.Context, maxRetries int, initialDelay time.Duration, sleep sleepFunc, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)
	delay := initialDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				return result, err
			}
			delay = delay * 3 / 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}
		result, lastErr = fn(ctx)
		if lastErr == nil {
			return result, nil
		}
	}
	return result, lastErr
}
