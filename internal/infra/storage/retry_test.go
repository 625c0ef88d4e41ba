package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func recordingSleep(delays *[]time.Duration) sleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestFetchWithRetryEventualSuccess(t *testing.T) {
	var delays []time.Duration
	attempts := 0

	got, err := fetchWithRetry(context.Background(), 3, time.Second, recordingSleep(&delays), func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "payload", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "payload" {
		t.Errorf("result = %q, want payload", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	// sleeps happen before retries only: 1s then 1.5s
	want := []time.Duration{time.Second, 1500 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestFetchWithRetryExhaustion(t *testing.T) {
	var delays []time.Duration
	attempts := 0
	lastErr := errors.New("still broken")

	_, err := fetchWithRetry(context.Background(), 3, time.Second, recordingSleep(&delays), func(context.Context) (int, error) {
		attempts++
		return 0, lastErr
	})
	// maxRetries=3 means 4 attempts total
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
	// last error is returned untouched, not wrapped
	if err != lastErr {
		t.Errorf("err = %v, want the exact last error", err)
	}
	want := []time.Duration{time.Second, 1500 * time.Millisecond, 2250 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestFetchWithRetryDelayCap(t *testing.T) {
	var delays []time.Duration

	fetchWithRetry(context.Background(), 3, 8*time.Second, recordingSleep(&delays), func(context.Context) (int, error) {
		return 0, errors.New("nope")
	})
	// 8s, then 12s capped to 10s, then stays at 10s
	want := []time.Duration{8 * time.Second, 10 * time.Second, 10 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestFetchWithRetryNoRetries(t *testing.T) {
	var delays []time.Duration
	attempts := 0

	fetchWithRetry(context.Background(), 0, time.Second, recordingSleep(&delays), func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("nope")
	})
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("delays = %v, want none", delays)
	}
}

func TestFetchWithRetryCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	_, err := fetchWithRetry(ctx, 5, time.Second, func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}, func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 before cancellation", attempts)
	}
}
