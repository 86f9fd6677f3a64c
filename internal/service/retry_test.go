package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
)

func fastPolicy(attempts int) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	p := fastPolicy(3)
	calls := 0

	err := p.Execute(context.Background(), func(_ context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetry_RetriesRetryableErrors(t *testing.T) {
	p := fastPolicy(3)
	calls := 0

	err := p.Execute(context.Background(), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return core.ErrRateLimit("slow down")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	p := fastPolicy(3)
	calls := 0

	err := p.Execute(context.Background(), func(_ context.Context) error {
		calls++
		return core.ErrValidation("BAD_INPUT", "nope")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 for non-retryable error", calls)
	}
	if IsRetryExhausted(err) {
		t.Fatal("non-retryable failure should not be reported as exhausted")
	}
}

func TestRetry_Exhaustion(t *testing.T) {
	p := fastPolicy(2)

	err := p.Execute(context.Background(), func(_ context.Context) error {
		return core.ErrTimeout("still slow")
	})
	if !IsRetryExhausted(err) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Attempts != 2 {
		t.Fatalf("unexpected exhausted error: %v", err)
	}
	if core.CategoryOf(errors.Unwrap(err)) != core.ErrCatTimeout {
		t.Fatal("expected last error preserved via Unwrap")
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	p := &RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Execute(ctx, func(_ context.Context) error {
			return core.ErrTimeout("transient")
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Execute did not return after cancellation")
	}
}

func TestCalculateDelay_ExponentialWithCap(t *testing.T) {
	p := &RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
		Multiplier:  2.0,
	}

	if d := p.CalculateDelayNoJitter(1); d != time.Second {
		t.Fatalf("attempt 1 delay = %v", d)
	}
	if d := p.CalculateDelayNoJitter(2); d != 2*time.Second {
		t.Fatalf("attempt 2 delay = %v", d)
	}
	if d := p.CalculateDelayNoJitter(4); d != 4*time.Second {
		t.Fatalf("attempt 4 delay = %v, want capped at 4s", d)
	}
}

func TestCalculateDelay_JitterStaysInBounds(t *testing.T) {
	p := &RetryPolicy{
		MaxAttempts:  3,
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.2,
		Multiplier:   2.0,
	}

	for i := 0; i < 100; i++ {
		d := p.CalculateDelay(2)
		if d < 1600*time.Millisecond || d > 2400*time.Millisecond {
			t.Fatalf("jittered delay %v outside [1.6s, 2.4s]", d)
		}
	}
}
