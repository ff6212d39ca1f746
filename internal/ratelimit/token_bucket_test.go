package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketAllowWithinBurst(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(10)
	ctx := context.Background()

	// Burst equals the limit, so 10 immediate requests pass.
	for i := 0; i < 10; i++ {
		if !limiter.Allow(ctx) {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}

	// The 11th is throttled.
	if limiter.Allow(ctx) {
		t.Error("request beyond burst should be denied")
	}
}

func TestTokenBucketUnlimited(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(0)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		if !limiter.Allow(ctx) {
			t.Fatalf("unlimited limiter denied request %d", i)
		}
	}

	if limiter.GetUsage().RequestsLimit != unlimitedRPM {
		t.Errorf("RequestsLimit = %d, want %d", limiter.GetUsage().RequestsLimit, unlimitedRPM)
	}
}

func TestTokenBucketWaitContextCanceled(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(1)
	ctx := context.Background()

	// Drain the bucket.
	if !limiter.Allow(ctx) {
		t.Fatal("first request should be allowed")
	}

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(waitCtx)
	if err != ErrContextCancelled {
		t.Errorf("Wait() error = %v, want ErrContextCancelled", err)
	}
}

func TestTokenBucketWaitCanceledContext(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())
	limiter.Allow(ctx)
	cancel()

	if err := limiter.Wait(ctx); err != ErrContextCancelled {
		t.Errorf("Wait() error = %v, want ErrContextCancelled", err)
	}
}

func TestTokenBucketWaitFreshLimiter(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(60)

	if err := limiter.Wait(context.Background()); err != nil {
		t.Errorf("Wait() on fresh limiter error = %v", err)
	}
}

func TestTokenBucketSetLimit(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(1)
	ctx := context.Background()

	limiter.Allow(ctx)
	if limiter.Allow(ctx) {
		t.Fatal("second request should be denied at rpm=1")
	}

	// Raising the limit replaces the bucket with a full one.
	limiter.SetLimit(100)
	if !limiter.Allow(ctx) {
		t.Error("request should be allowed after SetLimit raised the budget")
	}

	usage := limiter.GetUsage()
	if usage.RequestsLimit != 100 {
		t.Errorf("RequestsLimit = %d, want 100", usage.RequestsLimit)
	}
}

func TestTokenBucketGetUsage(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketLimiter(10)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		limiter.Allow(ctx)
	}

	usage := limiter.GetUsage()
	if usage.RequestsLimit != 10 {
		t.Errorf("RequestsLimit = %d, want 10", usage.RequestsLimit)
	}
	// Refill happens continuously; used is at least 3 of the 4 consumed.
	if usage.RequestsUsed < 3 {
		t.Errorf("RequestsUsed = %d, want >= 3", usage.RequestsUsed)
	}
	if usage.RequestsUsed+usage.RequestsRemaining != usage.RequestsLimit {
		t.Errorf("used %d + remaining %d != limit %d",
			usage.RequestsUsed, usage.RequestsRemaining, usage.RequestsLimit)
	}
}
