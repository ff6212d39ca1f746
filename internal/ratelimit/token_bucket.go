package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// unlimitedRPM stands in for "no limit configured".
const unlimitedRPM = 1_000_000

// TokenBucketLimiter implements RateLimiter using golang.org/x/time/rate.
//
// The token bucket algorithm provides smooth rate limiting without the
// boundary burst problem of fixed windows. Burst is set equal to the limit
// so a quiet camera can absorb a flurry of CLI calls, then refill gradually.
//
// Thread safety: all methods are safe for concurrent use.
type TokenBucketLimiter struct {
	limiter  *rate.Limiter
	rpmLimit int
	mu       sync.RWMutex // protects limiter swap on SetLimit
}

var _ RateLimiter = (*TokenBucketLimiter)(nil)

// NewTokenBucketLimiter creates a token bucket limiter allowing rpm requests
// per minute. Zero or negative means unlimited.
func NewTokenBucketLimiter(rpm int) *TokenBucketLimiter {
	if rpm <= 0 {
		rpm = unlimitedRPM
	}

	return &TokenBucketLimiter{
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		rpmLimit: rpm,
	}
}

// Allow checks if a request is allowed under the current limit.
// This is a non-blocking operation.
func (l *TokenBucketLimiter) Allow(_ context.Context) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limiter.Allow()
}

// Wait blocks until a request is allowed or the context is canceled.
// Returns ErrContextCancelled if the context is canceled while waiting.
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	l.mu.RLock()
	limiter := l.limiter
	l.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		// With a single token the only failures are a canceled context or a
		// deadline too close for the next refill; both mean the caller's
		// context ran out.
		return ErrContextCancelled
	}
	return nil
}

// SetLimit replaces the limiter with one at the new per-minute rate.
// Zero or negative means unlimited.
func (l *TokenBucketLimiter) SetLimit(rpm int) {
	if rpm <= 0 {
		rpm = unlimitedRPM
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
	l.rpmLimit = rpm
}

// GetUsage returns the current usage statistics.
//
// golang.org/x/time/rate does not expose remaining tokens directly;
// Tokens() gives a float approximation that is accurate enough for
// reporting and tests.
func (l *TokenBucketLimiter) GetUsage() Usage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	remaining := clampUsage(int(l.limiter.Tokens()), l.rpmLimit)

	return Usage{
		RequestsUsed:      l.rpmLimit - remaining,
		RequestsLimit:     l.rpmLimit,
		RequestsRemaining: remaining,
	}
}

func clampUsage(remaining, limit int) int {
	if remaining < 0 {
		return 0
	}
	if remaining > limit {
		return limit
	}
	return remaining
}
