// Package ratelimit throttles requests toward cameras.
//
// IP Webcam runs on a phone; aggressive polling visibly heats the device and
// starves the encoder. Each camera gets its own limiter keyed by the
// configured requests-per-minute budget.
//
// Two styles are provided:
//   - TokenBucketLimiter: synchronous limiter built on golang.org/x/time/rate,
//     for request/response call sites
//   - Limit: reactive rate limiting for observable streams (see ro_limiter.go)
//
// Basic usage:
//
//	limiter := ratelimit.NewTokenBucketLimiter(60) // 60 requests/minute
//
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
//	// talk to the camera
package ratelimit

import (
	"context"
	"errors"
)

// Common errors returned by rate limiters.
var (
	// ErrRateLimitExceeded is returned when a rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("ratelimit: rate limit exceeded")

	// ErrContextCancelled is returned when the context is canceled during a blocking operation.
	ErrContextCancelled = errors.New("ratelimit: context canceled")
)

// Usage represents the current usage and limit of a rate limiter.
type Usage struct {
	// RequestsUsed is the number of requests consumed in the current window.
	RequestsUsed int `json:"requests_used"`

	// RequestsLimit is the maximum number of requests allowed per minute.
	RequestsLimit int `json:"requests_limit"`

	// RequestsRemaining is the number of requests remaining in the current window.
	RequestsRemaining int `json:"requests_remaining"`
}

// RateLimiter defines the interface for request throttling.
// All implementations must be safe for concurrent use.
type RateLimiter interface {
	// Allow checks if a request is allowed under the current rate limit.
	// This is a non-blocking operation that returns immediately.
	Allow(ctx context.Context) bool

	// Wait blocks until a request is allowed or the context is canceled.
	// Returns ErrContextCancelled if the context is canceled before capacity
	// is available.
	Wait(ctx context.Context) error

	// SetLimit updates the per-minute request limit dynamically
	// (0 = unlimited). Used when config hot-reload changes a camera's budget.
	SetLimit(rpm int)

	// GetUsage returns the current usage statistics.
	GetUsage() Usage
}
