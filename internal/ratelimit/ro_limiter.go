// Reactive rate limiting using samber/ro.
//
// Reactive limiting is an alternative to TokenBucketLimiter for stream
// processing scenarios: it applies backpressure inside an observable
// pipeline instead of gating individual calls. The monitor loop uses it to
// cap how fast camera updates flow downstream.
package ratelimit

import (
	"time"

	"github.com/samber/ro"
	roratelimit "github.com/samber/ro/plugins/ratelimit/native"
)

// DefaultInterval is the default rate limit interval (1 minute).
const DefaultInterval = time.Minute

// normalizeInterval returns the interval, defaulting to DefaultInterval if zero.
func normalizeInterval(interval time.Duration) time.Duration {
	if interval == 0 {
		return DefaultInterval
	}
	return interval
}

// Limit applies rate limiting to an observable stream using the ro native
// plugin. Items exceeding the rate limit are delayed (backpressure).
//
// The keyGetter function extracts a key from each item; items with the same
// key share a rate limit bucket. Use a constant key for global limiting.
//
// Example:
//
//	// At most 6 updates per minute per camera
//	limited := ratelimit.Limit(updates, 6, time.Minute, func(u Update) string {
//		return u.Camera
//	})
func Limit[T any](
	source ro.Observable[T],
	count int64,
	interval time.Duration,
	keyGetter func(T) string,
) ro.Observable[T] {
	return ro.Pipe1(
		source,
		roratelimit.NewRateLimiter[T](count, normalizeInterval(interval), keyGetter),
	)
}
