package ratelimit

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestTokenBucketLimiterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Property 1: constructor always returns a usable limiter
	properties.Property("constructor returns non-nil", prop.ForAll(
		func(rpm int) bool {
			return NewTokenBucketLimiter(rpm) != nil
		},
		gen.IntRange(-100, 1000),
	))

	// Property 2: non-positive limits become unlimited
	properties.Property("non-positive limits become unlimited", prop.ForAll(
		func(rpm int) bool {
			limiter := NewTokenBucketLimiter(rpm)
			return limiter.GetUsage().RequestsLimit == unlimitedRPM
		},
		gen.IntRange(-1000, 0),
	))

	// Property 3: a fresh limiter always admits the first request
	properties.Property("first request is always allowed", prop.ForAll(
		func(rpm int) bool {
			limiter := NewTokenBucketLimiter(rpm)
			return limiter.Allow(context.Background())
		},
		gen.IntRange(1, 1000),
	))

	// Property 4: usage accounting is internally consistent
	properties.Property("used + remaining = limit", prop.ForAll(
		func(rpm, calls int) bool {
			limiter := NewTokenBucketLimiter(rpm)
			for i := 0; i < calls; i++ {
				limiter.Allow(context.Background())
			}
			usage := limiter.GetUsage()
			return usage.RequestsUsed+usage.RequestsRemaining == usage.RequestsLimit
		},
		gen.IntRange(1, 100),
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}
