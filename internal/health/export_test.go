package health

// Test helpers exposing internals to the external test package.

// NewTestBreaker creates a CircuitBreaker with raw config values for tests.
func NewTestBreaker(failureThreshold, openDurationMS, halfOpenProbes int) *CircuitBreaker {
	cfg := CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		OpenDurationMS:   openDurationMS,
		HalfOpenProbes:   halfOpenProbes,
	}
	return NewCircuitBreaker("test-camera", cfg, nil)
}
