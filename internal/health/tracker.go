package health

import (
	"sync"

	"github.com/rs/zerolog"
)

// Tracker manages per-camera circuit breakers.
type Tracker struct {
	circuits map[string]*CircuitBreaker
	logger   *zerolog.Logger
	config   CircuitBreakerConfig
	mu       sync.RWMutex
}

// NewTracker creates a new Tracker with the given configuration.
func NewTracker(cfg CircuitBreakerConfig, logger *zerolog.Logger) *Tracker {
	return &Tracker{
		circuits: make(map[string]*CircuitBreaker),
		config:   cfg,
		logger:   logger,
	}
}

// GetOrCreateCircuit returns the circuit breaker for a camera, creating it if necessary.
func (t *Tracker) GetOrCreateCircuit(camera string) *CircuitBreaker {
	// Fast path: check if circuit exists with read lock
	t.mu.RLock()
	cb, exists := t.circuits[camera]
	t.mu.RUnlock()

	if exists {
		return cb
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if cb, exists = t.circuits[camera]; exists {
		return cb
	}

	cb = NewCircuitBreaker(camera, t.config, t.logger)
	t.circuits[camera] = cb

	if t.logger != nil {
		t.logger.Debug().
			Str("camera", camera).
			Msg("created circuit breaker")
	}

	return cb
}

// IsHealthy reports whether a camera's circuit allows traffic.
//
// A camera is considered healthy if its circuit is:
//   - CLOSED: normal operation, requests flow through
//   - HALF-OPEN: testing recovery, probe requests are allowed
//
// A camera is unhealthy only if the circuit is OPEN.
func (t *Tracker) IsHealthy(camera string) bool {
	return t.GetOrCreateCircuit(camera).State() != StateOpen
}

// GetState returns the current state of a camera's circuit breaker.
// Returns StateClosed if no circuit exists for the camera (healthy by default).
func (t *Tracker) GetState(camera string) State {
	t.mu.RLock()
	cb, exists := t.circuits[camera]
	t.mu.RUnlock()

	if !exists {
		return StateClosed
	}
	return cb.State()
}

// RecordSuccess records a successful request for a camera.
func (t *Tracker) RecordSuccess(camera string) {
	t.GetOrCreateCircuit(camera).ReportSuccess()
}

// RecordFailure records a failed request for a camera.
func (t *Tracker) RecordFailure(camera string, err error) {
	t.GetOrCreateCircuit(camera).ReportFailure(err)
}

// Cameras returns the names of all cameras with circuits.
func (t *Tracker) Cameras() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.circuits))
	for name := range t.circuits {
		names = append(names, name)
	}
	return names
}
