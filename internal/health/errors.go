package health

import "errors"

// Sentinel errors for health tracking.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and rejecting requests.
	ErrCircuitOpen = errors.New("health: circuit breaker is open")

	// ErrCameraUnhealthy is returned when a camera is marked as unhealthy.
	ErrCameraUnhealthy = errors.New("health: camera is unhealthy")
)
