package health_test

import (
	"errors"
	"testing"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/health"
)

func newTestTracker() *health.Tracker {
	cfg := health.CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenDurationMS:   60000,
		HalfOpenProbes:   1,
	}
	return health.NewTracker(cfg, nil)
}

func TestTrackerCreatesCircuitsLazily(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker()

	if len(tracker.Cameras()) != 0 {
		t.Error("expected no circuits before first use")
	}

	cb := tracker.GetOrCreateCircuit("hallway")
	if cb == nil {
		t.Fatal("expected non-nil circuit breaker")
	}

	// Same instance on second call.
	if tracker.GetOrCreateCircuit("hallway") != cb {
		t.Error("expected the same circuit instance per camera")
	}

	if len(tracker.Cameras()) != 1 {
		t.Errorf("expected 1 circuit, got %d", len(tracker.Cameras()))
	}
}

func TestTrackerUnknownCameraIsHealthy(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker()

	if tracker.GetState("unknown") != health.StateClosed {
		t.Error("expected CLOSED state for unknown camera")
	}
	if !tracker.IsHealthy("unknown") {
		t.Error("expected unknown camera to be healthy")
	}
}

func TestTrackerRecordsFailuresPerCamera(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker()
	offline := errors.New("camera offline")

	tracker.RecordFailure("hallway", offline)
	tracker.RecordFailure("hallway", offline)

	if tracker.GetState("hallway") != health.StateOpen {
		t.Errorf("expected hallway circuit OPEN, got %s", tracker.GetState("hallway"))
	}
	if tracker.IsHealthy("hallway") {
		t.Error("expected hallway to be unhealthy")
	}

	// Other cameras are unaffected.
	if !tracker.IsHealthy("garage") {
		t.Error("expected garage to stay healthy")
	}
}

func TestTrackerRecordSuccessResetsFailureStreak(t *testing.T) {
	t.Parallel()

	tracker := newTestTracker()
	offline := errors.New("camera offline")

	tracker.RecordFailure("hallway", offline)
	tracker.RecordSuccess("hallway")
	tracker.RecordFailure("hallway", offline)

	// Streak was broken, threshold of 2 never reached consecutively.
	if tracker.GetState("hallway") != health.StateClosed {
		t.Errorf("expected hallway circuit CLOSED, got %s", tracker.GetState("hallway"))
	}
}
