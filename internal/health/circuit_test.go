package health_test

import (
	"errors"
	"testing"
	"time"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/health"
)

func TestNewCircuitBreakerDefaultSettings(t *testing.T) {
	t.Parallel()

	breaker := health.NewTestBreaker(0, 0, 0)

	if breaker == nil {
		t.Fatal("expected non-nil health.CircuitBreaker")
	}
	if breaker.Name() != "test-camera" {
		t.Errorf("expected name 'test-camera', got %q", breaker.Name())
	}
	if breaker.State() != health.StateClosed {
		t.Errorf("expected initial state CLOSED, got %s", breaker.State().String())
	}
}

func TestCircuitBreakerAllowWhenClosed(t *testing.T) {
	t.Parallel()

	breaker := health.NewTestBreaker(5, 1000, 3)

	done, err := breaker.Allow()
	if err != nil {
		t.Fatalf("expected Allow to succeed when closed, got error: %v", err)
	}
	if done == nil {
		t.Fatal("expected non-nil done function")
	}

	done(nil)

	if breaker.State() != health.StateClosed {
		t.Errorf("expected state CLOSED after success, got %s", breaker.State().String())
	}
}

func TestCircuitBreakerOpensAfterThresholdFailures(t *testing.T) {
	t.Parallel()

	breaker := health.NewTestBreaker(3, 1000, 1)
	testErr := errors.New("camera offline")

	for i := 0; i < 3; i++ {
		done, allowErr := breaker.Allow()
		if allowErr != nil {
			t.Fatalf("iteration %d: Allow failed before threshold: %v", i, allowErr)
		}
		done(testErr)
	}

	if breaker.State() != health.StateOpen {
		t.Errorf("expected state OPEN after 3 failures, got %s", breaker.State().String())
	}

	_, err := breaker.Allow()
	if !errors.Is(err, health.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen when circuit is open, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenAfterTimeout(t *testing.T) {
	t.Parallel()

	breaker := health.NewTestBreaker(1, 50, 1)

	done, err := breaker.Allow()
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	done(errors.New("camera offline"))

	if breaker.State() != health.StateOpen {
		t.Fatalf("expected state OPEN, got %s", breaker.State().String())
	}

	time.Sleep(80 * time.Millisecond)

	if breaker.State() != health.StateHalfOpen {
		t.Errorf("expected state HALF-OPEN after timeout, got %s", breaker.State().String())
	}

	// Successful probe closes the circuit again.
	done, err = breaker.Allow()
	if err != nil {
		t.Fatalf("Allow failed in half-open: %v", err)
	}
	done(nil)

	if breaker.State() != health.StateClosed {
		t.Errorf("expected state CLOSED after successful probe, got %s", breaker.State().String())
	}
}

func TestCircuitBreakerReportHelpers(t *testing.T) {
	t.Parallel()

	breaker := health.NewTestBreaker(2, 1000, 1)

	if !breaker.ReportSuccess() {
		t.Error("expected ReportSuccess to record while closed")
	}

	breaker.ReportFailure(errors.New("timeout"))
	breaker.ReportFailure(errors.New("timeout"))

	if breaker.State() != health.StateOpen {
		t.Fatalf("expected state OPEN, got %s", breaker.State().String())
	}

	// While open, nothing is recorded.
	if breaker.ReportSuccess() {
		t.Error("expected ReportSuccess to be skipped while open")
	}
	if breaker.ReportFailure(errors.New("timeout")) {
		t.Error("expected ReportFailure to be skipped while open")
	}
}
