// Camera recovery checking for tripped circuits.
//
// When a circuit opens due to failures, the checker runs periodic lightweight
// checks against the camera's status endpoint. While the circuit is OPEN the
// checks only report reachability; gobreaker ignores successes until the
// cooldown expires. Once the circuit is HALF-OPEN a successful check counts
// as the trial request and closes the circuit without waiting for the next
// poll round. Healthy (CLOSED) cameras are not checked.
package health

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CameraCheck defines how to check if a camera is reachable.
// Implementations should be lightweight and fast.
type CameraCheck interface {
	// Check performs a reachability check against the camera.
	// Returns nil if reachable, error otherwise.
	Check(ctx context.Context) error

	// CameraName returns the name of the camera being checked.
	CameraName() string
}

// HTTPCheck probes a camera via an HTTP GET.
type HTTPCheck struct {
	name   string
	url    string
	client *http.Client
}

// NewHTTPCheck creates an HTTP-based camera check. A GET request is sent and
// a 2xx response counts as reachable. Auth failures (401) also count as
// reachable: the camera is up, only the credentials are wrong.
func NewHTTPCheck(name, url string, client *http.Client) *HTTPCheck {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPCheck{
		name:   name,
		url:    url,
		client: client,
	}
}

// Check performs the HTTP reachability check.
func (h *HTTPCheck) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("reachability check: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	ok := (resp.StatusCode >= 200 && resp.StatusCode < 300) ||
		resp.StatusCode == http.StatusUnauthorized
	if !ok {
		return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}
	return nil
}

// CameraName returns the name of the camera being checked.
func (h *HTTPCheck) CameraName() string {
	return h.name
}

// Checker monitors camera reachability and triggers recovery checks.
// It runs periodic probes against cameras with OPEN circuits to detect
// recovery faster than waiting for the full cooldown period.
type Checker struct {
	ctx     context.Context
	tracker *Tracker
	checks  map[string]CameraCheck
	logger  *zerolog.Logger
	cancel  context.CancelFunc
	config  CheckConfig
	wg      sync.WaitGroup
	mu      sync.RWMutex
}

// NewChecker creates a new Checker.
func NewChecker(tracker *Tracker, cfg CheckConfig, logger *zerolog.Logger) *Checker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Checker{
		tracker: tracker,
		config:  cfg,
		checks:  make(map[string]CameraCheck),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RegisterCamera adds a reachability check for a camera.
func (h *Checker) RegisterCamera(check CameraCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[check.CameraName()] = check
}

// Start begins periodic checking for all registered cameras.
// Should be called once after all cameras are registered.
func (h *Checker) Start() {
	if !h.config.IsEnabled() {
		if h.logger != nil {
			h.logger.Info().Msg("recovery checker disabled")
		}
		return
	}

	interval := h.config.GetInterval()
	// Jitter (0-2s) so a fleet of monitors does not probe in lockstep
	jitter := cryptoRandDuration(2 * time.Second)
	ticker := time.NewTicker(interval + jitter)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer ticker.Stop()

		if h.logger != nil {
			h.logger.Info().
				Dur("interval", interval).
				Dur("jitter", jitter).
				Msg("recovery checker started")
		}

		for {
			select {
			case <-h.ctx.Done():
				if h.logger != nil {
					h.logger.Info().Msg("recovery checker stopped")
				}
				return
			case <-ticker.C:
				h.checkAllCameras()
			}
		}
	}()
}

// Stop stops the checker and waits for the goroutine to finish.
func (h *Checker) Stop() {
	h.cancel()
	h.wg.Wait()
}

// checkAllCameras runs reachability checks for all cameras whose circuit
// is not CLOSED.
func (h *Checker) checkAllCameras() {
	h.mu.RLock()
	checks := make([]CameraCheck, 0, len(h.checks))
	for _, check := range h.checks {
		checks = append(checks, check)
	}
	h.mu.RUnlock()

	for _, check := range checks {
		name := check.CameraName()

		if h.tracker.GetState(name) == StateClosed {
			continue
		}

		ctx, cancel := context.WithTimeout(h.ctx, 5*time.Second)
		err := check.Check(ctx)
		cancel()

		if err != nil {
			if h.logger != nil {
				h.logger.Debug().
					Str("camera", name).
					Err(err).
					Msg("reachability check failed")
			}
			continue
		}

		if h.logger != nil {
			h.logger.Info().
				Str("camera", name).
				Msg("reachability check succeeded, recording success")
		}
		h.tracker.RecordSuccess(name)
	}
}

// cryptoRandDuration returns a cryptographically random duration between 0 and maxDur.
func cryptoRandDuration(maxDur time.Duration) time.Duration {
	if maxDur <= 0 {
		return 0
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	n := binary.LittleEndian.Uint64(b[:])
	//nolint:gosec // G115: maxDur is positive, safe conversion
	return time.Duration(n % uint64(maxDur))
}
