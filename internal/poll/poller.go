// Package poll drives the periodic camera update loop for ipcamctl monitor.
package poll

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/cache"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/health"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/ratelimit"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/stream"
)

// motionSensor is the IP Webcam sensor reporting motion activity.
const motionSensor = "motion_active"

// Default loop timing.
const (
	DefaultInterval = 10 * time.Second
	eventBuffer     = 64
)

// CameraClient is the slice of the ipcam.Client API the poller needs.
type CameraClient interface {
	Update(ctx context.Context) error
	CurrentSettings() (ipcam.Settings, error)
	EnabledSensors() ([]string, error)
	SensorValue(name string) (float64, error)
	Snapshot(ctx context.Context) ([]byte, error)
}

// Archiver stores snapshots of cameras that detected motion.
type Archiver interface {
	StoreSnapshot(ctx context.Context, camera string, capturedAt time.Time, jpeg []byte) (string, error)
}

// target is one registered camera with its request budget.
type target struct {
	client  CameraClient
	limiter ratelimit.RateLimiter
	name    string
}

// Poller polls all registered cameras on a fixed interval and publishes the
// results as stream events. Cameras whose circuit is open are skipped until
// the health checker closes it again.
type Poller struct {
	tracker  *health.Tracker
	store    cache.Cache
	archiver Archiver
	events   chan stream.Event
	logger   zerolog.Logger
	targets  []target
	interval time.Duration
	jitter   time.Duration
	mu       sync.Mutex
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the time between poll rounds.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithJitter sets the random startup delay bound. Zero disables jitter.
func WithJitter(d time.Duration) Option {
	return func(p *Poller) {
		p.jitter = d
	}
}

// WithCache stores the latest poll result per camera in the given cache.
func WithCache(store cache.Cache) Option {
	return func(p *Poller) {
		p.store = store
	}
}

// WithArchiver uploads a snapshot whenever a poll sees motion.
func WithArchiver(a Archiver) Option {
	return func(p *Poller) {
		p.archiver = a
	}
}

// WithLogger sets the poller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// NewPoller creates a poller reporting camera health to tracker.
func NewPoller(tracker *health.Tracker, opts ...Option) *Poller {
	p := &Poller{
		tracker:  tracker,
		events:   make(chan stream.Event, eventBuffer),
		interval: DefaultInterval,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("component", "poller").Logger()
	return p
}

// AddCamera registers a camera. A nil limiter means unlimited requests.
func (p *Poller) AddCamera(name string, client CameraClient, limiter ratelimit.RateLimiter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.targets = append(p.targets, target{name: name, client: client, limiter: limiter})
}

// Events returns the stream of poll results. The channel is closed when
// Run returns.
func (p *Poller) Events() <-chan stream.Event {
	return p.events
}

// Run polls all cameras every interval until ctx is canceled. An optional
// random delay up to the jitter bound is applied before the first round so
// several monitors do not hit the phones in lockstep.
func (p *Poller) Run(ctx context.Context) error {
	defer close(p.events)

	if p.jitter > 0 {
		delay := randomDelay(p.jitter)
		p.logger.Debug().Dur("delay", delay).Msg("applying startup jitter")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	// First round right away, then on the ticker
	p.pollAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

// pollAll polls every registered camera concurrently and waits for the round
// to finish.
func (p *Poller) pollAll(ctx context.Context) {
	p.mu.Lock()
	targets := make([]target, len(p.targets))
	copy(targets, p.targets)
	p.mu.Unlock()

	var wg sync.WaitGroup
	for _, tgt := range targets {
		wg.Add(1)
		go func(tgt target) {
			defer wg.Done()
			p.pollOne(ctx, tgt)
		}(tgt)
	}
	wg.Wait()
}

// pollOne performs a single camera update and publishes the result.
func (p *Poller) pollOne(ctx context.Context, tgt target) {
	if !p.tracker.IsHealthy(tgt.name) {
		p.logger.Debug().Str("camera", tgt.name).Msg("circuit open, skipping poll")
		p.publish(stream.Event{Camera: tgt.name, At: time.Now(), Err: health.ErrCameraUnhealthy})
		return
	}

	if tgt.limiter != nil && !tgt.limiter.Allow(ctx) {
		p.logger.Warn().Str("camera", tgt.name).Msg("request budget exhausted, skipping poll")
		return
	}

	event := stream.Event{Camera: tgt.name, At: time.Now()}

	if err := tgt.client.Update(ctx); err != nil {
		p.tracker.RecordFailure(tgt.name, err)
		event.Err = err
		p.publish(event)
		return
	}
	p.tracker.RecordSuccess(tgt.name)

	event.Settings, event.Sensors = p.collectState(tgt)
	event.Motion = motionDetected(event)

	p.cacheEvent(ctx, event)
	if event.Motion && p.archiver != nil {
		p.archiveSnapshot(ctx, tgt, event.At)
	}

	p.publish(event)
}

// collectState reads settings and sensor values after a successful update.
// Per-sensor read errors are logged and skipped.
func (p *Poller) collectState(tgt target) (ipcam.Settings, map[string]float64) {
	settings, err := tgt.client.CurrentSettings()
	if err != nil {
		p.logger.Warn().Err(err).Str("camera", tgt.name).Msg("failed to read settings")
		settings = ipcam.Settings{}
	}

	names, err := tgt.client.EnabledSensors()
	if err != nil {
		p.logger.Warn().Err(err).Str("camera", tgt.name).Msg("failed to list sensors")
		return settings, nil
	}

	sensors := make(map[string]float64, len(names))
	for _, name := range names {
		value, err := tgt.client.SensorValue(name)
		if err != nil {
			p.logger.Debug().Err(err).Str("camera", tgt.name).Str("sensor", name).Msg("sensor has no reading")
			continue
		}
		sensors[name] = value
	}
	return settings, sensors
}

// motionDetected reports whether the event shows motion, preferring the
// motion sensor and falling back to the status flag.
func motionDetected(event stream.Event) bool {
	if value, ok := event.Sensors[motionSensor]; ok {
		return value > 0
	}
	if active, ok := ipcam.Settings(event.Settings).Bool(motionSensor); ok {
		return active
	}
	return false
}

// cacheEvent stores the poll result as a JSON document under status:{camera}.
func (p *Poller) cacheEvent(ctx context.Context, event stream.Event) {
	if p.store == nil {
		return
	}

	doc := "{}"
	var err error
	for _, set := range []struct {
		value any
		path  string
	}{
		{event.At.UTC().Format(time.RFC3339Nano), "at"},
		{event.Motion, "motion"},
		{map[string]any(event.Settings), "settings"},
		{event.Sensors, "sensors"},
	} {
		doc, err = sjson.Set(doc, set.path, set.value)
		if err != nil {
			p.logger.Warn().Err(err).Str("camera", event.Camera).Msg("failed to encode poll result")
			return
		}
	}

	if err := p.store.Set(ctx, "status:"+event.Camera, []byte(doc)); err != nil {
		p.logger.Warn().Err(err).Str("camera", event.Camera).Msg("failed to cache poll result")
	}
}

// archiveSnapshot grabs a still frame and uploads it.
func (p *Poller) archiveSnapshot(ctx context.Context, tgt target, capturedAt time.Time) {
	jpeg, err := tgt.client.Snapshot(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Str("camera", tgt.name).Msg("failed to capture motion snapshot")
		return
	}

	key, err := p.archiver.StoreSnapshot(ctx, tgt.name, capturedAt, jpeg)
	if err != nil {
		p.logger.Warn().Err(err).Str("camera", tgt.name).Msg("failed to archive motion snapshot")
		return
	}
	p.logger.Info().Str("camera", tgt.name).Str("key", key).Msg("motion snapshot archived")
}

// publish sends the event unless the buffer is full, in which case the event
// is dropped so a slow consumer cannot stall the poll loop.
func (p *Poller) publish(event stream.Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn().Str("camera", event.Camera).Msg("event buffer full, dropping poll result")
	}
}

// randomDelay returns a cryptographically random duration in [0, maxDur).
func randomDelay(maxDur time.Duration) time.Duration {
	if maxDur <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(maxDur)))
	if err != nil {
		return maxDur / 2
	}
	return time.Duration(n.Int64())
}
