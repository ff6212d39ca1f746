package poll_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/cache"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/health"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/poll"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/stream"
)

var errCameraDown = errors.New("camera down")

type fakeCamera struct {
	updateErr error
	settings  ipcam.Settings
	sensors   map[string]float64
	snapshot  []byte

	mu          sync.Mutex
	updateCalls int
	snapCalls   int
}

func (f *fakeCamera) Update(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	return f.updateErr
}

func (f *fakeCamera) CurrentSettings() (ipcam.Settings, error) {
	if f.settings == nil {
		return ipcam.Settings{}, nil
	}
	return f.settings, nil
}

func (f *fakeCamera) EnabledSensors() ([]string, error) {
	names := make([]string, 0, len(f.sensors))
	for name := range f.sensors {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeCamera) SensorValue(name string) (float64, error) {
	value, ok := f.sensors[name]
	if !ok {
		return 0, ipcam.ErrSensorNotFound
	}
	return value, nil
}

func (f *fakeCamera) Snapshot(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapCalls++
	return f.snapshot, nil
}

type fakeArchiver struct {
	mu     sync.Mutex
	stored []string
}

func (f *fakeArchiver) StoreSnapshot(_ context.Context, camera string, _ time.Time, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, camera)
	return "snapshots/" + camera, nil
}

func newTracker(t *testing.T) *health.Tracker {
	t.Helper()
	logger := zerolog.Nop()
	return health.NewTracker(health.CircuitBreakerConfig{FailureThreshold: 2}, &logger)
}

// runRound runs the poller until the first round of events arrives.
func runRound(t *testing.T, p *poll.Poller, want int) []stream.Event {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	var events []stream.Event
	deadline := time.After(2 * time.Second)
	for len(events) < want {
		select {
		case e := <-p.Events():
			events = append(events, e)
		case <-deadline:
			t.Fatalf("got %d events, want %d", len(events), want)
		}
	}

	cancel()
	<-done
	return events
}

func TestPollerEmitsEvents(t *testing.T) {
	cam := &fakeCamera{
		settings: ipcam.Settings{"torch": false},
		sensors:  map[string]float64{"battery_level": 87},
	}

	p := poll.NewPoller(newTracker(t), poll.WithInterval(time.Hour))
	p.AddCamera("front", cam, nil)

	events := runRound(t, p, 1)
	e := events[0]
	assert.Equal(t, "front", e.Camera)
	assert.NoError(t, e.Err)
	assert.False(t, e.Motion)
	assert.Equal(t, 87.0, e.Sensors["battery_level"])
}

func TestPollerRecordsFailure(t *testing.T) {
	tracker := newTracker(t)
	cam := &fakeCamera{updateErr: errCameraDown}

	p := poll.NewPoller(tracker, poll.WithInterval(time.Hour))
	p.AddCamera("front", cam, nil)

	events := runRound(t, p, 1)
	require.ErrorIs(t, events[0].Err, errCameraDown)
}

func TestPollerSkipsOpenCircuit(t *testing.T) {
	tracker := newTracker(t)
	// Trip the circuit before the poller starts
	tracker.RecordFailure("front", errCameraDown)
	tracker.RecordFailure("front", errCameraDown)
	require.False(t, tracker.IsHealthy("front"))

	cam := &fakeCamera{}
	p := poll.NewPoller(tracker, poll.WithInterval(time.Hour))
	p.AddCamera("front", cam, nil)

	// The skipped camera still shows up in the stream as unhealthy.
	events := runRound(t, p, 1)
	assert.ErrorIs(t, events[0].Err, health.ErrCameraUnhealthy)
	assert.Equal(t, 0, cam.updateCalls)
}

func TestPollerMotionTriggersArchive(t *testing.T) {
	cam := &fakeCamera{
		sensors:  map[string]float64{"motion_active": 1},
		snapshot: []byte("jpeg"),
	}
	archiver := &fakeArchiver{}

	p := poll.NewPoller(newTracker(t),
		poll.WithInterval(time.Hour),
		poll.WithArchiver(archiver),
	)
	p.AddCamera("front", cam, nil)

	events := runRound(t, p, 1)
	assert.True(t, events[0].Motion)
	assert.Equal(t, []string{"front"}, archiver.stored)
	assert.Equal(t, 1, cam.snapCalls)
}

func TestPollerMotionFromStatusFlag(t *testing.T) {
	cam := &fakeCamera{settings: ipcam.Settings{"motion_active": true}}

	p := poll.NewPoller(newTracker(t), poll.WithInterval(time.Hour))
	p.AddCamera("front", cam, nil)

	events := runRound(t, p, 1)
	assert.True(t, events[0].Motion)
}

func TestPollerCachesResult(t *testing.T) {
	store, err := cache.New(&cache.Config{Mode: cache.ModeSingle})
	require.NoError(t, err)
	defer func() {
		_ = store.Close()
	}()

	cam := &fakeCamera{sensors: map[string]float64{"battery_level": 42}}

	p := poll.NewPoller(newTracker(t),
		poll.WithInterval(time.Hour),
		poll.WithCache(store),
	)
	p.AddCamera("front", cam, nil)

	runRound(t, p, 1)

	cached, err := store.Get(context.Background(), "status:front")
	require.NoError(t, err)
	assert.Equal(t, 42.0, gjson.GetBytes(cached, "sensors.battery_level").Float())
	assert.False(t, gjson.GetBytes(cached, "motion").Bool())
}

func TestPollerMultipleCameras(t *testing.T) {
	p := poll.NewPoller(newTracker(t), poll.WithInterval(time.Hour))
	p.AddCamera("front", &fakeCamera{}, nil)
	p.AddCamera("garage", &fakeCamera{updateErr: errCameraDown}, nil)

	events := runRound(t, p, 2)

	byCamera := map[string]stream.Event{}
	for _, e := range events {
		byCamera[e.Camera] = e
	}
	assert.NoError(t, byCamera["front"].Err)
	assert.ErrorIs(t, byCamera["garage"].Err, errCameraDown)
}
