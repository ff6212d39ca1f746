// Package stream provides reactive pipelines for camera poll events using
// samber/ro.
//
// Use it for the monitor loop and other event-driven flows. For bounded data
// transformations prefer samber/lo; streams are not worth the overhead there.
package stream

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/ro"
)

// Event is one poll result for a camera. Err is set when the poll failed;
// the remaining fields describe the camera state when it succeeded.
type Event struct {
	At       time.Time
	Settings map[string]any
	Sensors  map[string]float64
	Err      error
	Camera   string
	Motion   bool
}

// Failed reports whether this event describes a failed poll.
func (e Event) Failed() bool {
	return e.Err != nil
}

// FromChannel creates an Observable of poll events from a channel.
// The Observable completes when the channel is closed.
func FromChannel(ch <-chan Event) ro.Observable[Event] {
	return ro.FromChannel(ch)
}

// Healthy keeps only events from successful polls.
func Healthy() func(ro.Observable[Event]) ro.Observable[Event] {
	return ro.Filter(func(e Event) bool {
		return !e.Failed()
	})
}

// Failures keeps only events from failed polls.
func Failures() func(ro.Observable[Event]) ro.Observable[Event] {
	return ro.Filter(Event.Failed)
}

// ForCamera keeps only events from the named camera.
func ForCamera(name string) func(ro.Observable[Event]) ro.Observable[Event] {
	return ro.Filter(func(e Event) bool {
		return e.Camera == name
	})
}

// MotionOnly keeps only successful events where motion was detected.
func MotionOnly() func(ro.Observable[Event]) ro.Observable[Event] {
	return ro.Filter(func(e Event) bool {
		return !e.Failed() && e.Motion
	})
}

// Batch buffers events until either count events arrived or the duration
// elapsed, then emits them as a slice. Used to write sensor history in
// chunks instead of per event.
func Batch(source ro.Observable[Event], count int, duration time.Duration) ro.Observable[[]Event] {
	return ro.Pipe1(source, ro.BufferWithTimeOrCount[Event](count, duration))
}

// LogEvents logs each event at Debug level without modifying the stream.
func LogEvents(logger *zerolog.Logger) func(ro.Observable[Event]) ro.Observable[Event] {
	return ro.DoOnNext(func(e Event) {
		logger.Debug().
			Str("camera", e.Camera).
			Time("at", e.At).
			Bool("motion", e.Motion).
			Err(e.Err).
			Msg("poll event")
	})
}

// Subscribe attaches the given callbacks to the stream and returns the
// subscription. Nil callbacks are replaced with no-ops.
func Subscribe(
	source ro.Observable[Event],
	onNext func(Event),
	onError func(error),
	onComplete func(),
) ro.Subscription {
	if onNext == nil {
		onNext = func(Event) {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}
	return source.Subscribe(ro.NewObserver(onNext, onError, onComplete))
}

// Collect drains the stream into a slice. Blocks until the stream completes
// or errors. Mostly useful in tests.
func Collect(source ro.Observable[Event]) ([]Event, error) {
	return ro.Collect(source)
}

// CollectWithContext drains the stream with cancellation support.
func CollectWithContext(ctx context.Context, source ro.Observable[Event]) ([]Event, context.Context, error) {
	return ro.CollectWithContext(ctx, source)
}
