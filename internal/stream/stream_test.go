package stream_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/ro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/stream"
)

var errPollFailed = errors.New("poll failed")

func testEvents() []stream.Event {
	return []stream.Event{
		{Camera: "front", Motion: false},
		{Camera: "front", Motion: true},
		{Camera: "garage", Motion: true},
		{Camera: "front", Err: errPollFailed},
	}
}

func TestHealthy(t *testing.T) {
	events, err := stream.Collect(
		ro.Pipe1(ro.FromSlice(testEvents()), stream.Healthy()),
	)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.NoError(t, e.Err)
	}
}

func TestFailures(t *testing.T) {
	events, err := stream.Collect(
		ro.Pipe1(ro.FromSlice(testEvents()), stream.Failures()),
	)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, errPollFailed)
}

func TestForCamera(t *testing.T) {
	events, err := stream.Collect(
		ro.Pipe1(ro.FromSlice(testEvents()), stream.ForCamera("garage")),
	)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "garage", events[0].Camera)
}

func TestMotionOnly(t *testing.T) {
	input := testEvents()
	// A failed poll with the motion flag set must not count as motion
	input = append(input, stream.Event{Camera: "front", Motion: true, Err: errPollFailed})

	events, err := stream.Collect(
		ro.Pipe1(ro.FromSlice(input), stream.MotionOnly()),
	)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.True(t, e.Motion)
		assert.NoError(t, e.Err)
	}
}

func TestFromChannelCompletes(t *testing.T) {
	ch := make(chan stream.Event, 2)
	ch <- stream.Event{Camera: "front"}
	ch <- stream.Event{Camera: "garage"}
	close(ch)

	events, err := stream.Collect(stream.FromChannel(ch))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestBatch(t *testing.T) {
	source := ro.FromSlice([]stream.Event{
		{Camera: "front"},
		{Camera: "front"},
		{Camera: "front"},
	})

	batches, err := ro.Collect(stream.Batch(source, 2, time.Second))
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
}

func TestLogEventsPassesThrough(t *testing.T) {
	logger := zerolog.Nop()
	events, err := stream.Collect(
		ro.Pipe1(ro.FromSlice(testEvents()), stream.LogEvents(&logger)),
	)
	require.NoError(t, err)
	assert.Len(t, events, len(testEvents()))
}

func TestSubscribeCallbacks(t *testing.T) {
	var (
		got      []stream.Event
		complete bool
	)

	sub := stream.Subscribe(
		ro.FromSlice(testEvents()),
		func(e stream.Event) { got = append(got, e) },
		nil,
		func() { complete = true },
	)
	defer sub.Unsubscribe()

	assert.Len(t, got, len(testEvents()))
	assert.True(t, complete)
}
