package ipcam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAndCurrentSettings(t *testing.T) {
	var paths []string
	ts := cameraServer(t, &paths)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	assert.Equal(t, []string{"/status.json?show_avail=1", "/sensors.json"}, paths)

	settings, err := c.CurrentSettings()
	require.NoError(t, err)

	quality, ok := settings.Float("quality")
	assert.True(t, ok)
	assert.InDelta(t, 49.0, quality, 0.001)

	ffc, ok := settings.Bool("ffc")
	assert.True(t, ok)
	assert.False(t, ffc)

	nightVision, ok := settings.Bool("night_vision")
	assert.True(t, ok)
	assert.True(t, nightVision)

	orientation, ok := settings.String("orientation")
	assert.True(t, ok)
	assert.Equal(t, "landscape", orientation)
}

func TestAvailableSettings(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	available, err := c.AvailableSettings()
	require.NoError(t, err)

	assert.Equal(t, []any{1.0, 100.0}, available["quality"])
	assert.Equal(t, []any{"auto", "night", "party"}, available["scenemode"])
	assert.Equal(t, []any{true, false}, available["ffc"])
}

func TestEnabledSettings(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	keys, err := c.EnabledSettings()
	require.NoError(t, err)
	assert.Equal(t, []string{"quality", "ffc", "night_vision", "orientation", "zoom"}, keys)
}

func TestAccessorsBeforeUpdate(t *testing.T) {
	c := NewClient("cam.local")

	_, err := c.CurrentSettings()
	assert.ErrorIs(t, err, ErrNotUpdated)

	_, err = c.AvailableSettings()
	assert.ErrorIs(t, err, ErrNotUpdated)

	_, err = c.EnabledSettings()
	assert.ErrorIs(t, err, ErrNotUpdated)

	_, err = c.EnabledSensors()
	assert.ErrorIs(t, err, ErrNotUpdated)

	_, err = c.SensorValue("light")
	assert.ErrorIs(t, err, ErrNotUpdated)
}

func TestUpdateKeepsPreviousDataOnFailure(t *testing.T) {
	healthy := true
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/status.json":
			_, _ = w.Write([]byte(testStatusDoc))
		case "/sensors.json":
			_, _ = w.Write([]byte(testSensorsDoc))
		}
	}))
	defer ts.Close()

	c := testClient(t, ts)
	require.NoError(t, c.Update(context.Background()))

	healthy = false
	err := c.Update(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))

	// Old documents survive the failed refresh.
	settings, err := c.CurrentSettings()
	require.NoError(t, err)
	assert.NotEmpty(t, settings)
}

func TestUpdateRejectsMalformedDocuments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	c := testClient(t, ts)
	assert.Error(t, c.Update(context.Background()))
}

func TestCoerceSetting(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"49", 49.0},
		{"0.5", 0.5},
		{"-3", -3.0},
		{"on", true},
		{"off", false},
		{"landscape", "landscape"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceSetting(tt.raw))
		})
	}
}
