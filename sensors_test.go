package ipcam

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledSensors(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	sensors, err := c.EnabledSensors()
	require.NoError(t, err)
	assert.Equal(t, []string{"light", "motion_active", "accel"}, sensors)
}

func TestSensor(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	sensor, err := c.Sensor("accel")
	require.NoError(t, err)

	assert.Equal(t, "accel", sensor.Name)
	assert.Equal(t, "m/s2", sensor.Unit)
	require.Len(t, sensor.Readings, 1)

	reading, ok := sensor.Latest()
	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(1700000000000), reading.At)
	assert.Equal(t, []float64{0.1, 0.2, 9.8}, reading.Values)
}

func TestSensorNotFound(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	_, err := c.Sensor("barometer")
	assert.ErrorIs(t, err, ErrSensorNotFound)

	_, err = c.SensorUnit("barometer")
	assert.ErrorIs(t, err, ErrSensorNotFound)
}

func TestSensorValue(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	// Latest reading wins.
	value, err := c.SensorValue("light")
	require.NoError(t, err)
	assert.InDelta(t, 121.0, value, 0.001)

	// Multi-axis sensors report their first axis.
	value, err = c.SensorValue("accel")
	require.NoError(t, err)
	assert.InDelta(t, 0.1, value, 0.001)
}

func TestSensorUnit(t *testing.T) {
	ts := cameraServer(t, nil)
	c := testClient(t, ts)

	require.NoError(t, c.Update(context.Background()))

	unit, err := c.SensorUnit("light")
	require.NoError(t, err)
	assert.Equal(t, "lx", unit)
}

func TestSensorLatestEmpty(t *testing.T) {
	var s Sensor
	_, ok := s.Latest()
	assert.False(t, ok)
}
