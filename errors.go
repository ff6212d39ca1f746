package ipcam

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	// ErrUnauthorized is returned when the camera rejects the configured credentials.
	ErrUnauthorized = errors.New("ipcam: incorrect username or password")

	// ErrCannotConnect is returned when the camera cannot be reached.
	// The underlying transport error is attached via %w wrapping.
	ErrCannotConnect = errors.New("ipcam: cannot connect to camera")

	// ErrCommandRejected is returned when a control endpoint answers with
	// anything other than "Ok".
	ErrCommandRejected = errors.New("ipcam: camera rejected command")

	// ErrNotUpdated is returned by accessors that need status or sensor data
	// before Update has completed successfully.
	ErrNotUpdated = errors.New("ipcam: no data, call Update first")

	// ErrSensorNotFound is returned when a sensor name is not present in the
	// last fetched sensor document.
	ErrSensorNotFound = errors.New("ipcam: sensor not found")

	// ErrNoReadings is returned when a sensor exists but has reported no data yet.
	ErrNoReadings = errors.New("ipcam: sensor has no readings")
)

// StatusError is returned when the camera answers with an unexpected HTTP status.
type StatusError struct {
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ipcam: unexpected status %d: %s", e.Code, e.Status)
}

// InvalidOrientationError is returned when an orientation is not one of the
// values the camera understands.
type InvalidOrientationError struct {
	Orientation Orientation
}

func (e InvalidOrientationError) Error() string {
	return fmt.Sprintf("ipcam: invalid orientation %q", string(e.Orientation))
}

// InvalidSceneModeError is returned when a scene mode is not advertised by the
// camera in its available settings.
type InvalidSceneModeError struct {
	Mode string
}

func (e InvalidSceneModeError) Error() string {
	return fmt.Sprintf("ipcam: invalid scene mode %q", e.Mode)
}
