package config

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	ErrCameraNameRequired = errors.New("config: camera name is required")
	ErrCameraHostRequired = errors.New("config: camera host is required")
	ErrNoCameras          = errors.New("config: no cameras configured")
)

// InvalidPortError is returned when a camera port is outside the valid range.
type InvalidPortError struct {
	Port int
}

func (e InvalidPortError) Error() string {
	return fmt.Sprintf("config: port must be 0-65535, got %d", e.Port)
}

// DuplicateCameraError is returned when two cameras share a name.
type DuplicateCameraError struct {
	Name string
}

func (e DuplicateCameraError) Error() string {
	return fmt.Sprintf("config: duplicate camera name %q", e.Name)
}

// UnsupportedFormatError is returned for config files with an unknown extension.
type UnsupportedFormatError struct {
	Path string
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("config: unsupported config format %q (want .yaml, .yml or .toml)", e.Path)
}
