// Package config provides configuration loading and parsing for ipcamctl.
package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/archive"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/cache"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/health"
)

// Defaults for camera connections, matching the IP Webcam app out of the box.
const (
	DefaultCameraPort     = 8080
	DefaultTimeoutMS      = 10000
	DefaultPollIntervalMS = 10000
	DefaultPollJitterMS   = 2000
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config represents the complete ipcamctl configuration.
type Config struct {
	Cameras []CameraConfig `yaml:"cameras" toml:"cameras"`
	Poll    PollConfig     `yaml:"poll" toml:"poll"`
	Logging LoggingConfig  `yaml:"logging" toml:"logging"`
	Cache   cache.Config   `yaml:"cache" toml:"cache"`
	Health  health.Config  `yaml:"health" toml:"health"`
	Archive archive.Config `yaml:"archive" toml:"archive"`
}

// Validate checks the whole configuration for errors.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i := range c.Cameras {
		cam := &c.Cameras[i]
		if err := cam.Validate(); err != nil {
			return err
		}
		if seen[cam.Name] {
			return DuplicateCameraError{Name: cam.Name}
		}
		seen[cam.Name] = true
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Archive.Validate()
}

// FindCamera returns the camera config with the given name.
func (c *Config) FindCamera(name string) (CameraConfig, bool) {
	return lo.Find(c.Cameras, func(cam CameraConfig) bool {
		return cam.Name == name
	})
}

// CameraConfig defines one Android device running IP Webcam.
type CameraConfig struct {
	Name     string `yaml:"name" toml:"name"`
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"` // supports ${ENV_VAR}
	SSL      *bool  `yaml:"ssl" toml:"ssl"`

	// TimeoutMS is the per-request timeout toward this camera.
	TimeoutMS int `yaml:"timeout_ms" toml:"timeout_ms"`

	// RPMLimit caps requests per minute toward this camera
	// (0 = unlimited). Phones throttle hard when polled too often.
	RPMLimit int `yaml:"rpm_limit" toml:"rpm_limit"`
}

// Validate checks CameraConfig for errors.
func (c *CameraConfig) Validate() error {
	if c.Name == "" {
		return ErrCameraNameRequired
	}
	if c.Host == "" {
		return ErrCameraHostRequired
	}
	if c.Port < 0 || c.Port > 65535 {
		return InvalidPortError{Port: c.Port}
	}
	return nil
}

// GetPort returns the camera port with default fallback.
func (c *CameraConfig) GetPort() int {
	if c.Port == 0 {
		return DefaultCameraPort
	}
	return c.Port
}

// GetTimeout returns the per-request timeout with default fallback.
func (c *CameraConfig) GetTimeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return time.Duration(DefaultTimeoutMS) * time.Millisecond
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// IsSSL returns whether TLS is used for this camera.
// Defaults to true when not explicitly set.
func (c *CameraConfig) IsSSL() bool {
	if c.SSL == nil {
		return true
	}
	return *c.SSL
}

// GetRPMLimitOption returns the RPM limit as an Option.
// Returns None if RPMLimit is zero (unlimited).
func (c *CameraConfig) GetRPMLimitOption() mo.Option[int] {
	if c.RPMLimit <= 0 {
		return mo.None[int]()
	}
	return mo.Some(c.RPMLimit)
}

// PollConfig defines monitor poll loop behavior.
type PollConfig struct {
	// IntervalMS is the time between update rounds. Default: 10000.
	IntervalMS int `yaml:"interval_ms" toml:"interval_ms"`

	// JitterMS is the random startup delay bound so several monitors do not
	// poll in lockstep. Default: 2000.
	JitterMS int `yaml:"jitter_ms" toml:"jitter_ms"`
}

// GetInterval returns the poll interval with default fallback.
func (p *PollConfig) GetInterval() time.Duration {
	if p.IntervalMS <= 0 {
		return time.Duration(DefaultPollIntervalMS) * time.Millisecond
	}
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// GetJitterOption returns the jitter bound as an Option.
// Returns None when jitter is disabled via a negative value.
func (p *PollConfig) GetJitterOption() mo.Option[time.Duration] {
	if p.JitterMS < 0 {
		return mo.None[time.Duration]()
	}
	if p.JitterMS == 0 {
		return mo.Some(time.Duration(DefaultPollJitterMS) * time.Millisecond)
	}
	return mo.Some(time.Duration(p.JitterMS) * time.Millisecond)
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json, console, pretty
	Output string `yaml:"output" toml:"output"` // stdout, stderr, or file path
	Pretty bool   `yaml:"pretty" toml:"pretty"` // force colored console output
}

// ParseLevel converts the configured log level to zerolog.Level.
// Returns zerolog.InfoLevel if the level string is invalid.
func (l *LoggingConfig) ParseLevel() zerolog.Level {
	switch strings.ToLower(l.Level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
