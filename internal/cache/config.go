package cache

import (
	"fmt"
	"time"
)

// Mode represents the cache operating mode.
type Mode string

const (
	// ModeSingle uses the local Ristretto cache (default).
	ModeSingle Mode = "single"

	// ModeDisabled uses the noop cache (caching disabled).
	// All operations return immediately without storing data.
	ModeDisabled Mode = "disabled"
)

// DefaultTTLMS is the default freshness window for cached camera responses.
// Five seconds: long enough to absorb repeated CLI calls, short enough that
// a snapshot is never embarrassingly stale.
const DefaultTTLMS = 5000

// Config defines cache configuration.
// Use Validate() to check for configuration errors before creating a cache.
type Config struct {
	Mode      Mode            `yaml:"mode" toml:"mode"`
	TTLMS     int             `yaml:"ttl_ms" toml:"ttl_ms"`
	Ristretto RistrettoConfig `yaml:"ristretto" toml:"ristretto"`
}

// GetMode returns the cache mode, defaulting to ModeSingle when unset.
func (c *Config) GetMode() Mode {
	if c.Mode == "" {
		return ModeSingle
	}
	return c.Mode
}

// GetTTL returns the freshness window for cached responses, with default fallback.
func (c *Config) GetTTL() time.Duration {
	if c.TTLMS <= 0 {
		return time.Duration(DefaultTTLMS) * time.Millisecond
	}
	return time.Duration(c.TTLMS) * time.Millisecond
}

// RistrettoConfig configures the Ristretto local cache.
type RistrettoConfig struct {
	// NumCounters is the number of 4-bit access counters.
	// Recommended: 10x expected max items for optimal admission policy.
	NumCounters int64 `yaml:"num_counters" toml:"num_counters"`

	// MaxCost is the maximum cost (memory) the cache can hold, in bytes of
	// cached values. Snapshots dominate; a handful of cameras at a few
	// hundred KB per frame fits comfortably in the default 32 MB.
	MaxCost int64 `yaml:"max_cost" toml:"max_cost"`

	// BufferItems is the number of keys per Get buffer.
	// Recommended: 64 (default).
	BufferItems int64 `yaml:"buffer_items" toml:"buffer_items"`
}

// GetNumCounters returns the counter count, defaulting to 10,000.
func (c *RistrettoConfig) GetNumCounters() int64 {
	if c.NumCounters <= 0 {
		return 10_000
	}
	return c.NumCounters
}

// GetMaxCost returns the memory budget in bytes, defaulting to 32 MB.
func (c *RistrettoConfig) GetMaxCost() int64 {
	if c.MaxCost <= 0 {
		return 32 << 20
	}
	return c.MaxCost
}

// GetBufferItems returns the Get buffer size, defaulting to 64.
func (c *RistrettoConfig) GetBufferItems() int64 {
	if c.BufferItems <= 0 {
		return 64
	}
	return c.BufferItems
}

// Validate checks the configuration for errors. Unset values fall back to
// defaults, so an empty Config is valid.
func (c *Config) Validate() error {
	switch c.GetMode() {
	case ModeSingle, ModeDisabled:
		return nil
	default:
		return fmt.Errorf("cache: unknown mode %q", c.Mode)
	}
}

// DefaultRistrettoConfig returns a RistrettoConfig sized for camera payloads.
// NumCounters: 10,000. MaxCost: 32 MB. BufferItems: 64.
func DefaultRistrettoConfig() RistrettoConfig {
	return RistrettoConfig{
		NumCounters: 10_000,
		MaxCost:     32 << 20, // 32 MB.
		BufferItems: 64,
	}
}

// DefaultConfig returns a single-mode configuration with default sizing.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeSingle,
		Ristretto: DefaultRistrettoConfig(),
	}
}
