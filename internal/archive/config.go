// Package archive uploads camera snapshots to S3 with SigV4 authentication.
package archive

import "strings"

// Default archive settings.
const (
	DefaultRegion = "us-east-1"
	DefaultPrefix = "snapshots"
)

// Config holds snapshot archive settings.
type Config struct {
	// Bucket is the S3 bucket snapshots are uploaded to.
	Bucket string `toml:"bucket" yaml:"bucket"`
	// Region is the AWS region of the bucket.
	Region string `toml:"region" yaml:"region"`
	// Prefix is prepended to every object key.
	Prefix string `toml:"prefix" yaml:"prefix"`
	// EndpointURL overrides the S3 endpoint, for S3-compatible stores.
	EndpointURL string `toml:"endpoint_url" yaml:"endpoint_url"`
	// Enabled turns archiving on.
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// GetRegion returns the configured region or the default.
func (c *Config) GetRegion() string {
	if c.Region == "" {
		return DefaultRegion
	}
	return c.Region
}

// GetPrefix returns the object key prefix with trailing slashes trimmed.
func (c *Config) GetPrefix() string {
	p := c.Prefix
	if p == "" {
		p = DefaultPrefix
	}
	return strings.TrimRight(p, "/")
}

// Validate checks the archive configuration.
// A disabled archive is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Bucket == "" {
		return ErrBucketRequired
	}
	return nil
}
