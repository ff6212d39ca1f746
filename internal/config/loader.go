package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration file. The format is chosen by file
// extension: .yaml/.yml or .toml. Environment variables in the format
// ${VAR_NAME} are expanded before parsing.
func Load(path string) (*Config, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(file)
	case ".toml":
		return LoadTOML(file)
	default:
		return nil, UnsupportedFormatError{Path: path}
	}
}

// LoadYAML reads and parses YAML configuration from an io.Reader.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func LoadYAML(r io.Reader) (*Config, error) {
	expanded, err := readExpanded(r)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// LoadTOML reads and parses TOML configuration from an io.Reader.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func LoadTOML(r io.Reader) (*Config, error) {
	expanded, err := readExpanded(r)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	return &cfg, nil
}

// readExpanded reads everything from r and expands ${ENV_VAR} references.
func readExpanded(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return []byte(os.ExpandEnv(string(content))), nil
}
