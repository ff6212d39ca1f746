package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/config"
)

var (
	errCameraFlagRequired = errors.New("more than one camera configured, pass --camera")
	errArchiveDisabled    = errors.New("archive is not enabled in the config")
)

// findConfigFile searches the default config locations.
func findConfigFile() string {
	// Check current directory
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	// Check ~/.config/ipcamctl/
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		p := filepath.Join(home, ".config", "ipcamctl", defaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return defaultConfigFile
}

// loadConfig loads and validates the config from --config or the default
// locations.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = findConfigFile()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// selectCamera resolves the --camera flag against the config. With a single
// configured camera the flag is optional.
func selectCamera(cfg *config.Config) (config.CameraConfig, error) {
	if cameraName == "" {
		if len(cfg.Cameras) == 1 {
			return cfg.Cameras[0], nil
		}
		if len(cfg.Cameras) == 0 {
			return config.CameraConfig{}, config.ErrNoCameras
		}
		return config.CameraConfig{}, errCameraFlagRequired
	}

	cam, ok := cfg.FindCamera(cameraName)
	if !ok {
		return config.CameraConfig{}, fmt.Errorf("camera %q not found in config", cameraName)
	}
	return cam, nil
}

// buildClient creates an ipcam.Client for a configured camera.
func buildClient(cam config.CameraConfig) *ipcam.Client {
	opts := []ipcam.Option{
		ipcam.WithPort(cam.GetPort()),
		ipcam.WithTimeout(cam.GetTimeout()),
		ipcam.WithTLS(cam.IsSSL()),
	}
	if cam.Username != "" {
		opts = append(opts, ipcam.WithCredentials(cam.Username, cam.Password))
	}
	return ipcam.NewClient(cam.Host, opts...)
}

// cameraClient loads the config, resolves the camera, and builds a client.
// Shared by all single-camera subcommands.
func cameraClient() (*ipcam.Client, config.CameraConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.CameraConfig{}, err
	}
	cam, err := selectCamera(cfg)
	if err != nil {
		return nil, config.CameraConfig{}, err
	}
	return buildClient(cam), cam, nil
}
