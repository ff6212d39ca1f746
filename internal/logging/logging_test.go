package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/config"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/logging"
)

func TestNewAppliesLevel(t *testing.T) {
	logger, err := logging.New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(config.LoggingConfig{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipcamctl.log")

	logger, err := logging.New(config.LoggingConfig{
		Level:  "debug",
		Format: "json",
		Output: path,
	})
	require.NoError(t, err)

	logger.Info().Str("camera", "front").Msg("status updated")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"camera":"front"`)
	assert.Contains(t, string(content), "status updated")
}

func TestNewFileOutputBadPath(t *testing.T) {
	_, err := logging.New(config.LoggingConfig{
		Output: filepath.Join(t.TempDir(), "missing", "dir", "out.log"),
	})
	require.Error(t, err)
}
