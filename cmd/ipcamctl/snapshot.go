package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/archive"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/cache"
)

var (
	snapshotOutput  string
	snapshotArchive bool
	snapshotFresh   bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a still frame from the camera",
	Long: `Fetch a JPEG still frame. The last frame is kept on disk so repeated
invocations within the cache TTL do not hammer the phone; use --fresh to
bypass it. With --archive the frame is also uploaded to the configured
S3 bucket.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "",
		"output file (default: <camera>-<timestamp>.jpg)")
	snapshotCmd.Flags().BoolVar(&snapshotArchive, "archive", false,
		"also upload the snapshot to the configured archive bucket")
	snapshotCmd.Flags().BoolVar(&snapshotFresh, "fresh", false,
		"bypass the snapshot cache")
	rootCmd.AddCommand(snapshotCmd)
}

// snapshotCachePath returns the on-disk location of a camera's last frame.
// The file outlives the process, so back-to-back invocations share it.
func snapshotCachePath(camera string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ipcamctl", camera+".jpg"), nil
}

// cachedSnapshot returns the cached frame at path when it is younger than
// ttl, or nil when there is no usable entry.
func cachedSnapshot(path string, ttl time.Duration) []byte {
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > ttl {
		return nil
	}

	jpeg, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return jpeg
}

// cacheSnapshot stores the frame at path for later invocations.
func cacheSnapshot(path string, jpeg []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, jpeg, 0o600)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cam, err := selectCamera(cfg)
	if err != nil {
		return err
	}
	client := buildClient(cam)
	ctx := cmd.Context()
	capturedAt := time.Now()

	cachePath := ""
	if cfg.Cache.GetMode() != cache.ModeDisabled {
		if cachePath, err = snapshotCachePath(cam.Name); err != nil {
			cmd.PrintErrf("warning: snapshot cache unavailable: %s\n", err)
		}
	}

	var jpeg []byte
	if cachePath != "" && !snapshotFresh {
		jpeg = cachedSnapshot(cachePath, cfg.Cache.GetTTL())
	}

	if jpeg == nil {
		jpeg, err = client.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to capture snapshot from %q: %w", cam.Name, err)
		}
		if cachePath != "" {
			if err := cacheSnapshot(cachePath, jpeg); err != nil {
				cmd.PrintErrf("warning: failed to cache snapshot: %s\n", err)
			}
		}
	}

	output := snapshotOutput
	if output == "" {
		output = fmt.Sprintf("%s-%s.jpg", cam.Name, capturedAt.Format("20060102-150405"))
	}
	if err := os.WriteFile(output, jpeg, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	cmd.Printf("wrote %s (%d bytes)\n", output, len(jpeg))

	if snapshotArchive {
		if !cfg.Archive.Enabled {
			return errArchiveDisabled
		}
		uploader, err := archive.NewUploader(ctx, &cfg.Archive, zerolog.Nop())
		if err != nil {
			return err
		}
		key, err := uploader.StoreSnapshot(ctx, cam.Name, capturedAt, jpeg)
		if err != nil {
			return err
		}
		cmd.Printf("archived as %s\n", key)
	}

	return nil
}
