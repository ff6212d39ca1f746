package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/ro"
	"github.com/spf13/cobra"

	"github.com/home-assistant-libs/pydroid-ipcam/cmd/ipcamctl/di"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/config"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/ratelimit"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/stream"
)

// maxEventsPerMinute bounds terminal output per camera.
const maxEventsPerMinute = 600

var monitorWatch bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Continuously poll all configured cameras",
	Long: `Poll every configured camera on the poll interval, print each result,
and cache the latest state. Unreachable cameras trip a circuit breaker and
are probed in the background until they recover. Snapshots are archived on
motion when the archive is configured.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorWatch, "watch-config", false,
		"hot-reload camera request budgets when the config file changes")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = findConfigFile()
	}

	container, err := di.NewContainer(path)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.ShutdownWithContext(shutdownCtx); err != nil {
			cmd.PrintErrf("shutdown error: %s\n", err)
		}
	}()

	loggerSvc, err := di.Invoke[*di.LoggerService](container)
	if err != nil {
		return err
	}
	logger := loggerSvc.Logger

	checkerSvc, err := di.Invoke[*di.CheckerService](container)
	if err != nil {
		return err
	}
	pollerSvc, err := di.Invoke[*di.PollerService](container)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if monitorWatch {
		watcher, err := watchConfig(ctx, container, path)
		if err != nil {
			return err
		}
		defer func() {
			_ = watcher.Close()
		}()
	}

	checkerSvc.Checker.Start()
	logger.Info().Str("config", path).Msg("monitor started")

	done := make(chan error, 1)
	go func() {
		done <- pollerSvc.Poller.Run(ctx)
	}()

	// Blocks until the poller closes its event channel on shutdown
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		// Cap console output per camera so a sub-second poll interval
		// cannot flood the terminal
		events := ratelimit.Limit(
			stream.FromChannel(pollerSvc.Poller.Events()),
			maxEventsPerMinute,
			time.Minute,
			func(e stream.Event) string { return e.Camera },
		)
		events = ro.Pipe1(events, stream.LogEvents(logger))
		stream.Subscribe(events, func(e stream.Event) {
			printEvent(cmd, e)
		}, nil, nil)
	}()

	err = <-done
	<-consumed
	if err != nil && ctx.Err() != nil {
		// Normal shutdown via signal
		logger.Info().Msg("monitor stopped")
		return nil
	}
	return err
}

// printEvent renders one poll result on the terminal.
func printEvent(cmd *cobra.Command, e stream.Event) {
	ts := e.At.Format("15:04:05")
	if e.Failed() {
		cmd.Printf("%s ✗ %-12s %s\n", ts, e.Camera, e.Err)
		return
	}

	line := fmt.Sprintf("%s ✓ %-12s", ts, e.Camera)
	if e.Motion {
		line += " MOTION"
	}
	if battery, ok := e.Sensors["battery_level"]; ok {
		line += fmt.Sprintf(" battery=%g%%", battery)
	}
	cmd.Println(line)
}

// watchConfig hot-reloads per-camera request budgets on config file changes.
// Structural changes (added or removed cameras) still need a restart.
func watchConfig(ctx context.Context, container *di.Container, path string) (*config.Watcher, error) {
	clientsSvc, err := di.Invoke[*di.ClientsService](container)
	if err != nil {
		return nil, err
	}
	loggerSvc, err := di.Invoke[*di.LoggerService](container)
	if err != nil {
		return nil, err
	}
	logger := loggerSvc.Logger

	watcher, err := config.NewWatcher(path)
	if err != nil {
		return nil, err
	}

	watcher.OnReload(func(cfg *config.Config) error {
		for idx := range cfg.Cameras {
			cam := &cfg.Cameras[idx]
			limiter, ok := clientsSvc.Limiters[cam.Name]
			if !ok {
				logger.Warn().Str("camera", cam.Name).Msg("new camera in config, restart to pick it up")
				continue
			}
			limiter.SetLimit(cam.GetRPMLimitOption().OrElse(0))
			logger.Info().
				Str("camera", cam.Name).
				Int("rpm_limit", cam.RPMLimit).
				Msg("request budget updated")
		}
		return nil
	})

	go func() {
		_ = watcher.Watch(ctx)
	}()

	return watcher, nil
}
