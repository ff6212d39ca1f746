package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	ipcam "github.com/home-assistant-libs/pydroid-ipcam"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/archive"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/cache"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/config"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/health"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/logging"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/poll"
	"github.com/home-assistant-libs/pydroid-ipcam/internal/ratelimit"
)

// Service wrapper types for DI registration.

// ConfigService wraps the loaded configuration.
type ConfigService struct {
	Config *config.Config
}

// LoggerService wraps the zerolog logger.
type LoggerService struct {
	Logger *zerolog.Logger
}

// CacheService wraps the cache implementation.
type CacheService struct {
	Cache cache.Cache
}

// TrackerService wraps the camera health tracker.
type TrackerService struct {
	Tracker *health.Tracker
}

// CheckerService wraps the camera reachability checker.
type CheckerService struct {
	Checker *health.Checker
}

// ClientsService holds one camera client and request limiter per configured
// camera, keyed by camera name.
type ClientsService struct {
	Clients  map[string]*ipcam.Client
	Limiters map[string]ratelimit.RateLimiter
}

// ArchiverService wraps the optional snapshot archiver. Uploader is nil when
// archiving is disabled.
type ArchiverService struct {
	Uploader *archive.Uploader
}

// PollerService wraps the camera poll loop.
type PollerService struct {
	Poller *poll.Poller
}

// RegisterSingletons registers all service providers as singletons,
// in dependency order:
// 1. Config (no dependencies)
// 2. Logger (depends on Config)
// 3. Cache (depends on Config)
// 4. Clients (depends on Config, Logger)
// 5. Tracker (depends on Config, Logger)
// 6. Checker (depends on Tracker, Config, Logger, Clients)
// 7. Archiver (depends on Config, Logger)
// 8. Poller (depends on all of the above).
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewLogger)
	do.Provide(i, NewCache)
	do.Provide(i, NewClients)
	do.Provide(i, NewTracker)
	do.Provide(i, NewChecker)
	do.Provide(i, NewArchiver)
	do.Provide(i, NewPoller)
}

// NewConfig loads and validates the configuration from the config path.
func NewConfig(i do.Injector) (*ConfigService, error) {
	path := do.MustInvokeNamed[string](i, ConfigPathKey)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ConfigService{Config: cfg}, nil
}

// NewLogger creates the zerolog logger from configuration.
func NewLogger(i do.Injector) (*LoggerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)

	logger, err := logging.New(cfgSvc.Config.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	cache.SetLogger(&logger)

	return &LoggerService{Logger: &logger}, nil
}

// NewCache creates the cache based on configuration.
func NewCache(i do.Injector) (*CacheService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)

	c, err := cache.New(&cfgSvc.Config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &CacheService{Cache: c}, nil
}

// Shutdown implements do.Shutdowner for graceful cache cleanup.
func (c *CacheService) Shutdown() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}

// NewClients builds a camera client and limiter per configured camera.
func NewClients(i do.Injector) (*ClientsService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)

	clients := make(map[string]*ipcam.Client, len(cfgSvc.Config.Cameras))
	limiters := make(map[string]ratelimit.RateLimiter, len(cfgSvc.Config.Cameras))

	for idx := range cfgSvc.Config.Cameras {
		cam := &cfgSvc.Config.Cameras[idx]

		opts := []ipcam.Option{
			ipcam.WithPort(cam.GetPort()),
			ipcam.WithTimeout(cam.GetTimeout()),
			ipcam.WithTLS(cam.IsSSL()),
			ipcam.WithLogger(loggerSvc.Logger.With().Str("camera", cam.Name).Logger()),
		}
		if cam.Username != "" {
			opts = append(opts, ipcam.WithCredentials(cam.Username, cam.Password))
		}
		clients[cam.Name] = ipcam.NewClient(cam.Host, opts...)

		rpm := cam.GetRPMLimitOption().OrElse(0)
		limiters[cam.Name] = ratelimit.NewTokenBucketLimiter(rpm)
	}

	return &ClientsService{Clients: clients, Limiters: limiters}, nil
}

// NewTracker creates the health tracker from configuration.
func NewTracker(i do.Injector) (*TrackerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)

	tracker := health.NewTracker(cfgSvc.Config.Health.CircuitBreaker, loggerSvc.Logger)
	return &TrackerService{Tracker: tracker}, nil
}

// NewChecker creates the reachability checker and registers every camera.
func NewChecker(i do.Injector) (*CheckerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	trackerSvc := do.MustInvoke[*TrackerService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)
	clientsSvc := do.MustInvoke[*ClientsService](i)

	checker := health.NewChecker(trackerSvc.Tracker, cfgSvc.Config.Health.HealthCheck, loggerSvc.Logger)

	for idx := range cfgSvc.Config.Cameras {
		cam := &cfgSvc.Config.Cameras[idx]
		client := clientsSvc.Clients[cam.Name]

		probe := &http.Client{Timeout: cam.GetTimeout()}
		checker.RegisterCamera(health.NewHTTPCheck(cam.Name, client.BaseURL()+"/status.json", probe))
		loggerSvc.Logger.Debug().
			Str("camera", cam.Name).
			Str("base_url", client.BaseURL()).
			Msg("registered reachability check")
	}

	return &CheckerService{Checker: checker}, nil
}

// Shutdown implements do.Shutdowner for graceful checker cleanup.
func (h *CheckerService) Shutdown() error {
	if h.Checker != nil {
		h.Checker.Stop()
	}
	return nil
}

// NewArchiver creates the snapshot archiver when archiving is enabled.
func NewArchiver(i do.Injector) (*ArchiverService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)

	if !cfgSvc.Config.Archive.Enabled {
		return &ArchiverService{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uploader, err := archive.NewUploader(ctx, &cfgSvc.Config.Archive, *loggerSvc.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create archiver: %w", err)
	}

	return &ArchiverService{Uploader: uploader}, nil
}

// NewPoller wires the poll loop from all other services.
func NewPoller(i do.Injector) (*PollerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)
	trackerSvc := do.MustInvoke[*TrackerService](i)
	cacheSvc := do.MustInvoke[*CacheService](i)
	clientsSvc := do.MustInvoke[*ClientsService](i)
	archiverSvc := do.MustInvoke[*ArchiverService](i)

	opts := []poll.Option{
		poll.WithInterval(cfgSvc.Config.Poll.GetInterval()),
		poll.WithCache(cacheSvc.Cache),
		poll.WithLogger(*loggerSvc.Logger),
	}
	if jitter, ok := cfgSvc.Config.Poll.GetJitterOption().Get(); ok {
		opts = append(opts, poll.WithJitter(jitter))
	}
	if archiverSvc.Uploader != nil {
		opts = append(opts, poll.WithArchiver(archiverSvc.Uploader))
	}

	poller := poll.NewPoller(trackerSvc.Tracker, opts...)
	for idx := range cfgSvc.Config.Cameras {
		cam := &cfgSvc.Config.Cameras[idx]
		poller.AddCamera(cam.Name, clientsSvc.Clients[cam.Name], clientsSvc.Limiters[cam.Name])
	}

	return &PollerService{Poller: poller}, nil
}
