package cache

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	// loggerMu protects the package logger from concurrent access in tests.
	loggerMu sync.RWMutex

	// pkgLogger is the package-level logger for cache operations.
	// No-op by default so nothing is logged until explicitly configured.
	pkgLogger = zerolog.Nop()
)

// SetLogger sets the package-level logger for cache operations.
// Call this during application initialization to enable cache logging.
// The logger is automatically tagged with component: cache.
func SetLogger(l *zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	pkgLogger = l.With().Str("component", "cache").Logger()
}

// logger returns the current package logger.
func logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return pkgLogger
}
