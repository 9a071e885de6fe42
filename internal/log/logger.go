// Package log provides structured logging for orbit.
//
// It defines a Logger interface backed by Go's stdlib slog so that
// subsystems can accept an injected logger in tests while production
// code uses a global default configured from CLI verbosity flags.
//
// Diagnostic output goes to stderr; stdout is reserved for check
// results and tables. Verbosity maps to slog levels: --quiet drops
// everything, the default shows warnings, --verbose adds operational
// context, and --debug adds per-repository scan details.
package log

import (
	"log/slog"
	"sync"
)

// Logger is the interface for structured logging. Method signatures
// match slog so call sites read the same either way.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger carrying the given key-value pairs on
	// every subsequent entry.
	With(args ...any) Logger
}

type slogger struct {
	inner *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return slogger{inner: slog.New(h)}
}

func (s slogger) Debug(msg string, args ...any) { s.inner.Debug(msg, args...) }
func (s slogger) Info(msg string, args ...any)  { s.inner.Info(msg, args...) }
func (s slogger) Warn(msg string, args ...any)  { s.inner.Warn(msg, args...) }
func (s slogger) Error(msg string, args ...any) { s.inner.Error(msg, args...) }
func (s slogger) With(args ...any) Logger       { return slogger{inner: s.inner.With(args...)} }

type noopLogger struct{}

// NewNoop returns a logger that discards everything. Used in tests
// and under --quiet.
func NewNoop() Logger { return noopLogger{} }

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = noopLogger{}
)

// Default returns the global logger, a noop until SetDefault runs.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault installs the global logger. Called once at startup after
// the verbosity flags are parsed.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
