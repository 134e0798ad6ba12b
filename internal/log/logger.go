// Package log provides structured diagnostic logging for kipper.
//
// The Logger interface is backed by Go's stdlib slog so subsystems can be
// tested against a captured handler. Presentation output (the colored
// status lines the user watches) is a separate concern handled by the ui
// package; the Logger carries diagnostic detail on stderr.
//
// Levels:
//   - WARN (default): recoverable oddities worth a trace
//   - DEBUG (KIPPER_DEBUG=1): subprocess argv, resolved URLs, paths
package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger is the interface for structured logging. Method signatures match
// slog for easy integration.
type Logger interface {
	// Debug logs internal state useful only when troubleshooting:
	// resolved download URLs, subprocess command lines, scratch paths.
	Debug(msg string, args ...any)

	// Info logs operational context such as "using configured strategy".
	Info(msg string, args ...any)

	// Warn logs recoverable issues, e.g. a profile file that could not
	// be updated.
	Warn(msg string, args ...any)

	// Error logs failures that abort the installation.
	Error(msg string, args ...any)

	// With returns a Logger that includes the given key-value pairs in
	// all subsequent entries.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// FromEnv creates a text-handler Logger writing to w, with the level
// raised to DEBUG when KIPPER_DEBUG is set to a non-empty value other
// than "0". This is what main wires as the process default.
func FromEnv(w io.Writer) Logger {
	level := slog.LevelWarn
	if v := os.Getenv("KIPPER_DEBUG"); v != "" && v != "0" {
		level = slog.LevelDebug
	}
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *slogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// noopLogger discards all output. Used as the default until main installs
// a real logger, and in tests that don't care about log output.
type noopLogger struct{}

// NewNoop returns a logger that discards everything.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the process-wide logger. Noop until SetDefault is called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault installs the process-wide logger. Called once from main after
// flag parsing.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
