// Package debug provides process-wide logging using log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// logger is the process logger handed to components that were not given one
	logger *slog.Logger
	// enabled indicates if debug logging is enabled
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

func init() {
	logger = New(io.Discard, false, "text")
}

// Init configures the process logger.
// If enable is true, debug and above are written to os.Stderr; otherwise only
// errors are. format is "json" or "text".
func Init(enable bool, format string) {
	l := New(os.Stderr, enable, format)

	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = l
}

// New builds a logger writing to w.
func New(w io.Writer, enable bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelError}
	if enable {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SetLogger replaces the process logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
