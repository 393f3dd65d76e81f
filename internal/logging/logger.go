// Package logging wraps charmbracelet/log with the level handling and field
// names codefold uses.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
	defaultMu         sync.RWMutex
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New("info")
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// New creates a stderr logger at the given level.
// Valid levels: "debug", "info", "warn", "error". Anything else means info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ValidLevel reports whether level names a level ParseLevel knows.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Default returns the package-level logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault replaces the package-level logger.
func SetDefault(logger *log.Logger) {
	getDefaultLogger()
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetLevel updates the level of the package-level logger.
func SetLevel(level string) {
	getDefaultLogger().SetLevel(ParseLevel(level))
}
