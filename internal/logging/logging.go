// Package logging builds the zerolog loggers used across the CLI.
//
// Logging is off unless BUCKETUSAGE_DEBUG is set. Commands that own the
// terminal (the dashboard) write to a file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const debugEnvVar = "BUCKETUSAGE_DEBUG"

// DebugEnabled reports whether BUCKETUSAGE_DEBUG is set.
func DebugEnabled() bool {
	return strings.TrimSpace(os.Getenv(debugEnvVar)) != ""
}

// New returns a console logger writing to w, or a no-op logger when debug
// logging is disabled.
func New(w io.Writer) zerolog.Logger {
	if !DebugEnabled() {
		return zerolog.Nop()
	}
	return newConsole(w)
}

func newConsole(w io.Writer) zerolog.Logger {
	console := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.Kitchen
	})
	return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// NewFile returns a JSON logger appending to path when debug logging is on.
// The returned closer must be called on shutdown.
func NewFile(path string) (zerolog.Logger, io.Closer, error) {
	if !DebugEnabled() {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("opening log file: %w", err)
	}
	logger := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return logger, f, nil
}
