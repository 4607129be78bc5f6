// Package logging builds the zerolog logger shared by the clubarchive services.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stderr, or a human readable console logger
// at debug level when appEnv is "development".
func New(appEnv string) zerolog.Logger {
	return newWithWriter(appEnv, os.Stderr)
}

func newWithWriter(appEnv string, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	return logger
}

// Nop is used by tests and by callers that do not care about output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
