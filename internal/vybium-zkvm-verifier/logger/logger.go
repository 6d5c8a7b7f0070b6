// Package logger provides the package-wide structured logger. Verification
// is silent by default; embedders who want the per-layer debug trail call
// Enable or install their own logger with Set.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// Logger returns the current logger.
func Logger() zerolog.Logger {
	return logger
}

// Set replaces the logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Enable installs a console writer on stderr at debug level.
func Enable() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// Disable routes the logger to nothing.
func Disable() {
	logger = zerolog.Nop()
}
