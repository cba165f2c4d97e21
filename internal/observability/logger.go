// Package observability sets up the process-wide zerolog logger.
package observability

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New builds a console logger at the given level, with a session field
// carrying a fresh per-run correlation ID. Every log line emitted by the
// daemon or the replay tool can be grepped by that ID.
func New(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger()
}

// ParseLevel wraps zerolog.ParseLevel, defaulting to info on an empty or
// unrecognized string rather than erroring -- a malformed log-level flag
// shouldn't prevent the daemon from starting.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
