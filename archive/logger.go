package archive

import (
	"log/slog"
	"os"
)

// NewLogger creates a text logger to stderr with the given level.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a logger that discards all output. This is the
// default for archives constructed without WithLogger.
func NoopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
