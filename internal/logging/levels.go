package logging

import (
	"context"
	"log/slog"
	"os"
	"strconv"
)

// LevelTrace is below Debug and carries per-key store operations.
const LevelTrace = slog.Level(-8)

// DebugEnv forces debug logging when set to a true value.
const DebugEnv = "CFGSYNC_DEBUG"

// LevelFromVerbosity maps the count of -v flags to a level. Without -v only
// warnings and errors are shown.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// DebugFromEnv reports whether DebugEnv requests debug logging.
func DebugFromEnv() bool {
	on, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && on
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return NewDiscard()
}
