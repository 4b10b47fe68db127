package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/leitner/internal/config"
)

type contextKey struct{}

// ParseLevel converts a configured level name (case-insensitive) into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup initializes the application's logging system based on the provided
// configuration. It creates a structured JSON logger on stdout with the
// configured level and sets it as the default logger.
//
// An invalid level falls back to info and is reported as a warning through
// the new logger rather than as an error.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return SetupWithWriter(cfg, os.Stdout)
}

// SetupWithWriter is Setup with an explicit output, used by tests and the CLI
// (which keeps stdout for command output and logs to stderr).
func SetupWithWriter(cfg config.ServerConfig, out io.Writer) (*slog.Logger, error) {
	if out == nil {
		return nil, fmt.Errorf("log output cannot be nil")
	}

	level, levelErr := ParseLevel(cfg.LogLevel)

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)

	// Set this logger as the default so package-level slog calls use it.
	slog.SetDefault(logger)

	if levelErr != nil {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	return logger, nil
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() if none is.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback if none is.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
