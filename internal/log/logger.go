package log

import (
	"log/slog"
	"os"
	"strings"
)

// Options controls how the process logger is built.
type Options struct {
	// Level is a textual level name: debug, info, warn or error.
	// Unrecognized values fall back to info.
	Level string
	// Format selects the handler: "json" or "text". Defaults to text.
	Format string
	// Component tags every record emitted through this logger.
	Component string
}

// New builds a slog.Logger writing to stdout per opts.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Component != "" {
		logger = logger.With("component", opts.Component)
	}
	return logger
}

// Setup builds the logger and installs it as the process default so that
// package-level slog calls pick it up.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
