package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds a text slog.Logger writing to w. Level is taken from level
// ("debug", "info", "warn", "error"); debug forces the debug level.
func New(w io.Writer, level string, debug bool) *slog.Logger {
	lvl := levelFromString(level)
	if debug || os.Getenv("DEBUG") == "true" {
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Init builds a stdout logger and installs it as the slog default.
func Init(level string, debug bool) *slog.Logger {
	l := New(os.Stdout, level, debug)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops every record. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
