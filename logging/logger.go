// Package logging builds the slog logger shared by every component.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Options selects the logger output
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text or json
	AddSource bool
}

// New builds a slog.Logger writing to w. The MCP stdio mode owns stdout, so
// callers pick the writer.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level; unknown names mean info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
