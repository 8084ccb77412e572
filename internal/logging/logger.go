package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// #region new
// New builds the process logger. A nil writer discards output.
func New(opts Options, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelInfo
	if name := strings.TrimSpace(opts.Level); name != "" {
		if err := level.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// #endregion new
