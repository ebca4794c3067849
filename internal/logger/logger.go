// Package logger configures the process-wide slog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

// Setup installs a JSON or text handler at level as the slog default and
// returns it.
func Setup(level, format string) (*slog.Logger, error) {
	return New(os.Stdout, level, format)
}

// New builds a logger writing to w.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l, nil
}
