package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

type Options struct {
	Level string
	// File enables a rotating log file next to stderr output when set.
	File string
	// Writer replaces stderr, used by tests and the interactive shell.
	Writer io.Writer
	// FileOnly drops Writer when File is set.
	FileOnly bool
}

var (
	mu   sync.Mutex
	base *slog.Logger
	file *lumberjack.Logger
)

// Init configures the global logger. Later calls replace it, the shell
// re-initialises after loading config.
func Init(component string, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}

	var rot *lumberjack.Logger
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll: %w", err)
		}

		rot = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		if opts.FileOnly {
			out = rot
		} else {
			out = io.MultiWriter(out, rot)
		}
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	l := slog.New(h).With("component", component)

	mu.Lock()
	prev := file
	base, file = l, rot
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}

	return l, nil
}

// Close releases the log file opened by Init, if any.
func Close() error {
	mu.Lock()
	rot := file
	file = nil
	mu.Unlock()

	if rot == nil {
		return nil
	}
	if err := rot.Close(); err != nil {
		return fmt.Errorf("rot.Close: %w", err)
	}
	return nil
}

// Base returns the global logger, or a warn-level stderr logger when Init
// was never called.
func Base() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if base == nil {
		h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
		base = slog.New(h).With("component", "storefront")
	}
	return base
}

func WithCtx(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx fetches a logger from ctx or falls back to the global one.
func FromCtx(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("invalid log level: %q", s)
}
