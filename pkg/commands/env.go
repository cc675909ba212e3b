package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/fetch"
	"tableflip.dev/bricks/pkg/store"
)

type serviceOptions struct {
	// interactive sends logs to the log file; otherwise warnings go to stderr.
	interactive bool
	stderr      io.Writer
}

// openService loads the configuration, the catalog and the collection. Tests
// replace it.
var openService = func(ctx context.Context, o serviceOptions) (*app.Service, func(), error) {
	settings, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := newLogger(settings, o)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Load(settings.Catalog)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	persistence, err := store.Load(settings)
	if err != nil {
		closeLog()
		return nil, nil, err
	}

	opts := app.Options{
		Catalog:     cat,
		Persistence: persistence,
		Logger:      logger,
	}
	if settings.FetchEnabled {
		opts.Weights = fetch.NewWeightClient(settings.FetchTimeout)
		opts.Images = fetch.NewImageCache(settings.Assets, settings.FetchTimeout)
	}

	svc, err := app.New(opts)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	if err := svc.Load(ctx); err != nil {
		closeLog()
		return nil, nil, err
	}
	return svc, closeLog, nil
}

func newLogger(s *store.Settings, o serviceOptions) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}
	if !o.interactive {
		if level < slog.LevelWarn {
			level = slog.LevelWarn
		}
		w := o.stderr
		if w == nil {
			w = os.Stderr
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.LogFile), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool { return isTerminal(os.Stdout) }
