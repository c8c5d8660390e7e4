// Package app provides the top-level application lifecycle for manifoldscope.
// It wires together the API client, normalizer, aggregation pipeline,
// renderer, and optional cache and publisher, and runs the configured
// operating mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/manifoldscope/manifoldscope/internal/config"
)

// Options carries the per-invocation inputs that do not belong in the config
// file: which market to analyze, or which text file to parse.
type Options struct {
	// MarketID is the market to fetch in analyze and serve modes. A slug is
	// accepted when prefixed with "slug:".
	MarketID string
	// InputPath is the text file read in parse mode ("-" for stdin).
	InputPath string
}

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	opts    Options
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, opts Options, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, runs the configured
// mode to completion, and returns. Cleanup of wired resources happens in
// Close.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch strings.ToLower(a.cfg.Mode) {
	case "analyze":
		return a.AnalyzeMode(ctx, deps)
	case "parse":
		return a.ParseMode(ctx, deps)
	case "serve":
		return a.ServeMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
