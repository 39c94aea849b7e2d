package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/sadopc/dayledger/internal/cli"
	"github.com/sadopc/dayledger/internal/config"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/store"
	"github.com/sadopc/dayledger/internal/tui"
	"github.com/sadopc/dayledger/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dbPath := cfg.DB.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("finding data directory: %w", err)
		}
	}

	st, err := store.Open(cfg.DB.Backend, dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	ws, err := workspace.Open(ctx, st, logger,
		workspace.WithHistory(cfg.History.Depth, cfg.History.Debounce()),
		workspace.WithCapture(cfg.Clock.RoundToFive, ledger.ParseLocation(cfg.Clock.DefaultLocation)),
	)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() {
		if err := ws.Close(context.Background()); err != nil {
			logger.Error("saving ledger on exit", "error", err)
		}
	}()

	app := &cli.App{
		Workspace: ws,
		Store:     st,
		Config:    cfg,
		Logger:    logger,
	}

	// The bare command opens the full-screen interface only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.RunTUI = func(ctx context.Context) error {
		return tui.Run(ctx, ws, st, cfg.Stats.HeatmapDays)
	}

	logger.Debug("starting", "backend", cfg.DB.Backend, "path", dbPath)
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
