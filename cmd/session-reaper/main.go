// Session reaper entrypoint.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Danielsio/SIONYX-sub000/internal/app/reaper"
	"github.com/Danielsio/SIONYX-sub000/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting session reaper", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := reaper.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize reaper app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("reaper app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("reaper app stopped gracefully")
}
