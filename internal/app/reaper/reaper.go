// Package reaper wires the session reaper binary: storage, the Redis
// event bus and the ticking service.
package reaper

import (
	"context"
	"log/slog"

	"github.com/Danielsio/SIONYX-sub000/internal/cache"
	"github.com/Danielsio/SIONYX-sub000/internal/config"
	"github.com/Danielsio/SIONYX-sub000/internal/events"
	reaperservice "github.com/Danielsio/SIONYX-sub000/internal/services/reaper"
	sessionservice "github.com/Danielsio/SIONYX-sub000/internal/services/session"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

type App struct {
	reaperService *reaperservice.ReaperService
	logger        *slog.Logger
	db            *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}
	bus := events.NewBus(cacheRedis.Db, logger)

	sessionService := sessionservice.NewSessionService(db, bus, logger)
	reaperService := reaperservice.NewReaperService(db, sessionService, bus, logger, cfg.TickInterval)

	return &App{
		reaperService: reaperService,
		logger:        logger,
		db:            db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := a.reaperService.Run(ctx)
	a.logger.Info("reaper shutting down gracefully")
	_ = a.db.DB.Close()
	if err == context.Canceled {
		return nil
	}
	return err
}
