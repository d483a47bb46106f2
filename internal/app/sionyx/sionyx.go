// Package sionyx wires the HTTP API binary: storage, migrations, cache,
// the event bus, the notification queue and every service behind the
// routes.
package sionyx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/Danielsio/SIONYX-sub000/internal/cache"
	"github.com/Danielsio/SIONYX-sub000/internal/config"
	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/jwt"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/rabbitmq"
	"github.com/Danielsio/SIONYX-sub000/internal/migrations"
	"github.com/Danielsio/SIONYX-sub000/internal/notify"
	"github.com/Danielsio/SIONYX-sub000/internal/paymentprovider"
	authservice "github.com/Danielsio/SIONYX-sub000/internal/services/auth"
	catalogservice "github.com/Danielsio/SIONYX-sub000/internal/services/catalog"
	chatservice "github.com/Danielsio/SIONYX-sub000/internal/services/chat"
	orgservice "github.com/Danielsio/SIONYX-sub000/internal/services/org"
	purchaseservice "github.com/Danielsio/SIONYX-sub000/internal/services/purchase"
	sessionservice "github.com/Danielsio/SIONYX-sub000/internal/services/session"
	usersservice "github.com/Danielsio/SIONYX-sub000/internal/services/users"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
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

	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.DefaultQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	queue := notify.NewQueue(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	chargeClient := paymentprovider.NewClient(cfg.PaymentAPIURL, cfg.PaymentShopID, cfg.PaymentSecretKey)

	authService := authservice.NewAuthService(db, jwtMaker)
	sessionService := sessionservice.NewSessionService(db, bus, logger)
	chatService := chatservice.NewChatService(db, cacheRedis, bus, queue, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	purchaseService := purchaseservice.NewPurchaseService(db, chargeClient, queue, bus, logger)
	orgService := orgservice.NewOrgService(db, logger)
	usersService := usersservice.NewUserAdminService(db, sessionService, bus, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		JWTMaker:  jwtMaker,
		Auth:      authService,
		Session:   sessionService,
		Chat:      chatService,
		Catalog:   catalogService,
		Purchase:  purchaseService,
		Org:       orgService,
		Users:     usersService,
		Computers: db,
		Bus:       bus,
	}, cfg.WebhookSecret)

	srv := &http.Server{
		Addr:        cfg.AddressHTTP,
		Handler:     router,
		ReadTimeout: cfg.TimeoutHTTP,
		// Write timeout would cut long-lived SSE streams, so only reads
		// are bounded here.
		IdleTimeout: cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		_ = a.db.DB.Close()
		return err
	}
}
