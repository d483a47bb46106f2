// Package sender wires the notification sender binary: the RabbitMQ
// consumers and the SMTP transport behind them.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/Danielsio/SIONYX-sub000/internal/config"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/rabbitmq"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/smtp"
	senderservice "github.com/Danielsio/SIONYX-sub000/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.DefaultQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueReceipts, a.senderService.SendPurchaseReceipt)
	if err != nil {
		a.logger.Error("failed to start receipts consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueMessages, a.senderService.SendMessageRelay)
	if err != nil {
		a.logger.Error("failed to start messages consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
