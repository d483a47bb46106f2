package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange is the direct exchange all Sionyx notifications go through.
const Exchange = "sionyx.notifications"

// Routing keys and their queues.
const (
	QueueReceipts   = "notifications.receipts"
	QueueMessages   = "notifications.messages"
	KeyReceipt      = "receipt"
	KeyMessageRelay = "message"
)

// QueueConfig binds one queue to the exchange with a routing key.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// DefaultQueues returns the queue layout used by the notification sender.
func DefaultQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueReceipts, RoutingKey: KeyReceipt},
		{QueueName: QueueMessages, RoutingKey: KeyMessageRelay},
	}
}

// SetupChannel opens a channel, declares the exchange and binds the given
// queues to it.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
