// Package notify queues outgoing notification payloads on RabbitMQ for
// the notification sender to deliver.
package notify

import (
	"github.com/streadway/amqp"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/rabbitmq"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// Queue publishes notification payloads to the sionyx exchange.
type Queue struct {
	ch *amqp.Channel
}

// NewQueue creates a Queue over an already set-up channel.
func NewQueue(ch *amqp.Channel) *Queue {
	return &Queue{ch: ch}
}

// PublishReceipt queues a purchase receipt email.
func (q *Queue) PublishReceipt(receipt models.PurchaseReceipt) error {
	return rabbitmq.PublishMessage(q.ch, rabbitmq.Exchange, rabbitmq.KeyReceipt, receipt)
}

// PublishMessageRelay queues a chat message for email delivery.
func (q *Queue) PublishMessageRelay(relay models.MessageRelay) error {
	return rabbitmq.PublishMessage(q.ch, rabbitmq.Exchange, rabbitmq.KeyMessageRelay, relay)
}
