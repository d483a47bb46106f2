package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
)

// Publisher publishes events for delivery to live SSE streams.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Bus carries events over Redis pub/sub. Per-user events go to the user
// channel and are mirrored to the org channel for admin streams.
type Bus struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewBus creates a Bus on an existing Redis client.
func NewBus(rdb *redis.Client, log *slog.Logger) *Bus {
	return &Bus{rdb: rdb, log: log}
}

func userChannel(orgID, userUID string) string {
	return fmt.Sprintf("events:%s:user:%s", orgID, userUID)
}

func orgChannel(orgID string) string {
	return fmt.Sprintf("events:%s:org", orgID)
}

// Publish sends the event to its org channel, and to the user channel when
// the event targets a single user.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	const op = "events.Publish"
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ev.UserUID != "" {
		if err := b.rdb.Publish(ctx, userChannel(ev.OrgID, ev.UserUID), body).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := b.rdb.Publish(ctx, orgChannel(ev.OrgID), body).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscribeUser delivers events addressed to one user until ctx is done.
func (b *Bus) SubscribeUser(ctx context.Context, orgID, userUID string) <-chan Event {
	return b.subscribe(ctx, userChannel(orgID, userUID))
}

// SubscribeOrg delivers the full org feed, for admin streams.
func (b *Bus) SubscribeOrg(ctx context.Context, orgID string) <-chan Event {
	return b.subscribe(ctx, orgChannel(orgID))
}

func (b *Bus) subscribe(ctx context.Context, channel string) <-chan Event {
	sub := b.rdb.Subscribe(ctx, channel)
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				b.log.Warn("failed to close subscription", sl.Err(err))
			}
		}()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn("failed to decode event", sl.Err(err))
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
