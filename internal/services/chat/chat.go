// Package services contains the chat business logic: unread lists with a
// Redis cache, read marks, and admin sends fanned out over SSE and the
// email relay queue.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// ErrRecipientNotFound is returned when the recipient does not exist or
// belongs to another organization.
var ErrRecipientNotFound = errors.New("recipient not found")

// MessageRepository describes the storage methods the chat flow needs.
type MessageRepository interface {
	CreateMessage(ctx context.Context, m models.Message) (*models.Message, error)
	ListUnreadMessages(ctx context.Context, userUID string) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, userUID string, id int) (int, error)
	MarkAllMessagesRead(ctx context.Context, userUID string) (int, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetOrg(ctx context.Context, orgID string) (*models.Org, error)
}

// Cache describes the caching methods used for unread lists.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// RelayPublisher queues a message for email delivery to offline users.
type RelayPublisher interface {
	PublishMessageRelay(relay models.MessageRelay) error
}

// ChatService implements the chat operations.
type ChatService struct {
	repo  MessageRepository
	cache Cache
	bus   events.Publisher
	relay RelayPublisher
	log   *slog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(repo MessageRepository, cache Cache, bus events.Publisher, relay RelayPublisher, log *slog.Logger) *ChatService {
	return &ChatService{
		repo:  repo,
		cache: cache,
		bus:   bus,
		relay: relay,
		log:   log,
	}
}

func unreadKey(userUID string) string {
	return fmt.Sprintf("chat:unread:%s", userUID)
}

// Unread returns the user's unread messages. With useCache the Redis copy
// is consulted first; a miss falls through to storage and refills it.
func (s *ChatService) Unread(ctx context.Context, userUID string, useCache bool) ([]*models.Message, error) {
	cacheKey := unreadKey(userUID)
	if useCache {
		var cached []*models.Message
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read unread cache", slog.String("key", cacheKey), sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	msgs, err := s.repo.ListUnreadMessages(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, msgs, time.Minute); err != nil {
		s.log.Warn("failed to cache unread messages", slog.String("key", cacheKey), sl.Err(err))
	}
	return msgs, nil
}

// MarkRead marks one message read and invalidates the unread cache.
// Returns the number of changed rows (0 for a foreign or already-read id).
func (s *ChatService) MarkRead(ctx context.Context, userUID string, id int) (int, error) {
	count, err := s.repo.MarkMessageRead(ctx, userUID, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(userUID)
	return count, nil
}

// MarkAllRead marks every unread message of the user as read.
func (s *ChatService) MarkAllRead(ctx context.Context, userUID string) (int, error) {
	count, err := s.repo.MarkAllMessagesRead(ctx, userUID)
	if err != nil {
		return 0, err
	}
	s.invalidate(userUID)
	return count, nil
}

// Send stores a message, invalidates the recipient's unread cache, pushes
// a real-time event, and queues an email relay when the recipient has an
// email on file. The recipient must belong to the sender's organization.
func (s *ChatService) Send(ctx context.Context, orgID, fromUID, toUID, body string) (*models.Message, error) {
	recipient, err := s.repo.GetUser(ctx, toUID)
	if err != nil || recipient.OrgID != orgID {
		return nil, ErrRecipientNotFound
	}

	msg, err := s.repo.CreateMessage(ctx, models.Message{
		OrgID:   orgID,
		FromUID: fromUID,
		ToUID:   toUID,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(toUID)

	ev, err := events.NewEvent(events.TypeMessage, orgID, toUID, map[string]any{
		"id":         msg.ID,
		"from_uid":   msg.FromUID,
		"body":       msg.Body,
		"created_at": msg.CreatedAt,
	})
	if err == nil {
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.log.Warn("failed to publish message event", sl.Err(err))
		}
	}

	s.queueRelay(ctx, orgID, recipient, body)
	return msg, nil
}

func (s *ChatService) invalidate(userUID string) {
	if err := s.cache.Invalidate(unreadKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate unread cache", slog.String("user_uid", userUID), sl.Err(err))
	}
}

func (s *ChatService) queueRelay(ctx context.Context, orgID string, recipient *models.User, body string) {
	if recipient.Email == "" {
		return
	}
	org, err := s.repo.GetOrg(ctx, orgID)
	if err != nil {
		s.log.Warn("failed to load org for relay", sl.Err(err))
		return
	}
	relay := models.MessageRelay{
		Email:    recipient.Email,
		FullName: recipient.FullName(),
		OrgName:  org.Name,
		Body:     body,
	}
	if err := s.relay.PublishMessageRelay(relay); err != nil {
		s.log.Warn("failed to queue message relay", sl.Err(err))
	}
}
