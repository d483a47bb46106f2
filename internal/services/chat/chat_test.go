package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	args := m.Called(ctx, msg)
	resp, _ := args.Get(0).(*models.Message)
	return resp, args.Error(1)
}

func (m *RepoMock) ListUnreadMessages(ctx context.Context, userUID string) ([]*models.Message, error) {
	args := m.Called(ctx, userUID)
	resp, _ := args.Get(0).([]*models.Message)
	return resp, args.Error(1)
}

func (m *RepoMock) MarkMessageRead(ctx context.Context, userUID string, id int) (int, error) {
	args := m.Called(ctx, userUID, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) MarkAllMessagesRead(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	resp, _ := args.Get(0).(*models.User)
	return resp, args.Error(1)
}

func (m *RepoMock) GetOrg(ctx context.Context, orgID string) (*models.Org, error) {
	args := m.Called(ctx, orgID)
	resp, _ := args.Get(0).(*models.Org)
	return resp, args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type BusMock struct{ mock.Mock }

func (m *BusMock) Publish(ctx context.Context, ev events.Event) error {
	return m.Called(ctx, ev).Error(0)
}

type RelayMock struct{ mock.Mock }

func (m *RelayMock) PublishMessageRelay(relay models.MessageRelay) error {
	return m.Called(relay).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newChatService(repo *RepoMock, cache *CacheMock, bus *BusMock, relay *RelayMock) *ChatService {
	return NewChatService(repo, cache, bus, relay, newNoopLogger())
}

func TestChatService_Unread(t *testing.T) {
	msgs := []*models.Message{{ID: 1, ToUID: "u1", Body: "hello"}}

	t.Run("cache miss falls through and refills", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		cache.On("Get", "chat:unread:u1", mock.Anything).Return(false, nil).Once()
		repo.On("ListUnreadMessages", mock.Anything, "u1").Return(msgs, nil).Once()
		cache.On("Set", "chat:unread:u1", msgs, time.Minute).Return(nil).Once()

		svc := newChatService(repo, cache, new(BusMock), new(RelayMock))
		got, err := svc.Unread(context.Background(), "u1", true)
		assert.NoError(t, err)
		assert.Equal(t, msgs, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		cache.On("Get", "chat:unread:u1", mock.Anything).Return(true, nil).Once()

		svc := newChatService(repo, cache, new(BusMock), new(RelayMock))
		_, err := svc.Unread(context.Background(), "u1", true)
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "ListUnreadMessages", mock.Anything, mock.Anything)
	})

	t.Run("use_cache false always reads storage", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("ListUnreadMessages", mock.Anything, "u1").Return(msgs, nil).Once()
		cache.On("Set", "chat:unread:u1", msgs, time.Minute).Return(nil).Once()

		svc := newChatService(repo, cache, new(BusMock), new(RelayMock))
		got, err := svc.Unread(context.Background(), "u1", false)
		assert.NoError(t, err)
		assert.Equal(t, msgs, got)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestChatService_MarkRead(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	repo.On("MarkMessageRead", mock.Anything, "u1", 5).Return(1, nil).Once()
	cache.On("Invalidate", "chat:unread:u1").Return(nil).Once()

	svc := newChatService(repo, cache, new(BusMock), new(RelayMock))
	count, err := svc.MarkRead(context.Background(), "u1", 5)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	cache.AssertExpectations(t)
}

func TestChatService_Send(t *testing.T) {
	stored := &models.Message{ID: 9, OrgID: "org1", FromUID: "admin1", ToUID: "u1", Body: "hi"}

	t.Run("delivers event and email relay", func(t *testing.T) {
		repo, cache, bus, relay := new(RepoMock), new(CacheMock), new(BusMock), new(RelayMock)
		repo.On("GetUser", mock.Anything, "u1").
			Return(&models.User{UID: "u1", OrgID: "org1", FirstName: "Dana", Email: "dana@example.com"}, nil).Once()
		repo.On("CreateMessage", mock.Anything, mock.Anything).Return(stored, nil).Once()
		cache.On("Invalidate", "chat:unread:u1").Return(nil).Once()
		bus.On("Publish", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
			return ev.Type == events.TypeMessage && ev.UserUID == "u1"
		})).Return(nil).Once()
		repo.On("GetOrg", mock.Anything, "org1").
			Return(&models.Org{ID: "org1", Name: "City Library"}, nil).Once()
		relay.On("PublishMessageRelay", models.MessageRelay{
			Email:    "dana@example.com",
			FullName: "Dana",
			OrgName:  "City Library",
			Body:     "hi",
		}).Return(nil).Once()

		svc := newChatService(repo, cache, bus, relay)
		got, err := svc.Send(context.Background(), "org1", "admin1", "u1", "hi")
		assert.NoError(t, err)
		assert.Equal(t, stored, got)
		relay.AssertExpectations(t)
	})

	t.Run("recipient without email gets no relay", func(t *testing.T) {
		repo, cache, bus, relay := new(RepoMock), new(CacheMock), new(BusMock), new(RelayMock)
		repo.On("GetUser", mock.Anything, "u1").
			Return(&models.User{UID: "u1", OrgID: "org1", FirstName: "Dana"}, nil).Once()
		repo.On("CreateMessage", mock.Anything, mock.Anything).Return(stored, nil).Once()
		cache.On("Invalidate", "chat:unread:u1").Return(nil).Once()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

		svc := newChatService(repo, cache, bus, relay)
		_, err := svc.Send(context.Background(), "org1", "admin1", "u1", "hi")
		assert.NoError(t, err)
		relay.AssertNotCalled(t, "PublishMessageRelay", mock.Anything)
	})

	t.Run("recipient of another org is rejected", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUser", mock.Anything, "u9").
			Return(&models.User{UID: "u9", OrgID: "org2"}, nil).Once()

		svc := newChatService(repo, new(CacheMock), new(BusMock), new(RelayMock))
		_, err := svc.Send(context.Background(), "org1", "admin1", "u9", "hi")
		assert.ErrorIs(t, err, ErrRecipientNotFound)
		repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})

	t.Run("unknown recipient is rejected", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUser", mock.Anything, "ghost").
			Return(nil, errors.New("no rows")).Once()

		svc := newChatService(repo, new(CacheMock), new(BusMock), new(RelayMock))
		_, err := svc.Send(context.Background(), "org1", "admin1", "ghost", "hi")
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})

	t.Run("storage failure bubbles up", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUser", mock.Anything, "u1").
			Return(&models.User{UID: "u1", OrgID: "org1"}, nil).Once()
		repo.On("CreateMessage", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		svc := newChatService(repo, new(CacheMock), new(BusMock), new(RelayMock))
		_, err := svc.Send(context.Background(), "org1", "admin1", "u1", "hi")
		assert.Error(t, err)
	})
}
