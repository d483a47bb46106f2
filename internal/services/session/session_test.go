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
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSession(ctx context.Context, orgID, userUID, computerName string) (*models.Session, error) {
	args := m.Called(ctx, orgID, userUID, computerName)
	resp, _ := args.Get(0).(*models.Session)
	return resp, args.Error(1)
}

func (m *RepoMock) GetActiveSessionByUser(ctx context.Context, userUID string) (*models.Session, error) {
	args := m.Called(ctx, userUID)
	resp, _ := args.Get(0).(*models.Session)
	return resp, args.Error(1)
}

func (m *RepoMock) EndSession(ctx context.Context, orgID, userUID, reason string) (*models.Session, error) {
	args := m.Called(ctx, orgID, userUID, reason)
	resp, _ := args.Get(0).(*models.Session)
	return resp, args.Error(1)
}

func (m *RepoMock) UpsertComputer(ctx context.Context, orgID, name string) error {
	return m.Called(ctx, orgID, name).Error(0)
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

type BusMock struct{ mock.Mock }

func (m *BusMock) Publish(ctx context.Context, ev events.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const alwaysOpen = "00:00-23:59,00:00-23:59,00:00-23:59,00:00-23:59,00:00-23:59,00:00-23:59,00:00-23:59"

// Monday noon.
var monNoon = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func TestSessionService_Start(t *testing.T) {
	org := &models.Org{ID: "org1", OperatingHours: alwaysOpen}
	user := &models.User{UID: "u1", OrgID: "org1", TimeBalanceSeconds: 3600}
	sess := &models.Session{ID: 7, OrgID: "org1", UserUID: "u1", ComputerName: "pc-01",
		RemainingSeconds: 3600, IsActive: true}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, bus *BusMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(repo *RepoMock, bus *BusMock) {
				repo.On("GetOrg", mock.Anything, "org1").Return(org, nil).Once()
				repo.On("GetUser", mock.Anything, "u1").Return(user, nil).Once()
				repo.On("GetActiveSessionByUser", mock.Anything, "u1").
					Return(nil, repository.ErrNoActiveSession).Once()
				repo.On("UpsertComputer", mock.Anything, "org1", "pc-01").Return(nil).Once()
				repo.On("CreateSession", mock.Anything, "org1", "u1", "pc-01").Return(sess, nil).Once()
				bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "closed today",
			setupMocks: func(repo *RepoMock, bus *BusMock) {
				closed := &models.Org{ID: "org1", OperatingHours: "-,-,-,-,-,-,-"}
				repo.On("GetOrg", mock.Anything, "org1").Return(closed, nil).Once()
			},
			wantErr: ErrOutsideOperatingHours,
		},
		{
			name: "no time balance",
			setupMocks: func(repo *RepoMock, bus *BusMock) {
				broke := &models.User{UID: "u1", OrgID: "org1", TimeBalanceSeconds: 0}
				repo.On("GetOrg", mock.Anything, "org1").Return(org, nil).Once()
				repo.On("GetUser", mock.Anything, "u1").Return(broke, nil).Once()
			},
			wantErr: ErrNoTimeBalance,
		},
		{
			name: "already active",
			setupMocks: func(repo *RepoMock, bus *BusMock) {
				repo.On("GetOrg", mock.Anything, "org1").Return(org, nil).Once()
				repo.On("GetUser", mock.Anything, "u1").Return(user, nil).Once()
				repo.On("GetActiveSessionByUser", mock.Anything, "u1").Return(sess, nil).Once()
			},
			wantErr: ErrSessionConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			bus := new(BusMock)
			tt.setupMocks(repo, bus)

			svc := NewSessionService(repo, bus, newNoopLogger())
			svc.now = func() time.Time { return monNoon }

			got, err := svc.Start(context.Background(), "org1", "u1", "pc-01")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, sess, got)
			}
			repo.AssertExpectations(t)
			bus.AssertExpectations(t)
		})
	}
}

func TestSessionService_End(t *testing.T) {
	reason := models.EndReasonUserLogout
	endedAt := monNoon

	t.Run("active session ends and publishes", func(t *testing.T) {
		repo := new(RepoMock)
		bus := new(BusMock)
		sess := &models.Session{ID: 7, UserUID: "u1", EndReason: &reason, EndedAt: &endedAt}
		repo.On("EndSession", mock.Anything, "org1", "u1", reason).Return(sess, nil).Once()
		bus.On("Publish", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
			return ev.Type == events.TypeSessionEnded && ev.UserUID == "u1"
		})).Return(nil).Once()

		svc := NewSessionService(repo, bus, newNoopLogger())
		got, err := svc.End(context.Background(), "org1", "u1", reason)
		assert.NoError(t, err)
		assert.Equal(t, sess, got)
		bus.AssertExpectations(t)
	})

	t.Run("replay with the same reason publishes nothing", func(t *testing.T) {
		repo := new(RepoMock)
		bus := new(BusMock)
		sess := &models.Session{ID: 7, UserUID: "u1", EndReason: &reason, EndedAt: &endedAt}
		repo.On("EndSession", mock.Anything, "org1", "u1", reason).
			Return(sess, repository.ErrSessionAlreadyEnded).Once()

		svc := NewSessionService(repo, bus, newNoopLogger())
		got, err := svc.End(context.Background(), "org1", "u1", reason)
		assert.NoError(t, err)
		assert.Equal(t, &reason, got.EndReason)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("already ended for another reason is a silent no-op", func(t *testing.T) {
		repo := new(RepoMock)
		bus := new(BusMock)
		recorded := models.EndReasonTimeExpired
		sess := &models.Session{ID: 7, UserUID: "u1", EndReason: &recorded, EndedAt: &endedAt}
		repo.On("EndSession", mock.Anything, "org1", "u1", reason).
			Return(sess, repository.ErrSessionAlreadyEnded).Once()

		svc := NewSessionService(repo, bus, newNoopLogger())
		got, err := svc.End(context.Background(), "org1", "u1", reason)
		assert.NoError(t, err)
		assert.Equal(t, &recorded, got.EndReason)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("no session at all", func(t *testing.T) {
		repo := new(RepoMock)
		bus := new(BusMock)
		repo.On("EndSession", mock.Anything, "org1", "u1", reason).
			Return(nil, repository.ErrNoActiveSession).Once()

		svc := NewSessionService(repo, bus, newNoopLogger())
		_, err := svc.End(context.Background(), "org1", "u1", reason)
		assert.True(t, errors.Is(err, repository.ErrNoActiveSession))
	})
}
