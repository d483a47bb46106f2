package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) TickActiveSessions(ctx context.Context, step int) ([]models.SessionTick, error) {
	args := m.Called(ctx, step)
	resp, _ := args.Get(0).([]models.SessionTick)
	return resp, args.Error(1)
}

func (m *RepoMock) GetOrg(ctx context.Context, orgID string) (*models.Org, error) {
	args := m.Called(ctx, orgID)
	resp, _ := args.Get(0).(*models.Org)
	return resp, args.Error(1)
}

type SessionsMock struct{ mock.Mock }

func (m *SessionsMock) End(ctx context.Context, orgID, userUID, reason string) (*models.Session, error) {
	args := m.Called(ctx, orgID, userUID, reason)
	resp, _ := args.Get(0).(*models.Session)
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

func newReaper(repo *RepoMock, sessions *SessionsMock, bus *BusMock) *ReaperService {
	svc := NewReaperService(repo, sessions, bus, newNoopLogger(), 30*time.Second)
	svc.now = func() time.Time { return monNoon }
	return svc
}

func TestReaperService_Tick(t *testing.T) {
	t.Run("running session only gets a countdown", func(t *testing.T) {
		repo, sessions, bus := new(RepoMock), new(SessionsMock), new(BusMock)
		repo.On("TickActiveSessions", mock.Anything, 30).Return([]models.SessionTick{
			{SessionID: 7, OrgID: "org1", UserUID: "u1", RemainingSeconds: 570},
		}, nil).Once()
		repo.On("GetOrg", mock.Anything, "org1").
			Return(&models.Org{ID: "org1", OperatingHours: alwaysOpen}, nil).Once()
		bus.On("Publish", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
			return ev.Type == events.TypeTimeUpdated && ev.UserUID == "u1"
		})).Return(nil).Once()

		newReaper(repo, sessions, bus).Tick(context.Background())
		sessions.AssertNotCalled(t, "End", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		bus.AssertExpectations(t)
	})

	t.Run("expired session is ended", func(t *testing.T) {
		repo, sessions, bus := new(RepoMock), new(SessionsMock), new(BusMock)
		repo.On("TickActiveSessions", mock.Anything, 30).Return([]models.SessionTick{
			{SessionID: 7, OrgID: "org1", UserUID: "u1", RemainingSeconds: 0},
		}, nil).Once()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
		sessions.On("End", mock.Anything, "org1", "u1", models.EndReasonTimeExpired).
			Return(&models.Session{ID: 7}, nil).Once()

		newReaper(repo, sessions, bus).Tick(context.Background())
		sessions.AssertExpectations(t)
		repo.AssertNotCalled(t, "GetOrg", mock.Anything, mock.Anything)
	})

	t.Run("session past closing time is ended", func(t *testing.T) {
		repo, sessions, bus := new(RepoMock), new(SessionsMock), new(BusMock)
		repo.On("TickActiveSessions", mock.Anything, 30).Return([]models.SessionTick{
			{SessionID: 7, OrgID: "org1", UserUID: "u1", RemainingSeconds: 570},
		}, nil).Once()
		repo.On("GetOrg", mock.Anything, "org1").
			Return(&models.Org{ID: "org1", OperatingHours: "-,-,-,-,-,-,-"}, nil).Once()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
		sessions.On("End", mock.Anything, "org1", "u1", models.EndReasonOutsideHours).
			Return(&models.Session{ID: 7}, nil).Once()

		newReaper(repo, sessions, bus).Tick(context.Background())
		sessions.AssertExpectations(t)
	})

	t.Run("org schedule is loaded once per pass", func(t *testing.T) {
		repo, sessions, bus := new(RepoMock), new(SessionsMock), new(BusMock)
		repo.On("TickActiveSessions", mock.Anything, 30).Return([]models.SessionTick{
			{SessionID: 7, OrgID: "org1", UserUID: "u1", RemainingSeconds: 570},
			{SessionID: 8, OrgID: "org1", UserUID: "u2", RemainingSeconds: 120},
		}, nil).Once()
		repo.On("GetOrg", mock.Anything, "org1").
			Return(&models.Org{ID: "org1", OperatingHours: alwaysOpen}, nil).Once()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Twice()

		newReaper(repo, sessions, bus).Tick(context.Background())
		repo.AssertNumberOfCalls(t, "GetOrg", 1)
	})

	t.Run("unreadable schedule keeps the session alive", func(t *testing.T) {
		repo, sessions, bus := new(RepoMock), new(SessionsMock), new(BusMock)
		repo.On("TickActiveSessions", mock.Anything, 30).Return([]models.SessionTick{
			{SessionID: 7, OrgID: "org1", UserUID: "u1", RemainingSeconds: 570},
		}, nil).Once()
		repo.On("GetOrg", mock.Anything, "org1").
			Return(&models.Org{ID: "org1", OperatingHours: "garbage"}, nil).Once()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

		newReaper(repo, sessions, bus).Tick(context.Background())
		sessions.AssertNotCalled(t, "End", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
