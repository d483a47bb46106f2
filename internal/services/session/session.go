// Package services contains the business logic for kiosk countdown
// sessions: starting inside operating hours, ending with a recorded
// reason, and publishing the matching real-time events.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/hours"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

// Errors surfaced to the handlers with specific HTTP mappings.
var (
	ErrOutsideOperatingHours = errors.New("outside operating hours")
	ErrNoTimeBalance         = errors.New("no time balance")
	ErrSessionConflict       = errors.New("session already active")
)

// SessionRepository describes the storage methods the session flow needs.
type SessionRepository interface {
	CreateSession(ctx context.Context, orgID, userUID, computerName string) (*models.Session, error)
	GetActiveSessionByUser(ctx context.Context, userUID string) (*models.Session, error)
	EndSession(ctx context.Context, orgID, userUID, reason string) (*models.Session, error)
	UpsertComputer(ctx context.Context, orgID, name string) error
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetOrg(ctx context.Context, orgID string) (*models.Org, error)
}

// SessionService implements session start/end plus the events they emit.
type SessionService struct {
	repo SessionRepository
	bus  events.Publisher
	log  *slog.Logger
	now  func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo SessionRepository, bus events.Publisher, log *slog.Logger) *SessionService {
	return &SessionService{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
}

// Start opens a countdown session on a computer. It refuses outside the
// organization's operating hours, with an empty time balance, or when the
// user already has an active session.
func (s *SessionService) Start(ctx context.Context, orgID, userUID, computerName string) (*models.Session, error) {
	org, err := s.repo.GetOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load org: %w", err)
	}
	week, err := hours.ParseWeek(org.OperatingHours)
	if err != nil {
		return nil, fmt.Errorf("parse operating hours: %w", err)
	}
	if open, reason := week.IsOpen(s.now()); !open {
		return nil, fmt.Errorf("%w: %s", ErrOutsideOperatingHours, reason)
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.TimeBalanceSeconds <= 0 {
		return nil, ErrNoTimeBalance
	}

	if _, err := s.repo.GetActiveSessionByUser(ctx, userUID); err == nil {
		return nil, ErrSessionConflict
	} else if !errors.Is(err, repository.ErrNoActiveSession) {
		return nil, fmt.Errorf("check active session: %w", err)
	}

	if err := s.repo.UpsertComputer(ctx, orgID, computerName); err != nil {
		s.log.Warn("failed to upsert computer", sl.Err(err))
	}

	sess, err := s.repo.CreateSession(ctx, orgID, userUID, computerName)
	if err != nil {
		// The partial unique index on active sessions rejects a taken computer.
		return nil, fmt.Errorf("%w: %v", ErrSessionConflict, err)
	}
	s.log.Info("session started",
		slog.Int("session_id", sess.ID),
		slog.String("user_uid", userUID),
		slog.String("computer", computerName))

	s.publish(ctx, events.TypeSessionStarted, orgID, userUID, map[string]any{
		"session_id":        sess.ID,
		"computer_name":     sess.ComputerName,
		"remaining_seconds": sess.RemainingSeconds,
	})
	return sess, nil
}

// End closes the user's active session with the given reason. Ending an
// already-ended session is a no-op that reports the recorded reason;
// session_ended is published only when this call actually closed a row.
func (s *SessionService) End(ctx context.Context, orgID, userUID, reason string) (*models.Session, error) {
	sess, err := s.repo.EndSession(ctx, orgID, userUID, reason)
	if errors.Is(err, repository.ErrSessionAlreadyEnded) {
		return sess, nil
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeSessionEnded, orgID, userUID, map[string]any{
		"session_id": sess.ID,
		"reason":     reason,
	})
	return sess, nil
}

// Active returns the user's active session, or repository.ErrNoActiveSession.
func (s *SessionService) Active(ctx context.Context, userUID string) (*models.Session, error) {
	return s.repo.GetActiveSessionByUser(ctx, userUID)
}

func (s *SessionService) publish(ctx context.Context, eventType, orgID, userUID string, payload any) {
	ev, err := events.NewEvent(eventType, orgID, userUID, payload)
	if err != nil {
		s.log.Warn("failed to build event", sl.Err(err))
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", eventType), sl.Err(err))
	}
}
