// Package services contains the session reaper: a ticker loop that
// decrements every active session, pushes the countdown to kiosks, and
// force-ends sessions that ran out of time or crossed closing time.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/hours"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// ReaperRepository describes the storage methods the reaper needs.
type ReaperRepository interface {
	TickActiveSessions(ctx context.Context, step int) ([]models.SessionTick, error)
	GetOrg(ctx context.Context, orgID string) (*models.Org, error)
}

// SessionEnder closes a session with a reason and emits the matching
// event. Satisfied by the session service.
type SessionEnder interface {
	End(ctx context.Context, orgID, userUID, reason string) (*models.Session, error)
}

// ReaperService drives the countdown for every active session.
type ReaperService struct {
	repo     ReaperRepository
	sessions SessionEnder
	bus      events.Publisher
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewReaperService creates a new ReaperService ticking at interval.
func NewReaperService(repo ReaperRepository, sessions SessionEnder, bus events.Publisher, log *slog.Logger, interval time.Duration) *ReaperService {
	return &ReaperService{
		repo:     repo,
		sessions: sessions,
		bus:      bus,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until ctx is canceled.
func (s *ReaperService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("session reaper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session reaper stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one reaper pass: decrement all active sessions, publish the
// new countdowns, and end the sessions that expired or fell outside the
// organization's operating hours.
func (s *ReaperService) Tick(ctx context.Context) {
	step := int(s.interval / time.Second)
	ticks, err := s.repo.TickActiveSessions(ctx, step)
	if err != nil {
		s.log.Error("failed to tick sessions", sl.Err(err))
		return
	}

	// Org schedules are reused across sessions within one pass.
	weeks := make(map[string]hours.Week)
	for _, t := range ticks {
		s.publishTimeUpdated(ctx, t)

		if t.RemainingSeconds <= 0 {
			s.end(ctx, t, models.EndReasonTimeExpired)
			continue
		}
		if open := s.orgOpen(ctx, weeks, t.OrgID); !open {
			s.end(ctx, t, models.EndReasonOutsideHours)
		}
	}
}

func (s *ReaperService) publishTimeUpdated(ctx context.Context, t models.SessionTick) {
	ev, err := events.NewEvent(events.TypeTimeUpdated, t.OrgID, t.UserUID, map[string]any{
		"session_id":        t.SessionID,
		"remaining_seconds": t.RemainingSeconds,
	})
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish countdown", slog.Int("session_id", t.SessionID), sl.Err(err))
	}
}

func (s *ReaperService) orgOpen(ctx context.Context, weeks map[string]hours.Week, orgID string) bool {
	week, ok := weeks[orgID]
	if !ok {
		org, err := s.repo.GetOrg(ctx, orgID)
		if err != nil {
			s.log.Warn("failed to load org schedule", slog.String("org_id", orgID), sl.Err(err))
			return true
		}
		week, err = hours.ParseWeek(org.OperatingHours)
		if err != nil {
			s.log.Warn("invalid org schedule", slog.String("org_id", orgID), sl.Err(err))
			return true
		}
		weeks[orgID] = week
	}
	open, _ := week.IsOpen(s.now())
	return open
}

func (s *ReaperService) end(ctx context.Context, t models.SessionTick, reason string) {
	if _, err := s.sessions.End(ctx, t.OrgID, t.UserUID, reason); err != nil {
		s.log.Error("failed to end session",
			slog.Int("session_id", t.SessionID),
			slog.String("reason", reason),
			sl.Err(err))
		return
	}
	s.log.Info("session ended by reaper",
		slog.Int("session_id", t.SessionID),
		slog.String("user_uid", t.UserUID),
		slog.String("reason", reason))
}
