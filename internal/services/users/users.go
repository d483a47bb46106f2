// Package services contains the admin user management operations: the
// user list, balance adjustments, role grants and kicking an active
// session.
package services

import (
	"context"
	"log/slog"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// UserAdminRepository describes the storage methods the admin flow needs.
// Every mutation is scoped to the admin's organization.
type UserAdminRepository interface {
	ListUsersByOrg(ctx context.Context, orgID string) ([]*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	AdjustBalance(ctx context.Context, orgID, userUID string, adj models.BalanceAdjustment) (*models.User, error)
	SetRole(ctx context.Context, orgID, userUID, role string) error
}

// SessionEnder ends a user's session with a reason. Satisfied by the
// session service so kicks reuse the normal end path.
type SessionEnder interface {
	End(ctx context.Context, orgID, userUID, reason string) (*models.Session, error)
}

// UserAdminService implements the admin user operations.
type UserAdminService struct {
	repo     UserAdminRepository
	sessions SessionEnder
	bus      events.Publisher
	log      *slog.Logger
}

// NewUserAdminService creates a new UserAdminService.
func NewUserAdminService(repo UserAdminRepository, sessions SessionEnder, bus events.Publisher, log *slog.Logger) *UserAdminService {
	return &UserAdminService{
		repo:     repo,
		sessions: sessions,
		bus:      bus,
		log:      log,
	}
}

// List returns every user of the organization.
func (s *UserAdminService) List(ctx context.Context, orgID string) ([]*models.User, error) {
	return s.repo.ListUsersByOrg(ctx, orgID)
}

// AdjustBalance applies a signed delta to a user's balances, clamped at
// zero in storage, and pushes the fresh balances to the user's kiosk.
func (s *UserAdminService) AdjustBalance(ctx context.Context, orgID, userUID string, adj models.BalanceAdjustment) (*models.User, error) {
	user, err := s.repo.AdjustBalance(ctx, orgID, userUID, adj)
	if err != nil {
		return nil, err
	}
	s.log.Info("balance adjusted",
		slog.String("user_uid", userUID),
		slog.Int("time_delta", adj.TimeSeconds),
		slog.Int("prints_delta", adj.Prints))

	ev, err := events.NewEvent(events.TypeBalanceUpdated, orgID, userUID, map[string]any{
		"time_balance_seconds": user.TimeBalanceSeconds,
		"print_balance":        user.PrintBalance,
	})
	if err == nil {
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.log.Warn("failed to publish balance event", sl.Err(err))
		}
	}
	return user, nil
}

// GrantAdmin promotes a user of the organization to the admin role.
func (s *UserAdminService) GrantAdmin(ctx context.Context, orgID, userUID string) error {
	if err := s.repo.SetRole(ctx, orgID, userUID, "admin"); err != nil {
		return err
	}
	s.log.Info("admin role granted", slog.String("user_uid", userUID))
	return nil
}

// Kick force-ends the user's active session and tells the kiosk to log
// out. Kicking a user with no active session still sends the logout.
func (s *UserAdminService) Kick(ctx context.Context, orgID, userUID string) error {
	if _, err := s.sessions.End(ctx, orgID, userUID, models.EndReasonKicked); err != nil {
		s.log.Warn("kick found no session to end", slog.String("user_uid", userUID), sl.Err(err))
	}

	ev, err := events.NewEvent(events.TypeForceLogout, orgID, userUID, map[string]any{
		"reason": models.EndReasonKicked,
	})
	if err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		return err
	}
	s.log.Info("user kicked", slog.String("user_uid", userUID))
	return nil
}
