// Package services contains the organization operations: the public
// contact card, operating hours, print pricing and the admin overview
// stats.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/hours"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// OrgRepository describes the organization storage contract.
type OrgRepository interface {
	GetOrg(ctx context.Context, orgID string) (*models.Org, error)
	UpdateOperatingHours(ctx context.Context, orgID, operatingHours string) error
	GetPrintPricing(ctx context.Context, orgID string) (*models.PrintPricing, error)
	UpdatePrintPricing(ctx context.Context, orgID string, p models.PrintPricing) error
	GetOrgStats(ctx context.Context, orgID string) (*models.OrgStats, error)
}

// HoursStatus is the operating-hours answer returned to kiosk clients.
type HoursStatus struct {
	Open     bool   `json:"open"`
	Reason   string `json:"reason,omitempty"`
	Schedule string `json:"schedule"`
}

// OrgService implements organization metadata operations.
type OrgService struct {
	repo OrgRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewOrgService creates a new OrgService.
func NewOrgService(repo OrgRepository, log *slog.Logger) *OrgService {
	return &OrgService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Contact returns the organization's public contact card.
func (s *OrgService) Contact(ctx context.Context, orgID string) (*models.AdminContact, error) {
	org, err := s.repo.GetOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &models.AdminContact{
		Phone:   org.ContactPhone,
		Email:   org.ContactEmail,
		OrgName: org.Name,
	}, nil
}

// Hours reports whether the organization is currently open, with the full
// weekly schedule attached.
func (s *OrgService) Hours(ctx context.Context, orgID string) (*HoursStatus, error) {
	org, err := s.repo.GetOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	week, err := hours.ParseWeek(org.OperatingHours)
	if err != nil {
		return nil, fmt.Errorf("parse operating hours: %w", err)
	}
	open, reason := week.IsOpen(s.now())
	return &HoursStatus{
		Open:     open,
		Reason:   reason,
		Schedule: week.String(),
	}, nil
}

// SetHours validates and stores a new weekly schedule.
func (s *OrgService) SetHours(ctx context.Context, orgID, schedule string) error {
	week, err := hours.ParseWeek(schedule)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateOperatingHours(ctx, orgID, week.String()); err != nil {
		return err
	}
	s.log.Info("operating hours updated", slog.String("org_id", orgID))
	return nil
}

// PrintPricing returns the organization's per-page print prices.
func (s *OrgService) PrintPricing(ctx context.Context, orgID string) (*models.PrintPricing, error) {
	return s.repo.GetPrintPricing(ctx, orgID)
}

// SetPrintPricing stores new per-page print prices.
func (s *OrgService) SetPrintPricing(ctx context.Context, orgID string, p models.PrintPricing) error {
	if err := s.repo.UpdatePrintPricing(ctx, orgID, p); err != nil {
		return err
	}
	s.log.Info("print pricing updated",
		slog.String("org_id", orgID),
		slog.Int("black_white", p.BlackWhite),
		slog.Int("color", p.Color))
	return nil
}

// Stats aggregates the admin overview counters.
func (s *OrgService) Stats(ctx context.Context, orgID string) (*models.OrgStats, error) {
	return s.repo.GetOrgStats(ctx, orgID)
}
