package repository

import (
	"context"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// GetOrg returns an organization's metadata.
func (s *Storage) GetOrg(ctx context.Context, orgID string) (*models.Org, error) {
	const op = "storage.GetOrg"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, contact_phone, contact_email, operating_hours
			  FROM orgs
			  WHERE id = $1`
	var o models.Org
	if err := s.DB.QueryRowContext(ctx, query, orgID).Scan(&o.ID, &o.Name,
		&o.ContactPhone, &o.ContactEmail, &o.OperatingHours); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// UpdateOperatingHours replaces an organization's weekly schedule.
func (s *Storage) UpdateOperatingHours(ctx context.Context, orgID, operatingHours string) error {
	const op = "storage.UpdateOperatingHours"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orgs SET operating_hours = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, operatingHours, orgID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: org %s not found", op, orgID)
	}
	return nil
}

// GetPrintPricing returns an organization's per-page print prices.
func (s *Storage) GetPrintPricing(ctx context.Context, orgID string) (*models.PrintPricing, error) {
	const op = "storage.GetPrintPricing"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT print_bw_price, print_color_price FROM orgs WHERE id = $1`
	var p models.PrintPricing
	if err := s.DB.QueryRowContext(ctx, query, orgID).Scan(&p.BlackWhite, &p.Color); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// UpdatePrintPricing replaces an organization's per-page print prices.
func (s *Storage) UpdatePrintPricing(ctx context.Context, orgID string, p models.PrintPricing) error {
	const op = "storage.UpdatePrintPricing"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orgs SET print_bw_price = $1, print_color_price = $2 WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, p.BlackWhite, p.Color, orgID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: org %s not found", op, orgID)
	}
	return nil
}

// GetOrgStats aggregates the counters shown on the admin overview page.
func (s *Storage) GetOrgStats(ctx context.Context, orgID string) (*models.OrgStats, error) {
	const op = "storage.GetOrgStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM users WHERE org_id = $1),
			      (SELECT COUNT(*) FROM sessions WHERE org_id = $1 AND is_active),
			      (SELECT COUNT(*) FROM messages WHERE org_id = $1 AND NOT is_read),
			      (SELECT COUNT(*) FROM purchases WHERE org_id = $1 AND status = 'completed'
			          AND completed_at::DATE = CURRENT_DATE),
			      (SELECT COALESCE(SUM(amount), 0) FROM purchases WHERE org_id = $1 AND status = 'completed'
			          AND completed_at::DATE = CURRENT_DATE)`
	var st models.OrgStats
	if err := s.DB.QueryRowContext(ctx, query, orgID).Scan(&st.TotalUsers, &st.ActiveSessions,
		&st.UnreadMessages, &st.PurchasesToday, &st.RevenueToday); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &st, nil
}
