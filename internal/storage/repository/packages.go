package repository

import (
	"context"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// CreatePackage inserts a new package and returns its ID.
func (s *Storage) CreatePackage(ctx context.Context, pkg models.Package) (int, error) {
	const op = "storage.CreatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO packages (org_id, name, price, discount_percent, minutes, prints, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, true)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		pkg.OrgID, pkg.Name, pkg.Price, pkg.DiscountPercent, pkg.Minutes, pkg.Prints).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPackage returns one active package of an organization.
func (s *Storage) GetPackage(ctx context.Context, orgID string, id int) (*models.Package, error) {
	const op = "storage.GetPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, org_id, name, price, discount_percent, minutes, prints, is_active
			  FROM packages
			  WHERE org_id = $1 AND id = $2 AND is_active`
	var p models.Package
	if err := s.DB.QueryRowContext(ctx, query, orgID, id).Scan(&p.ID, &p.OrgID, &p.Name,
		&p.Price, &p.DiscountPercent, &p.Minutes, &p.Prints, &p.IsActive); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ListPackages returns the active packages of an organization.
func (s *Storage) ListPackages(ctx context.Context, orgID string) ([]*models.Package, error) {
	const op = "storage.ListPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, org_id, name, price, discount_percent, minutes, prints, is_active
			  FROM packages
			  WHERE org_id = $1 AND is_active
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Package
	for rows.Next() {
		var p models.Package
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Price, &p.DiscountPercent,
			&p.Minutes, &p.Prints, &p.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePackage updates a package and returns the number of changed rows.
func (s *Storage) UpdatePackage(ctx context.Context, pkg models.Package, id int) (int, error) {
	const op = "storage.UpdatePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE packages
			  SET name = $1, price = $2, discount_percent = $3, minutes = $4, prints = $5
			  WHERE id = $6 AND org_id = $7 AND is_active`
	result, err := s.DB.ExecContext(ctx, query,
		pkg.Name, pkg.Price, pkg.DiscountPercent, pkg.Minutes, pkg.Prints, id, pkg.OrgID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePackage soft-deletes a package so past purchases keep referencing it.
func (s *Storage) RemovePackage(ctx context.Context, orgID string, id int) (int, error) {
	const op = "storage.RemovePackage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE packages SET is_active = false WHERE id = $1 AND org_id = $2 AND is_active`
	result, err := s.DB.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
