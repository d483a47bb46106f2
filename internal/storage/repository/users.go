package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// ErrUserNotFound is returned when an org-scoped user operation matches no
// row, including a uid that belongs to another organization.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `uid, org_id, phone, first_name, last_name, email, password_hash,
			      role, time_balance_seconds, print_balance, created_at, last_seen_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var lastSeen sql.NullTime
	if err := row.Scan(&u.UID, &u.OrgID, &u.Phone, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Role, &u.TimeBalanceSeconds, &u.PrintBalance,
		&u.CreatedAt, &lastSeen); err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		u.LastSeenAt = &lastSeen.Time
	}
	return u, nil
}

// RegisterUser stores a new user and returns its uid.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (org_id, phone, first_name, last_name, email, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.OrgID, user.Phone, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByPhone returns the user with the given login phone within an org.
func (s *Storage) GetUserByPhone(ctx context.Context, orgID, phone string) (*models.User, error) {
	const op = "storage.GetUserByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE org_id = $1 AND phone = $2`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, orgID, phone))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser returns the user with the given uid.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsersByOrg returns every user of an organization ordered by creation.
func (s *Storage) ListUsersByOrg(ctx context.Context, orgID string) ([]*models.User, error) {
	const op = "storage.ListUsersByOrg"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE org_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AdjustBalance applies a signed delta to a user's time and print balances
// within the org. The results are clamped at zero; the updated user is
// returned. A uid outside the org gets ErrUserNotFound.
func (s *Storage) AdjustBalance(ctx context.Context, orgID, userUID string, adj models.BalanceAdjustment) (*models.User, error) {
	const op = "storage.AdjustBalance"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET time_balance_seconds = GREATEST(time_balance_seconds + $1, 0),
			      print_balance = GREATEST(print_balance + $2, 0)
			  WHERE org_id = $3 AND uid = $4
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, adj.TimeSeconds, adj.Prints, orgID, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetRole updates a user's role within the org. A uid outside the org gets
// ErrUserNotFound.
func (s *Storage) SetRole(ctx context.Context, orgID, userUID, role string) error {
	const op = "storage.SetRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE org_id = $2 AND uid = $3`
	res, err := s.DB.ExecContext(ctx, query, role, orgID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// TouchLastSeen records a successful login.
func (s *Storage) TouchLastSeen(ctx context.Context, userUID string) error {
	const op = "storage.TouchLastSeen"
	query := `UPDATE users SET last_seen_at = now() WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
