package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// ErrPurchaseNotPending is returned when a webhook references a purchase
// that has already reached a terminal status. Completion is idempotent for
// callers that treat this error as "already done".
var ErrPurchaseNotPending = errors.New("purchase is not pending")

// CreatePurchase inserts a pending purchase and returns its ID.
func (s *Storage) CreatePurchase(ctx context.Context, p models.Purchase) (int, error) {
	const op = "storage.CreatePurchase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO purchases (uid, org_id, user_uid, package_id, package_name, amount, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.UID, p.OrgID, p.UserUID, p.PackageID, p.PackageName, p.Amount, models.PurchaseStatusPending).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CompletePurchase transitions a pending purchase to completed and credits
// the buyer's balances in one transaction. The guard on status makes the
// webhook idempotent: a repeat call finds no pending row and gets
// ErrPurchaseNotPending.
//
// When the buyer has an active session its countdown is extended by the
// purchased minutes in the same transaction. The reaper mirrors the session
// countdown back into the user balance every tick, so a credit that skips
// the session row would be wiped on the next tick.
func (s *Storage) CompletePurchase(ctx context.Context, purchaseUID string) (*models.Purchase, error) {
	const op = "storage.CompletePurchase"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE purchases
			  SET status = $1, completed_at = now()
			  WHERE uid = $2 AND status = $3
			  RETURNING id, uid, org_id, user_uid, package_id, package_name, amount, status, created_at, completed_at`
	var p models.Purchase
	var completedAt sql.NullTime
	err = tx.QueryRowContext(ctx, query,
		models.PurchaseStatusCompleted, purchaseUID, models.PurchaseStatusPending).Scan(
		&p.ID, &p.UID, &p.OrgID, &p.UserUID, &p.PackageID, &p.PackageName,
		&p.Amount, &p.Status, &p.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPurchaseNotPending)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}

	creditQuery := `UPDATE users u
			  SET time_balance_seconds = u.time_balance_seconds + pkg.minutes * 60,
			      print_balance = u.print_balance + pkg.prints
			  FROM packages pkg
			  WHERE u.uid = $1 AND pkg.id = $2`
	if _, err = tx.ExecContext(ctx, creditQuery, p.UserUID, p.PackageID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	extendQuery := `UPDATE sessions s
			  SET remaining_seconds = s.remaining_seconds + pkg.minutes * 60
			  FROM packages pkg
			  WHERE s.user_uid = $1 AND s.is_active AND pkg.id = $2`
	if _, err = tx.ExecContext(ctx, extendQuery, p.UserUID, p.PackageID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// FailPurchase marks a pending purchase failed or canceled.
func (s *Storage) FailPurchase(ctx context.Context, purchaseUID, status string) error {
	const op = "storage.FailPurchase"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE purchases
			  SET status = $1, completed_at = now()
			  WHERE uid = $2 AND status = $3`
	res, err := s.DB.ExecContext(ctx, query, status, purchaseUID, models.PurchaseStatusPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrPurchaseNotPending)
	}
	return nil
}

// ListUserPurchases returns a user's purchase history, newest first.
func (s *Storage) ListUserPurchases(ctx context.Context, userUID string, limit, offset int) ([]*models.Purchase, error) {
	const op = "storage.ListUserPurchases"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, uid, org_id, user_uid, package_id, package_name, amount, status, created_at, completed_at
			  FROM purchases
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Purchase
	for rows.Next() {
		var p models.Purchase
		var completedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.UID, &p.OrgID, &p.UserUID, &p.PackageID,
			&p.PackageName, &p.Amount, &p.Status, &p.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if completedAt.Valid {
			p.CompletedAt = &completedAt.Time
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
