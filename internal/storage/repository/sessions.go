package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

var (
	// ErrNoActiveSession is returned when an operation expects a live
	// session and none exists.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionAlreadyEnded is returned by EndSession alongside the most
	// recently ended session when there was nothing left to close. Callers
	// use it to skip the session_ended fan-out on replayed ends.
	ErrSessionAlreadyEnded = errors.New("session already ended")
)

const sessionColumns = `id, org_id, user_uid, computer_name, started_at,
			      remaining_seconds, is_active, ended_at, end_reason`

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	s := &models.Session{}
	var endedAt sql.NullTime
	var endReason sql.NullString
	if err := row.Scan(&s.ID, &s.OrgID, &s.UserUID, &s.ComputerName, &s.StartedAt,
		&s.RemainingSeconds, &s.IsActive, &endedAt, &endReason); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	if endReason.Valid {
		s.EndReason = &endReason.String
	}
	return s, nil
}

// CreateSession inserts a new active session seeded with the user's current
// time balance. Partial unique indexes reject a second active session for
// the same user or computer.
func (s *Storage) CreateSession(ctx context.Context, orgID, userUID, computerName string) (*models.Session, error) {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO sessions (org_id, user_uid, computer_name, remaining_seconds)
			  SELECT $1, $2, $3, time_balance_seconds
			  FROM users WHERE uid = $2
			  RETURNING ` + sessionColumns
	sess, err := scanSession(s.DB.QueryRowContext(ctx, query, orgID, userUID, computerName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// GetActiveSessionByUser returns the user's active session, or
// ErrNoActiveSession.
func (s *Storage) GetActiveSessionByUser(ctx context.Context, userUID string) (*models.Session, error) {
	const op = "storage.GetActiveSessionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
			  FROM sessions
			  WHERE user_uid = $1 AND is_active`
	sess, err := scanSession(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSession)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// EndSession closes the user's active session within the org and returns
// it. When nothing is active the most recently ended session is returned
// together with ErrSessionAlreadyEnded, so callers can report the recorded
// end reason without treating the replay as a fresh end.
func (s *Storage) EndSession(ctx context.Context, orgID, userUID, reason string) (*models.Session, error) {
	const op = "storage.EndSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE sessions
			  SET is_active = false, ended_at = now(), end_reason = $1
			  WHERE org_id = $2 AND user_uid = $3 AND is_active
			  RETURNING ` + sessionColumns
	sess, err := scanSession(s.DB.QueryRowContext(ctx, query, reason, orgID, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		last, lastErr := s.lastEndedSession(ctx, orgID, userUID)
		if lastErr != nil {
			return nil, lastErr
		}
		return last, fmt.Errorf("%s: %w", op, ErrSessionAlreadyEnded)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

func (s *Storage) lastEndedSession(ctx context.Context, orgID, userUID string) (*models.Session, error) {
	const op = "storage.lastEndedSession"
	query := `SELECT ` + sessionColumns + `
			  FROM sessions
			  WHERE org_id = $1 AND user_uid = $2 AND NOT is_active
			  ORDER BY ended_at DESC
			  LIMIT 1`
	sess, err := scanSession(s.DB.QueryRowContext(ctx, query, orgID, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSession)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// TickActiveSessions subtracts step seconds from every active session and
// from the owning user's time balance in one statement, clamping both at
// zero, and returns the post-tick state of each touched session.
func (s *Storage) TickActiveSessions(ctx context.Context, step int) ([]models.SessionTick, error) {
	const op = "storage.TickActiveSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH ticked AS (
			      UPDATE sessions
			      SET remaining_seconds = GREATEST(remaining_seconds - $1, 0)
			      WHERE is_active
			      RETURNING id, org_id, user_uid, remaining_seconds
			  )
			  UPDATE users u
			  SET time_balance_seconds = t.remaining_seconds
			  FROM ticked t
			  WHERE u.uid = t.user_uid
			  RETURNING t.id, t.org_id, t.user_uid, t.remaining_seconds`
	rows, err := s.DB.QueryContext(ctx, query, step)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SessionTick
	for rows.Next() {
		var t models.SessionTick
		if err := rows.Scan(&t.SessionID, &t.OrgID, &t.UserUID, &t.RemainingSeconds); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
