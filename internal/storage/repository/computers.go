package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// UpsertComputer records that a kiosk machine checked in.
func (s *Storage) UpsertComputer(ctx context.Context, orgID, name string) error {
	const op = "storage.UpsertComputer"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO computers (org_id, name, last_seen_at)
			  VALUES ($1, $2, now())
			  ON CONFLICT (org_id, name) DO UPDATE SET last_seen_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, orgID, name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListComputers returns an organization's computers with the active session
// and its user, when one is running.
func (s *Storage) ListComputers(ctx context.Context, orgID string) ([]*models.Computer, error) {
	const op = "storage.ListComputers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.name, c.org_id, c.last_seen_at,
			      s.user_uid, u.first_name || ' ' || u.last_name,
			      s.started_at, s.remaining_seconds
			  FROM computers c
			  LEFT JOIN sessions s ON s.org_id = c.org_id AND s.computer_name = c.name AND s.is_active
			  LEFT JOIN users u ON u.uid = s.user_uid
			  WHERE c.org_id = $1
			  ORDER BY c.name`
	rows, err := s.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Computer
	for rows.Next() {
		var c models.Computer
		var userUID, userName sql.NullString
		var startedAt sql.NullTime
		var remaining sql.NullInt64
		if err := rows.Scan(&c.Name, &c.OrgID, &c.LastSeenAt,
			&userUID, &userName, &startedAt, &remaining); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if userUID.Valid {
			c.ActiveUserUID = &userUID.String
		}
		if userName.Valid {
			c.ActiveUserName = &userName.String
		}
		if startedAt.Valid {
			c.SessionStartedAt = &startedAt.Time
		}
		if remaining.Valid {
			v := int(remaining.Int64)
			c.RemainingSeconds = &v
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
