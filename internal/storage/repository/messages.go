package repository

import (
	"context"
	"fmt"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// CreateMessage stores a chat message and returns it with ID and timestamp.
func (s *Storage) CreateMessage(ctx context.Context, m models.Message) (*models.Message, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO messages (org_id, from_uid, to_uid, body)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		m.OrgID, m.FromUID, m.ToUID, m.Body).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// ListUnreadMessages returns a user's unread messages, oldest first.
func (s *Storage) ListUnreadMessages(ctx context.Context, userUID string) ([]*models.Message, error) {
	const op = "storage.ListUnreadMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, org_id, from_uid, to_uid, body, is_read, created_at
			  FROM messages
			  WHERE to_uid = $1 AND NOT is_read
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.OrgID, &m.FromUID, &m.ToUID, &m.Body,
			&m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkMessageRead marks one of the user's messages read and returns the
// number of changed rows. A foreign message id changes nothing.
func (s *Storage) MarkMessageRead(ctx context.Context, userUID string, id int) (int, error) {
	const op = "storage.MarkMessageRead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE messages SET is_read = true WHERE id = $1 AND to_uid = $2 AND NOT is_read`
	res, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// MarkAllMessagesRead marks every unread message of the user as read.
func (s *Storage) MarkAllMessagesRead(ctx context.Context, userUID string) (int, error) {
	const op = "storage.MarkAllMessagesRead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE messages SET is_read = true WHERE to_uid = $1 AND NOT is_read`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
