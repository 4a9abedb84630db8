package repository

import (
	"context"
	"fmt"

	"github.com/0xHy0kR1/LF-backend/internal/model"
)

// AppendNotification adds an entry to an item's notification log.
// ID and CreatedAt are filled from the database.
func (r *Repository) AppendNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO item_notifications (item_id, user_id, message, is_read)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, n.ItemID, n.UserID, n.Message, n.IsRead).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to append notification: %w", err)
	}

	return nil
}

// ListNotifications returns an item's log in append order.
func (r *Repository) ListNotifications(ctx context.Context, itemID string) ([]*model.Notification, error) {
	query := `
		SELECT id, item_id, user_id, message, is_read, created_at
		FROM item_notifications
		WHERE item_id = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.ItemID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return out, nil
}
