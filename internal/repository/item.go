package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrItemNotFound is returned when no item matches the given id.
var ErrItemNotFound = errors.New("item not found")

// ItemFilter narrows ListItems. A nil IsLost matches every item.
type ItemFilter struct {
	IsLost *bool
}

const itemColumns = `id, owner_id, title, description, category, location, sq_question, sq_answer, image_key, is_lost, created_at, updated_at`

// CreateItem inserts a new lost item.
func (r *Repository) CreateItem(ctx context.Context, item *model.LostItem) error {
	query := `
		INSERT INTO lost_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	question, answer := securityColumns(item.SecurityQuestion)

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.OwnerID,
		item.Title,
		item.Description,
		item.Category,
		item.Location,
		question,
		answer,
		item.ImageKey,
		item.IsLost,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetItemByID retrieves an item by its ID.
func (r *Repository) GetItemByID(ctx context.Context, id string) (*model.LostItem, error) {
	query := `SELECT ` + itemColumns + ` FROM lost_items WHERE id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return item, nil
}

// ListItems returns items newest first.
func (r *Repository) ListItems(ctx context.Context, filter ItemFilter) ([]*model.LostItem, error) {
	query := `SELECT ` + itemColumns + ` FROM lost_items`
	var args []any

	if filter.IsLost != nil {
		query += ` WHERE is_lost = $1`
		args = append(args, *filter.IsLost)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*model.LostItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// UpdateItem overwrites an item's mutable fields. Owner and creation time never change.
func (r *Repository) UpdateItem(ctx context.Context, item *model.LostItem) error {
	query := `
		UPDATE lost_items
		SET title = $2, description = $3, category = $4, location = $5,
		    sq_question = $6, sq_answer = $7, image_key = $8, is_lost = $9, updated_at = $10
		WHERE id = $1
	`

	question, answer := securityColumns(item.SecurityQuestion)

	result, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		item.Location,
		question,
		answer,
		item.ImageKey,
		item.IsLost,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem removes an item and, by cascade, its notification log.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM lost_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func securityColumns(sq *model.SecurityQuestion) (*string, *string) {
	if sq == nil || sq.Question == "" {
		return nil, nil
	}
	question, answer := sq.Question, sq.Answer
	return &question, &answer
}

// scanItem scans a single row into a LostItem model.
func scanItem(row pgx.Row) (*model.LostItem, error) {
	var (
		item     model.LostItem
		question *string
		answer   *string
	)
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Location,
		&question,
		&answer,
		&item.ImageKey,
		&item.IsLost,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if question != nil && *question != "" {
		item.SecurityQuestion = &model.SecurityQuestion{Question: *question}
		if answer != nil {
			item.SecurityQuestion.Answer = *answer
		}
	}

	return &item, nil
}
