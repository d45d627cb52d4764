package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts item and fills its timestamps.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO encrypted_items (id, user_id, title, ciphertext)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, item.ID, item.UserID, item.Title, item.Blob).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update replaces title and blob of an item owned by item.UserID.
// It returns common.ErrorNotFound when no such item exists for that owner.
func (r *PostgresRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE encrypted_items
		SET title = $3, ciphertext = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, item.ID, item.UserID, item.Title, item.Blob).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Item, error) {
	query := `
		SELECT id, user_id, title, ciphertext, created_at, updated_at
		FROM encrypted_items
		WHERE id = $1 AND user_id = $2
	`
	var item models.Item
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&item.ID, &item.UserID, &item.Title, &item.Blob, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// ListByUser returns the user's items, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	query := `
		SELECT id, user_id, title, ciphertext, created_at, updated_at
		FROM encrypted_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	result := []*models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Blob, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM encrypted_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
