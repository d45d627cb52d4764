package activity

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, a *models.Activity) error {
	query := `
		INSERT INTO activity_log (user_id, action, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, a.UserID, a.Action, a.IP, a.UserAgent).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListRecent returns at most limit entries for userID, newest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, action, ip_address, user_agent, created_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.IP, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
