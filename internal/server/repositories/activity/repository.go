// Package activity is the append-only account activity log.
package activity

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, a *models.Activity) error
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.Activity, error)
}
