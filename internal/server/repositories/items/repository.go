// Package items stores encrypted notes. Every query is scoped by owner, so a
// foreign item is indistinguishable from a missing one.
package items

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	Get(ctx context.Context, userID, id string) (*models.Item, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Item, error)
	Delete(ctx context.Context, userID, id string) error
}
