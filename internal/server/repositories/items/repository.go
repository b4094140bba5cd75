// Package items stores the resources owned by users.
package items

import (
	"context"

	"github.com/dmitrijs2005/jwtclient/internal/server/models"
)

type Repository interface {
	// Create stores item. The caller assigns the id.
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	// ListByUser returns the user's items oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Item, error)
}
