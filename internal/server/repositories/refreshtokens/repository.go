// Package refreshtokens records issued refresh tokens so they can be
// revoked before they expire.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/jwtclient/internal/server/models"
)

// Repository tracks refresh tokens by JWT id.
type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find returns common.ErrorNotFound when the id was never issued or has
	// been deleted.
	Find(ctx context.Context, id string) (*models.RefreshToken, error)

	// Delete revokes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
