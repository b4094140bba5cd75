// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/jwtclient/internal/server/models"
)

// Repository is the user store. Create returns common.ErrorAlreadyExists
// when the username or email is taken; lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin matches login against the username or the email.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
