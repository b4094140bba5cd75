// Package repomanager vends the server repositories for one storage backend
// and runs multi-step changes as a unit.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/items"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Items() items.Repository

	// InTx runs fn with a manager whose repositories commit or roll back
	// together. Calls must not nest.
	InTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error

	Close() error
}
