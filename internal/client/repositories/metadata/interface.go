// Package metadata is a key/value store over the client's SQLite database.
// It backs the saved server address.
package metadata

import (
	"context"

	"github.com/dmitrijs2005/jwtclient/internal/dbx"
)

// Repository reads and writes opaque values by key.
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)

	// WithDB returns a repository bound to db, typically a transaction.
	WithDB(db dbx.DBTX) Repository
}
