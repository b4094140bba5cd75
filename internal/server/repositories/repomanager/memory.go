package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/items"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. InTx only
// serializes units of work; there is no rollback.
type MemoryRepositoryManager struct {
	txMu          sync.Mutex
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	items         *items.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		items:         items.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *MemoryRepositoryManager) Items() items.Repository {
	return m.items
}

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
