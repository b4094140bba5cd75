package items

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]models.Item
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string][]models.Item)}
}

func (r *MemoryRepository) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.CreatedAt = time.Now().UTC()
	r.byUser[item.UserID] = append(r.byUser[item.UserID], *item)
	return item, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]models.Item, 0, len(r.byUser[userID])), r.byUser[userID]...), nil
}
