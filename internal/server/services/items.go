package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/server/models"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/repomanager"
	"github.com/oklog/ulid/v2"
)

// ItemService manages the items owned by a user.
type ItemService struct {
	repos repomanager.RepositoryManager
}

func NewItemService(m repomanager.RepositoryManager) *ItemService {
	return &ItemService{repos: m}
}

func (s *ItemService) List(ctx context.Context, userID string) ([]models.Item, error) {
	items, err := s.repos.Items().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return items, nil
}

// Create stores a new item under a ULID, so ids sort by creation time.
func (s *ItemService) Create(ctx context.Context, userID, title, description string) (*models.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	item := &models.Item{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	created, err := s.repos.Items().Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}
	return created, nil
}
