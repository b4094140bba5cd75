package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/repomanager"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService(t *testing.T) {
	s := NewItemService(repomanager.NewMemoryRepositoryManager())
	ctx := context.Background()

	a, err := s.Create(ctx, "1", " First ", "d1")
	require.NoError(t, err)
	assert.Equal(t, "First", a.Title)
	_, err = ulid.ParseStrict(a.ID)
	assert.NoError(t, err)

	_, err = s.Create(ctx, "1", "Second", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "2", "Other", "")
	require.NoError(t, err)

	list, err := s.List(ctx, "1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)
	assert.Equal(t, "Second", list[1].Title)

	_, err = s.Create(ctx, "1", "   ", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
