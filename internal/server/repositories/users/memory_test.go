package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	alice, err := r.Create(ctx, &models.User{UserName: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "1", alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	_, err = r.Create(ctx, &models.User{UserName: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	_, err = r.Create(ctx, &models.User{UserName: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	byName, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	byEmail, err := r.GetUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, byName, byEmail)

	byID, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)

	_, err = r.GetByID(ctx, "2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetUserByLogin(ctx, "carol")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
