package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/cryptox"
	"github.com/dmitrijs2005/jwtclient/internal/server/auth"
	"github.com/dmitrijs2005/jwtclient/internal/server/config"
	"github.com/dmitrijs2005/jwtclient/internal/server/models"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapHash = cryptox.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newUserService(t *testing.T, rotate bool) (*UserService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.RotateRefreshTokens = rotate
	m := repomanager.NewMemoryRepositoryManager()
	return NewUserService(m, cfg, WithHashParams(cheapHash)), m
}

func registerAlice(t *testing.T, s *UserService) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), "alice", "alice@example.com", "secret")
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	s, _ := newUserService(t, false)
	ctx := context.Background()

	u := registerAlice(t, s)
	assert.Equal(t, "alice", u.UserName)
	assert.NotEqual(t, "secret", u.PasswordHash)

	_, err := s.Register(ctx, "alice", "x@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.Register(ctx, "bob", "  ", "pw")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	s, m := newUserService(t, false)
	u := registerAlice(t, s)
	ctx := context.Background()

	for _, login := range []string{"alice", "alice@example.com"} {
		pair, err := s.Login(ctx, login, "secret")
		require.NoError(t, err, login)
		assert.Equal(t, 15*time.Minute, pair.ExpiresIn)

		userID, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, u.ID, userID)

		claims, err := auth.ParseToken(pair.RefreshToken, auth.RefreshToken, []byte("k"))
		require.NoError(t, err)
		_, err = m.RefreshTokens().Find(ctx, claims.ID)
		assert.NoError(t, err, "refresh token must be recorded")
	}
}

func TestLogin_Rejects(t *testing.T) {
	s, _ := newUserService(t, false)
	registerAlice(t, s)
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "", "secret")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRefresh_WithoutRotation(t *testing.T) {
	s, _ := newUserService(t, false)
	registerAlice(t, s)
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	next, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	assert.Empty(t, next.RefreshToken)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err, "unrotated refresh token stays valid")
}

func TestRefresh_WithRotationRevokesOld(t *testing.T) {
	s, _ := newUserService(t, true)
	registerAlice(t, s)
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	next, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.RefreshToken)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenRevoked)

	_, err = s.Refresh(ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsAccessTokenAndGarbage(t *testing.T) {
	s, _ := newUserService(t, false)
	registerAlice(t, s)
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = s.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = s.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	s, _ := newUserService(t, false)
	registerAlice(t, s)
	ctx := context.Background()

	pair, err := s.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, pair.RefreshToken))
	require.NoError(t, s.Logout(ctx, pair.RefreshToken))

	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenRevoked)

	assert.ErrorIs(t, s.Logout(ctx, "garbage"), common.ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	s, _ := newUserService(t, false)
	u := registerAlice(t, s)

	got, err := s.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = s.Profile(context.Background(), "404")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

type brokenUsers struct{ users.Repository }

func (brokenUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errors.New("db down")
}

type brokenManager struct {
	*repomanager.MemoryRepositoryManager
}

func (brokenManager) Users() users.Repository { return brokenUsers{} }

func TestStorageFailures(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	s := NewUserService(brokenManager{repomanager.NewMemoryRepositoryManager()}, cfg, WithHashParams(cheapHash))
	ctx := context.Background()

	_, err := s.Login(ctx, "alice", "secret")
	assert.ErrorIs(t, err, common.ErrorInternal)

	_, err = s.Register(ctx, "alice", "a@b.c", "secret")
	assert.ErrorContains(t, err, "error creating user: db down")
}
