// Package services contains the server business logic. UserService handles
// registration, login, and issuing, refreshing and revoking tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/cryptox"
	"github.com/dmitrijs2005/jwtclient/internal/server/auth"
	"github.com/dmitrijs2005/jwtclient/internal/server/config"
	"github.com/dmitrijs2005/jwtclient/internal/server/models"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/repomanager"
)

// TokenPair is what login and refresh hand back. RefreshToken is empty after
// a refresh without rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type UserService struct {
	repos      repomanager.RepositoryManager
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	rotate     bool
	hashParams cryptox.Params
}

type UserOption func(*UserService)

// WithHashParams overrides the argon2id cost.
func WithHashParams(p cryptox.Params) UserOption {
	return func(s *UserService) { s.hashParams = p }
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, opts ...UserOption) *UserService {
	s := &UserService{
		repos:      m,
		jwtSecret:  []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		rotate:     cfg.RotateRefreshTokens,
		hashParams: cryptox.DefaultParams,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user. Missing fields yield common.ErrorValidation, a
// taken username or email common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	user := &models.User{
		UserName:     username,
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password), s.hashParams),
	}
	u, err := s.repos.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login accepts the username or the email as login.
func (s *UserService) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	if strings.TrimSpace(login) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	user, err := s.repos.Users().GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(password))
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = s.repos.InTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, tx, user.ID)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a live refresh token for a new access token. With
// rotation enabled the refresh token is replaced as well and the old one
// revoked. Revoked tokens yield common.ErrRefreshTokenRevoked.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken, auth.RefreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = s.repos.InTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		repo := tx.RefreshTokens()
		if _, err := repo.Find(ctx, claims.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrRefreshTokenRevoked
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}

		if !s.rotate {
			access, err := s.generateAccessToken(claims.UserID)
			if err != nil {
				return err
			}
			pair = &TokenPair{AccessToken: access, ExpiresIn: s.accessTTL}
			return nil
		}

		if err := repo.Delete(ctx, claims.ID); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, tx, claims.UserID)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes refreshToken. Revoking an already revoked token succeeds.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := auth.ParseToken(refreshToken, auth.RefreshToken, s.jwtSecret)
	if err != nil {
		return err
	}
	if err := s.repos.RefreshTokens().Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repos.Users().GetByID(ctx, userID)
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	tok, _, err := auth.GenerateToken(userID, auth.AccessToken, s.jwtSecret, s.accessTTL)
	if err != nil {
		return "", common.ErrorInternal
	}
	return tok, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, tx repomanager.RepositoryManager, userID string) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := auth.GenerateToken(userID, auth.RefreshToken, s.jwtSecret, s.refreshTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	record := &models.RefreshToken{ID: claims.ID, UserID: userID, Expires: claims.ExpiresAt.Time}
	if err := tx.RefreshTokens().Create(ctx, record); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: s.accessTTL}, nil
}
