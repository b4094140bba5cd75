package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"golang.org/x/sync/semaphore"
)

// AuthGauge is told whether the session is authenticated after each change.
type AuthGauge interface {
	SetAuthenticated(bool)
}

type Manager struct {
	auth      client.AuthAPI
	resources client.ResourceAPI

	// mutations serializes Login, Refresh and Logout.
	mutations *semaphore.Weighted
	pair      atomic.Pointer[Pair]

	logger   logging.Logger
	gauge    AuthGauge
	onChange func(Pair)
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l.With("module", "session") }
}

func WithGauge(g AuthGauge) Option {
	return func(m *Manager) { m.gauge = g }
}

// WithOnChange registers fn to be called with every new pair. Calls are made
// in mutation order while the mutation lock is held, so fn must not call back
// into Login, Refresh or Logout.
func WithOnChange(fn func(Pair)) Option {
	return func(m *Manager) { m.onChange = fn }
}

func NewManager(auth client.AuthAPI, resources client.ResourceAPI, opts ...Option) *Manager {
	m := &Manager{
		auth:      auth,
		resources: resources,
		mutations: semaphore.NewWeighted(1),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.pair.Store(&Pair{})
	return m
}

// Snapshot returns the current pair. It never blocks.
func (m *Manager) Snapshot() Pair {
	return *m.pair.Load()
}

func (m *Manager) State() State {
	return m.Snapshot().State()
}

func (m *Manager) store(p Pair) {
	m.pair.Store(&p)
	if m.gauge != nil {
		m.gauge.SetAuthenticated(p.State() == Authenticated)
	}
	if m.onChange != nil {
		m.onChange(p)
	}
}

func (m *Manager) lock(ctx context.Context) error {
	return m.mutations.Acquire(ctx, 1)
}

func (m *Manager) unlock() {
	m.mutations.Release(1)
}

// Login replaces the pair with the tokens from a successful login response.
// On any failure the current pair is left as it was.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	_, err := m.LoginPair(ctx, username, password)
	return err
}

// LoginPair is Login returning the pair it stored. A mutation queued behind
// it may already have replaced that pair by the time the caller reads it.
func (m *Manager) LoginPair(ctx context.Context, username, password string) (Pair, error) {
	if err := m.lock(ctx); err != nil {
		return Pair{}, err
	}
	defer m.unlock()

	body, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn(ctx, "login failed", "user", username, "reason", client.Describe(err))
		return Pair{}, fmt.Errorf("login: %w", err)
	}

	access, refresh, err := parseTokens(body)
	if err != nil {
		m.logger.Error(ctx, "login response rejected", "user", username, "error", err)
		return Pair{}, fmt.Errorf("login: %w", err)
	}

	p := Pair{AccessToken: access, RefreshToken: refresh}
	m.store(p)
	m.logger.Info(ctx, "login succeeded", "user", username, "access", Short(access), "has_refresh", refresh != "")
	return p, nil
}

// Register creates an account and returns the raw response body. It does
// not touch the pair.
func (m *Manager) Register(ctx context.Context, username, email, password string) ([]byte, error) {
	body, err := m.auth.Register(ctx, username, email, password)
	if err != nil {
		m.logger.Warn(ctx, "register failed", "user", username, "reason", client.Describe(err))
		return nil, fmt.Errorf("register: %w", err)
	}
	m.logger.Info(ctx, "register succeeded", "user", username)
	return body, nil
}

// Refresh exchanges the refresh token for a new access token. The refresh
// token is replaced only when the server returns a new one. A rejection by
// the server clears the pair; other failures leave it untouched.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err := m.RefreshPair(ctx)
	return err
}

// RefreshPair is Refresh returning the pair it stored.
func (m *Manager) RefreshPair(ctx context.Context) (Pair, error) {
	if err := m.lock(ctx); err != nil {
		return Pair{}, err
	}
	defer m.unlock()

	cur := m.Snapshot()
	if !cur.HasRefreshToken() {
		return Pair{}, ErrNoRefreshToken
	}

	body, err := m.auth.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		if rejected(err) {
			m.store(Pair{})
			m.logger.Warn(ctx, "refresh rejected, session cleared", "reason", client.Describe(err))
		} else {
			m.logger.Warn(ctx, "refresh failed", "reason", client.Describe(err))
		}
		return Pair{}, fmt.Errorf("refresh: %w", err)
	}

	access, refresh, err := parseTokens(body)
	if err != nil {
		m.logger.Error(ctx, "refresh response rejected", "error", err)
		return Pair{}, fmt.Errorf("refresh: %w", err)
	}
	if refresh == "" {
		refresh = cur.RefreshToken
	}

	p := Pair{AccessToken: access, RefreshToken: refresh}
	m.store(p)
	m.logger.Info(ctx, "token refreshed", "access", Short(access), "rotated", refresh != cur.RefreshToken)
	return p, nil
}

// Logout invalidates the refresh token on the server. The pair is cleared
// only when the server accepts; a failure leaves it for a retry.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	cur := m.Snapshot()
	if !cur.HasRefreshToken() {
		return ErrNoRefreshToken
	}

	if _, err := m.auth.Logout(ctx, cur.RefreshToken); err != nil {
		m.logger.Warn(ctx, "logout failed", "reason", client.Describe(err))
		return fmt.Errorf("logout: %w", err)
	}

	m.store(Pair{})
	m.logger.Info(ctx, "logged out")
	return nil
}

// Drain waits until no mutation is running. It is used on shutdown.
func (m *Manager) Drain(ctx context.Context) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	m.unlock()
	return nil
}

func (m *Manager) accessToken() (string, error) {
	tok := m.Snapshot().AccessToken
	if tok == "" {
		return "", ErrNotAuthenticated
	}
	return tok, nil
}

// Profile returns the raw profile body. Errors are returned unchanged.
func (m *Manager) Profile(ctx context.Context) ([]byte, error) {
	tok, err := m.accessToken()
	if err != nil {
		return nil, err
	}
	return m.resources.Profile(ctx, tok)
}

// Items returns the raw item list body. Errors are returned unchanged.
func (m *Manager) Items(ctx context.Context) ([]byte, error) {
	tok, err := m.accessToken()
	if err != nil {
		return nil, err
	}
	return m.resources.Items(ctx, tok)
}

// CreateItem returns the raw body of the created item. Errors are returned
// unchanged.
func (m *Manager) CreateItem(ctx context.Context, title, description string) ([]byte, error) {
	tok, err := m.accessToken()
	if err != nil {
		return nil, err
	}
	return m.resources.CreateItem(ctx, tok, title, description)
}

// rejected reports whether the server refused the refresh token itself: any
// 4xx clears the pair except 408 and 429, which are transient and say
// nothing about the token.
func rejected(err error) bool {
	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) || !httpErr.ClientError() {
		return false
	}
	return httpErr.StatusCode != http.StatusRequestTimeout &&
		httpErr.StatusCode != http.StatusTooManyRequests
}
