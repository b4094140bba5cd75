// Package httpapi exposes the user and item services over JSON/HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"github.com/dmitrijs2005/jwtclient/internal/server/models"
	"github.com/dmitrijs2005/jwtclient/internal/server/services"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, login, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type ItemService interface {
	List(ctx context.Context, userID string) ([]models.Item, error)
	Create(ctx context.Context, userID, title, description string) (*models.Item, error)
}

type Server struct {
	address   string
	users     UserService
	items     ItemService
	logger    logging.Logger
	jwtSecret []byte
	limiters  *limiterRegistry
	now       func() time.Time
}

// NewServer builds a server listening on addr. authRate is the number of
// auth requests per second allowed for one client IP.
func NewServer(addr string, l logging.Logger, us UserService, is ItemService, secretKey string, authRate int) *Server {
	return &Server{
		address:   addr,
		users:     us,
		items:     is,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		limiters:  newLimiterRegistry(authRate),
		now:       time.Now,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go s.limiters.sweepEvery(ctx, limiterSweepInterval, limiterIdleTTL)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
