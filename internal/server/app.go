// Package server wires the reference auth server: storage, services and the
// HTTP API. It shuts down on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"github.com/dmitrijs2005/jwtclient/internal/server/config"
	"github.com/dmitrijs2005/jwtclient/internal/server/httpapi"
	"github.com/dmitrijs2005/jwtclient/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jwtclient/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *services.UserService
	itemService *services.ItemService
}

// NewApp opens the repositories: PostgreSQL when a DSN is configured,
// process memory otherwise.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	slog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(c.LogLevel)}))
	logger := logging.NewSlogLogger(slog)

	repos, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, repos), nil
}

func newApp(c *config.Config, logger logging.Logger, repos repomanager.RepositoryManager) *App {
	return &App{
		config:      c,
		logger:      logger,
		repos:       repos,
		userService: services.NewUserService(repos, c),
		itemService: services.NewItemService(repos),
	}
}

func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, data is kept in memory")
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.itemService,
		app.config.SecretKey, app.config.AuthRateLimit)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done, a signal arrives or the listener fails, then
// closes the repositories.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "Stopping app...")
	return app.repos.Close()
}
