package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
	"github.com/dmitrijs2005/jwtclient/internal/client/config"
	"github.com/dmitrijs2005/jwtclient/internal/client/health"
	"github.com/dmitrijs2005/jwtclient/internal/client/metrics"
	"github.com/dmitrijs2005/jwtclient/internal/client/services"
	"github.com/dmitrijs2005/jwtclient/internal/client/session"
	"github.com/dmitrijs2005/jwtclient/internal/client/workers"
	"github.com/dmitrijs2005/jwtclient/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App wires the session manager, the health monitor and the worker pool to
// an interactive prompt.
type App struct {
	config    *config.Config
	logger    logging.Logger
	logSink   io.Closer
	db        *sql.DB
	servers   services.ServerConfigService
	transport *client.HTTPTransport
	health    client.HealthAPI
	session   *session.Manager
	monitor   *health.Monitor
	pool      *workers.Pool
	metrics   *metrics.Metrics
	reader    *bufio.Reader
	out       io.Writer

	lastHealth atomic.Value
}

// NewApp opens the local database, resolves the saved server address and
// builds every component. The returned App owns the database and the log
// file; Run closes them.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	sink, err := logging.OpenLogFile(c.LogFile)
	if err != nil {
		return nil, err
	}
	logger := logging.NewTextLogger(sink, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		_ = sink.Close()
		return nil, err
	}

	servers := services.NewServerConfigService(db, c.ServerHost, c.ServerPort)
	host, port, err := servers.GetServerAddress(ctx)
	if err != nil {
		_ = db.Close()
		_ = sink.Close()
		return nil, fmt.Errorf("read server address: %w", err)
	}

	m := metrics.New()
	transport := client.NewHTTPTransport(services.BaseURL(host, port),
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
		client.WithObserver(m),
	)

	a := newApp(c, logger, transport, m, os.Stdin, os.Stdout)
	a.db = db
	a.servers = servers
	a.logSink = sink
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, transport *client.HTTPTransport, m *metrics.Metrics, in io.Reader, out io.Writer) *App {
	a := &App{
		config:    c,
		logger:    logger,
		transport: transport,
		health:    client.NewHealthClient(transport),
		metrics:   m,
		reader:    bufio.NewReader(in),
		out:       out,
	}

	a.session = session.NewManager(
		client.NewAuthClient(transport),
		client.NewResourceClient(transport),
		session.WithLogger(logger),
		session.WithGauge(m),
	)
	a.monitor = health.NewMonitor(a.health,
		health.WithInterval(c.HealthCheckInterval),
		health.WithLogger(logger),
		health.WithRecorder(m),
		health.WithOnResult(a.onHealth),
	)
	a.pool = workers.New(c.Workers, logger)
	return a
}

// Run starts the background components and blocks in the prompt until the
// user exits or stdin closes.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.monitor.Start(ctx); err != nil {
		return err
	}

	if a.config.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, a.config.MetricsAddr, a.logger); err != nil {
				a.logger.Error(ctx, "metrics endpoint failed", "error", err)
			}
		}()
	}

	say("jwtclient (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)

	return a.Close()
}

// Close stops the health monitor, waits for running actions and releases
// the database and the log file.
func (a *App) Close() error {
	a.monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.pool.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("workers: %w", err))
	}
	if err := a.session.Drain(ctx); err != nil {
		errs = append(errs, fmt.Errorf("session: %w", err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if a.logSink != nil {
		_ = a.logSink.Close()
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.Authenticated
}

func (a *App) serverStatus() health.Status {
	res, ok := a.monitor.Last()
	if !ok {
		return "UNKNOWN"
	}
	return res.Status
}

func (a *App) status() string {
	return fmt.Sprintf("(%s, server %s)", a.session.State(), a.serverStatus())
}

// onHealth prints a line only when reachability flips.
func (a *App) onHealth(res health.Result) {
	prev, _ := a.lastHealth.Swap(res.Status).(health.Status)
	if prev == res.Status {
		return
	}
	if res.Status == health.StatusOK {
		say("[health] server is reachable")
		return
	}
	say("[health] server is unreachable:", res.Detail)
}

// dispatch runs fn on the worker pool. Failures are printed with their
// category; onOK receives the body of a successful call.
func (a *App) dispatch(action string, fn func(ctx context.Context) ([]byte, error), onOK func([]byte)) error {
	return dispatchValue(a, action, fn, onOK)
}

func dispatchValue[T any](a *App, action string, fn func(ctx context.Context) (T, error), onOK func(T)) error {
	err := workers.Go(a.pool, action, fn, func(v T, err error) {
		if err != nil {
			fail(action, err)
			return
		}
		onOK(v)
	})
	if err != nil {
		if errors.Is(err, workers.ErrPoolBusy) {
			say(fmt.Sprintf("%s: too many actions in progress, try again", action))
		} else {
			say(fmt.Sprintf("%s: %v", action, err))
		}
	}
	return err
}
