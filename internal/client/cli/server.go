package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/client/services"
)

var errNoConfigStore = errors.New("server address store is not configured")

// ShowServer prints the saved server address and the base URL in use.
func (a *App) ShowServer(ctx context.Context) error {
	if a.servers == nil {
		say("Server:", a.transport.BaseURL())
		return nil
	}
	host, port, err := a.servers.GetServerAddress(ctx)
	if err != nil {
		fail("server", err)
		return err
	}
	say(fmt.Sprintf("Server: %s:%s (%s)", host, port, a.transport.BaseURL()))
	return nil
}

// SetServer saves host and port and points subsequent requests at them.
// Requests already in flight keep the address they started with.
func (a *App) SetServer(ctx context.Context, host, port string) error {
	host, port, err := services.ValidateAddress(host, port)
	if err != nil {
		say(err)
		return err
	}
	if a.servers == nil {
		say(errNoConfigStore)
		return errNoConfigStore
	}
	if err := a.servers.SaveServerAddress(ctx, host, port); err != nil {
		fail("setserver", err)
		return err
	}
	a.transport.SetBaseURL(services.BaseURL(host, port))
	a.logger.Info(ctx, "server address changed", "host", host, "port", port)
	say("Server set to", a.transport.BaseURL())
	return nil
}

// ResetServer forgets the saved address and falls back to the configured
// one.
func (a *App) ResetServer(ctx context.Context) error {
	if a.servers == nil {
		say(errNoConfigStore)
		return errNoConfigStore
	}
	if err := a.servers.ResetServerAddress(ctx); err != nil {
		fail("resetserver", err)
		return err
	}
	host, port, err := a.servers.GetServerAddress(ctx)
	if err != nil {
		fail("resetserver", err)
		return err
	}
	a.transport.SetBaseURL(services.BaseURL(host, port))
	say("Server reset to", a.transport.BaseURL())
	return nil
}

// Health runs a one-off probe on the pool, next to the monitor's own.
func (a *App) Health(ctx context.Context) error {
	return a.dispatch("health", a.health.Health, func(body []byte) {
		say("Server OK:", string(body))
	})
}

// Status prints session, reachability and pool state.
func (a *App) Status(ctx context.Context) error {
	say("Session:", a.session.State())
	if res, ok := a.monitor.Last(); ok {
		line := fmt.Sprintf("Server:  %s at %s", res.Status, res.ObservedAt.Format(time.TimeOnly))
		if res.Detail != "" {
			line += " (" + res.Detail + ")"
		}
		say(line)
	} else {
		say("Server:  UNKNOWN")
	}
	say(fmt.Sprintf("Workers: %d/%d busy", a.pool.Active(), a.pool.Size()))
	return nil
}
