package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/flagx"
)

var clientFlags = []string{"-a", "-d", "-i", "-t", "-w", "-l", "-f", "-m"}

// parseFlags overlays cfg with the flags it knows about. Other arguments are
// filtered out first so that flags owned by other components do not clash.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("jwtclient", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addr := fs.String("a", net.JoinHostPort(cfg.ServerHost, cfg.ServerPort), "host:port of the server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	interval := fs.Int("i", int(cfg.HealthCheckInterval.Seconds()), "health check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "worker pool size")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "log file")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(flagx.FilterArgs(args, clientFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			host, port, splitErr := net.SplitHostPort(*addr)
			if splitErr != nil {
				err = fmt.Errorf("parse -a %q: %w", *addr, splitErr)
				return
			}
			cfg.ServerHost, cfg.ServerPort = host, port
		case "i":
			cfg.HealthCheckInterval = time.Duration(*interval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return err
}
