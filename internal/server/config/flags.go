package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-o", "-l", "-v"}

// parseFlags overlays cfg with command-line flags.
//
//	-a string   HTTP listen address (e.g., ":5003")
//	-d string   PostgreSQL DSN; empty keeps data in memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-o          rotate refresh tokens on refresh
//	-l int      auth requests per second per client IP
//	-v string   log level
//
// Validity flags replace the configured duration only when given.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("jwtserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	access := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refresh := fs.Int("r", int(cfg.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.BoolVar(&cfg.RotateRefreshTokens, "o", cfg.RotateRefreshTokens, "rotate refresh tokens")
	fs.IntVar(&cfg.AuthRateLimit, "l", cfg.AuthRateLimit, "auth requests per second per client")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			cfg.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		}
	})
	return nil
}
