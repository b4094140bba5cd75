// Package config handles configuration for the reference server: defaults,
// an optional JSON or YAML file, JWTSERVER_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the reference server.
//
// Fields:
//   - EndpointAddr: HTTP listen address.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - RotateRefreshTokens: issue a new refresh token on every refresh and
//     revoke the old one.
//   - AuthRateLimit: auth requests per second allowed per client IP.
type Config struct {
	EndpointAddr                 string        `koanf:"endpoint_addr"`
	DatabaseDSN                  string        `koanf:"database_dsn"`
	SecretKey                    string        `koanf:"secret_key"`
	AccessTokenValidityDuration  time.Duration `koanf:"access_token_validity"`
	RefreshTokenValidityDuration time.Duration `koanf:"refresh_token_validity"`
	RotateRefreshTokens          bool          `koanf:"rotate_refresh_tokens"`
	AuthRateLimit                int           `koanf:"auth_rate_limit"`
	LogLevel                     string        `koanf:"log_level"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5003"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.RotateRefreshTokens = false
	c.AuthRateLimit = 10
	c.LogLevel = "info"
}

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadSources(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.EndpointAddr == "" {
		errs = append(errs, errors.New("endpoint address is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("token validity must be positive, got %s/%s",
			c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("auth rate limit must be positive, got %d", c.AuthRateLimit))
	}
	return errors.Join(errs...)
}
