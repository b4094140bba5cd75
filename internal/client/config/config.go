package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the jwtclient CLI.
type Config struct {
	ServerHost          string        `koanf:"server_host"`
	ServerPort          string        `koanf:"server_port"`
	DatabasePath        string        `koanf:"database_path"`
	HealthCheckInterval time.Duration `koanf:"health_check_interval"`
	RequestTimeout      time.Duration `koanf:"request_timeout"`
	Workers             int           `koanf:"workers"`
	LogLevel            string        `koanf:"log_level"`
	LogFile             string        `koanf:"log_file"`
	MetricsAddr         string        `koanf:"metrics_addr"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerHost = "localhost"
	c.ServerPort = "5003"
	c.DatabasePath = "jwtclient.db"
	c.HealthCheckInterval = 10 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.Workers = 4
	c.LogLevel = "info"
	c.LogFile = ""
	c.MetricsAddr = ""
}

// LoadConfig builds a Config from defaults, the config file, the environment
// and os.Args, in that order of precedence.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig over explicit arguments.
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
	if c.ServerHost == "" || c.ServerPort == "" {
		errs = append(errs, errors.New("server host and port are required"))
	}
	if c.HealthCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("health check interval must be positive, got %s", c.HealthCheckInterval))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	return errors.Join(errs...)
}
