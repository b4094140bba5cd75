package config

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jwtclient/internal/flagx"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "JWTCLIENT_"

// loadSources overlays cfg with the config file named by -c/-config and
// then with JWTCLIENT_* environment variables. Keys absent from both keep
// their current values.
func loadSources(cfg *Config, args []string) error {
	k := koanf.New(".")

	if path := flagx.ConfigFileFlag(args); path != "" {
		// YAML is a superset of JSON, so one parser covers both.
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
