package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if QUINIELA_CONFIG is set
//  3. env (prefix QUINIELA_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("QUINIELA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: QUINIELA_ADDR, QUINIELA_STORE_DRIVER, ...
	// Map env keys like QUINIELA_STORE_DRIVER -> store_driver (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("QUINIELA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "quiniela_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	}
	if c.StoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres_dsn must not be empty", ErrInvalidConfig)
	}
	if c.MaxStandingsLimit <= 0 {
		return fmt.Errorf("%w: max_standings_limit must be positive", ErrInvalidConfig)
	}
	if c.ColumnCost < 0 || c.DoublesCost < 0 || c.WeeklyDue < 0 {
		return fmt.Errorf("%w: costs must not be negative", ErrInvalidConfig)
	}
	return nil
}
