// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Two schemas live here: [Config] for the API server and [ClientConfig] for the
binderctl terminal client. Neither is stored globally; both are passed to the
components that need them through constructors.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/pokebinder/internal/platform/constants"
)

// # Server Configuration Schema

// Config holds all runtime configuration for the binder API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageDriver selects the binder backend: memory, badger or postgres.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"badger"`

	// BadgerPath is the on-disk directory of the embedded store.
	BadgerPath string `env:"BADGER_PATH" envDefault:"./data/binders"`

	// Relational Database (PostgreSQL), required by the postgres driver only.
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Optional read-through document cache (Redis)
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// JWTPubKeyPath enables bearer authentication when set.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`

	// DemoUserID owns every anonymous request when bearer authentication is off.
	DemoUserID string `env:"DEMO_USER_ID" envDefault:"demo"`

	// Card catalog used to enrich placements
	CatalogSeedPath  string `env:"CATALOG_SEED_PATH"`
	CatalogCacheSize int    `env:"CATALOG_CACHE_SIZE" envDefault:"1024"`

	// Cross-Origin Resource Sharing, comma-separated origin suffixes.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))

	switch c.StorageDriver {
	case constants.StorageMemory:
	case constants.StorageBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("config: BADGER_PATH is required by the %s driver", c.StorageDriver)
		}
	case constants.StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required by the %s driver", c.StorageDriver)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q (want %s, %s or %s)",
			c.StorageDriver, constants.StorageMemory, constants.StorageBadger, constants.StoragePostgres)
	}

	if c.JWTPubKeyPath == "" && c.DemoUserID == "" {
		return fmt.Errorf("config: DEMO_USER_ID is required when JWT_PUBLIC_KEY_PATH is unset")
	}
	if c.CatalogCacheSize < 1 {
		return fmt.Errorf("config: CATALOG_CACHE_SIZE must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the origin suffixes accepted outside development.
func (c *Config) AllowedOrigins() []string {
	return append([]string{constants.AuthIssuer}, c.ExtraOrigins...)
}

// # Client Configuration Schema

// ClientConfig holds the settings of the binderctl terminal client.
type ClientConfig struct {
	APIURL      string        `env:"BINDER_API_URL"      envDefault:"http://localhost:8080/api/v1"`
	APIToken    string        `env:"BINDER_API_TOKEN"`
	HistoryFile string        `env:"BINDER_HISTORY_FILE" envDefault:"/tmp/binderctl_history"`
	Timeout     time.Duration `env:"BINDER_TIMEOUT"      envDefault:"10s"`

	// Offline mode: binders live in a local badger store instead of the API
	LocalPath string `env:"BINDER_LOCAL_PATH"`
	LocalUser string `env:"BINDER_LOCAL_USER" envDefault:"demo"`
}

// Offline reports whether the client works against a local store.
func (c *ClientConfig) Offline() bool {
	return c.LocalPath != ""
}

// LoadClient parses environment variables into a [ClientConfig] struct.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse client environment: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("config: BINDER_API_URL must not be empty")
	}

	return cfg, nil
}
