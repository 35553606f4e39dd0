// Package config loads the server settings from the environment.
//
// A .env file in the working directory is read first if there is one;
// variables already set in the real environment win over it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Identity providers.
const (
	ProviderLocal    = "local"
	ProviderSupabase = "supabase"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// RoutePrefix mounts every route under a path, e.g. "/make-server-8768a732".
	RoutePrefix string `env:"ROUTE_PREFIX"`

	Store    StoreConfig
	Identity IdentityConfig
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	// sqlite
	DBPath string `env:"DB_PATH" envDefault:"data/snippets.db"`

	// postgres
	DatabaseURL string `env:"DATABASE_URL"`
	Table       string `env:"KV_TABLE" envDefault:"kv_store"`

	// mongo; the collection defaults to Table
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"snippets"`
	MongoCollection string `env:"MONGO_COLLECTION"`
}

type IdentityConfig struct {
	Provider string `env:"IDENTITY_PROVIDER" envDefault:"local"`

	SupabaseURL            string `env:"SUPABASE_URL"`
	SupabaseServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
}

// Load reads .env (if present) and the environment, then validates the result.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return parse()
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Identity.Provider = strings.ToLower(strings.TrimSpace(c.Identity.Provider))
	c.RoutePrefix = strings.TrimRight(c.RoutePrefix, "/")
	if c.RoutePrefix != "" && !strings.HasPrefix(c.RoutePrefix, "/") {
		c.RoutePrefix = "/" + c.RoutePrefix
	}
	if c.Store.MongoCollection == "" {
		c.Store.MongoCollection = c.Store.Table
	}
	c.Identity.SupabaseURL = strings.TrimRight(c.Identity.SupabaseURL, "/")
}

// Validate reports every problem with the settings at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite store"))
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of memory, sqlite, postgres, mongo", c.Store.Driver))
	}

	switch c.Identity.Provider {
	case ProviderLocal:
	case ProviderSupabase:
		if c.Identity.SupabaseURL == "" || c.Identity.SupabaseServiceRoleKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required for the supabase provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("IDENTITY_PROVIDER %q is not one of local, supabase", c.Identity.Provider))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production") || strings.EqualFold(c.Environment, "prod")
}
