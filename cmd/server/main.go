// Command server runs the snippet library API.
//
// main only reads configuration and builds the outer dependencies: the
// logger, the key-value store selected by STORE_DRIVER and the identity
// provider selected by IDENTITY_PROVIDER. Everything else is wired in
// internal/server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/snippet-library/internal/auth"
	"github.com/sakif/snippet-library/internal/config"
	"github.com/sakif/snippet-library/internal/logger"
	"github.com/sakif/snippet-library/internal/repository"
	"github.com/sakif/snippet-library/internal/repository/memory"
	"github.com/sakif/snippet-library/internal/repository/mongodb"
	"github.com/sakif/snippet-library/internal/repository/postgres"
	"github.com/sakif/snippet-library/internal/repository/sqlite"
	"github.com/sakif/snippet-library/internal/server"
)

// connectTimeout bounds the initial connection to a networked store.
const connectTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// The local provider keeps its users in SQLite. When snippets live in
	// SQLite as well, both share one database file.
	var sqliteDB *sqlite.DB
	if cfg.Store.Driver == config.DriverSQLite || cfg.Identity.Provider == config.ProviderLocal {
		db, err := openSQLite(cfg.Store.DBPath)
		if err != nil {
			return err
		}
		sqliteDB = db
	}

	store, err := openStore(cfg, sqliteDB)
	if err != nil {
		if sqliteDB != nil {
			sqliteDB.Close()
		}
		return err
	}
	// The server closes the store on shutdown. A users-only SQLite database
	// is closed here.
	if sqliteDB != nil && cfg.Store.Driver != config.DriverSQLite {
		defer sqliteDB.Close()
	}

	var provider auth.Provider
	switch cfg.Identity.Provider {
	case config.ProviderSupabase:
		provider = auth.NewSupabaseProvider(context.Background(), cfg.Identity.SupabaseURL, cfg.Identity.SupabaseServiceRoleKey)
	default:
		provider = auth.NewLocalProvider(sqliteDB, auth.NewPasswordService(), log)
	}

	return server.New(cfg, log, store, provider).Start()
}

func openSQLite(dbPath string) (*sqlite.DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	return db, nil
}

func openStore(cfg *config.Config, sqliteDB *sqlite.DB) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		return sqliteDB, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.Store.DatabaseURL, cfg.Store.Table)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return store, nil
	case config.DriverMongo:
		store, err := mongodb.New(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
