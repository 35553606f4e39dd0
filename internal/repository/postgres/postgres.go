// Package postgres implements repository.Store on a Postgres table through a
// pgx connection pool. The table has the same shape as a hosted kv_store table:
// a text primary key and a jsonb value.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// table names are interpolated into SQL, so they are restricted to identifiers.
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Store struct {
	pool  *pgxpool.Pool
	table string
}

// New connects to url, verifies the connection and creates table if needed.
func New(ctx context.Context, url, table string) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("postgres: invalid table name %q", table)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing url: %w", err)
	}
	cfg.MaxConns = 10

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connecting: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging: %w", err)
	}

	s := &Store{pool: pool, table: table}
	if err := s.migrate(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (key text PRIMARY KEY, value jsonb NOT NULL)`, s.table,
	))
	if err != nil {
		return fmt.Errorf("postgres: creating %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table), key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperror.StorageUnavailable("get", err)
	}
	return value, true, nil
}

// Set upserts the value. pgx sends a []byte bound to a jsonb parameter as raw JSON.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, s.table),
		key, value,
	)
	if err != nil {
		return apperror.StorageUnavailable("set", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), key)
	if err != nil {
		return apperror.StorageUnavailable("delete", err)
	}
	return nil
}

// ScanPrefix uses starts_with so LIKE wildcards in prefix stay literal.
func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT value FROM %s WHERE starts_with(key, $1) ORDER BY key`, s.table), prefix,
	)
	if err != nil {
		return nil, apperror.StorageUnavailable("scan", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, apperror.StorageUnavailable("scan", err)
	}
	if values == nil {
		values = [][]byte{}
	}
	return values, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
