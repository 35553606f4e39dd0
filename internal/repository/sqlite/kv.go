package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *DB stops implementing repository.Store, the build fails here.
var _ repository.Store = (*DB)(nil)

// Get reads one value from kv_store.
//
// sql.ErrNoRows is not a fault here: an absent key is reported with found == false
// and the service decides whether that means "not found".
func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE key = ?`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperror.StorageUnavailable("get", err)
	}
	return []byte(value), true, nil
}

// Set upserts a value.
//
// ON CONFLICT ... DO UPDATE keeps the row (and its rowid) instead of the
// delete-and-reinsert that INSERT OR REPLACE would do.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO kv_store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key,
		string(value),
	)
	if err != nil {
		return apperror.StorageUnavailable("set", err)
	}
	return nil
}

func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return apperror.StorageUnavailable("delete", err)
	}
	return nil
}

// ScanPrefix returns every value whose key starts with prefix.
//
// PREFIX MATCHING:
// LIKE would treat % and _ in the prefix as wildcards. instr(key, prefix) = 1
// means "prefix occurs at position 1", which is a literal starts-with test.
func (db *DB) ScanPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT value FROM kv_store WHERE instr(key, ?) = 1 ORDER BY key`,
		prefix,
	)
	if err != nil {
		return nil, apperror.StorageUnavailable("scan", err)
	}
	defer rows.Close()

	values := make([][]byte, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, apperror.StorageUnavailable("scan", err)
		}
		values = append(values, []byte(value))
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.StorageUnavailable("scan", err)
	}

	return values, nil
}
