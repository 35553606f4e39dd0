// Package repository defines the storage port the service layer depends on.
//
// THE STORE IS A KEY-VALUE STORE:
// Snippets are persisted as opaque JSON documents under flat string keys
// ("snippet:{id}"). The store never looks inside a value; it only moves bytes.
// All domain rules (ids, defaults, merging) live in the service layer.
//
// Implementations live in sub-packages:
//   - memory   : map guarded by a RWMutex (tests, zero-setup dev)
//   - sqlite   : embedded, pure-Go SQLite file
//   - postgres : a kv table in Postgres via pgx
//   - mongodb  : one document per key in a MongoDB collection
//
// ERROR CONTRACT:
// Every underlying fault is returned as apperror.StorageUnavailable.
// A missing key is NOT an error: Get reports it with found == false.
// No implementation retries; retry policy belongs to the operator.
package repository

import (
	"context"
	"errors"

	"github.com/sakif/snippet-library/internal/model"
)

// Store is a generic key-value store over opaque string keys and JSON values.
//
// Writes are last-write-wins per key. There is no compare-and-set, so a
// caller doing get-then-set on the same key can lose a concurrent write.
type Store interface {
	// Get returns the value stored under key. found is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ScanPrefix returns every value whose key starts with prefix, ordered by key.
	// An empty result is an empty slice, not an error.
	ScanPrefix(ctx context.Context, prefix string) ([][]byte, error)

	// Close releases the store's connections.
	Close() error
}

// ErrDuplicateEmail is returned by UserRepository.CreateUser when the email
// is already registered.
var ErrDuplicateEmail = errors.New("repository: email already registered")

// UserRepository persists accounts for the local identity provider.
// Hosted identity providers keep their own user storage and don't use it.
type UserRepository interface {
	CreateUser(ctx context.Context, user *UserRecord) error
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
}

// UserRecord is a stored account: the public user plus its password hash.
type UserRecord struct {
	model.User
	PasswordHash string
}
