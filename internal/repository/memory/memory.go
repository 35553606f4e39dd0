// Package memory implements repository.Store with an in-process map.
//
// It keeps no data across restarts. Tests use it as the fake store, and the
// server can run on it when STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sakif/snippet-library/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store is a map-backed key-value store safe for concurrent use.
// Values are copied on the way in and out so callers can't alias stored bytes.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func New() *Store {
	return &Store{values: map[string][]byte{}}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.values[key] = clone(value)
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// ScanPrefix returns matching values sorted by key.
func (s *Store) ScanPrefix(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		out = append(out, clone(s.values[k]))
	}
	return out, nil
}

func (s *Store) Close() error { return nil }

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
