// Package storetest holds the behavioural contract every repository.Store
// implementation must satisfy. Adapter tests call Run with a constructor.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-library/internal/repository"
)

// Run exercises the Store contract against stores produced by newStore.
// newStore must return an empty store; it is called once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		s := newStore(t)
		v, found, err := s.Get(ctx, "snippet:missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "snippet:a", []byte(`{"title":"A"}`)))

		v, found, err := s.Get(ctx, "snippet:a")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `{"title":"A"}`, string(v))
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "snippet:a", []byte(`{"v":1}`)))
		require.NoError(t, s.Set(ctx, "snippet:a", []byte(`{"v":2}`)))

		v, found, err := s.Get(ctx, "snippet:a")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `{"v":2}`, string(v))
	})

	t.Run("delete removes key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "snippet:a", []byte(`{}`)))
		require.NoError(t, s.Delete(ctx, "snippet:a"))

		_, found, err := s.Get(ctx, "snippet:a")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete absent key is not an error", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Delete(ctx, "snippet:nope"))
	})

	t.Run("scan empty store", func(t *testing.T) {
		s := newStore(t)
		values, err := s.ScanPrefix(ctx, "snippet:")
		require.NoError(t, err)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})

	t.Run("scan filters by prefix and orders by key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "snippet:b", []byte(`{"k":"b"}`)))
		require.NoError(t, s.Set(ctx, "snippet:a", []byte(`{"k":"a"}`)))
		require.NoError(t, s.Set(ctx, "other:c", []byte(`{"k":"c"}`)))
		require.NoError(t, s.Set(ctx, "snippetx", []byte(`{"k":"x"}`)))

		values, err := s.ScanPrefix(ctx, "snippet:")
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.JSONEq(t, `{"k":"a"}`, string(values[0]))
		assert.JSONEq(t, `{"k":"b"}`, string(values[1]))
	})

	t.Run("prefix with pattern characters is literal", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "a%_.*:1", []byte(`{"k":1}`)))
		require.NoError(t, s.Set(ctx, "abc:2", []byte(`{"k":2}`)))

		values, err := s.ScanPrefix(ctx, "a%_.*:")
		require.NoError(t, err)
		require.Len(t, values, 1)
		assert.JSONEq(t, `{"k":1}`, string(values[0]))
	})

	t.Run("concurrent writers to distinct keys", func(t *testing.T) {
		s := newStore(t)
		const n = 20

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Set(ctx, fmt.Sprintf("snippet:%02d", i), []byte(fmt.Sprintf(`{"i":%d}`, i))))
			}(i)
		}
		wg.Wait()

		values, err := s.ScanPrefix(ctx, "snippet:")
		require.NoError(t, err)
		assert.Len(t, values, n)
	})
}
