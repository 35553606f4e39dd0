package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-library/internal/repository"
	"github.com/sakif/snippet-library/internal/repository/storetest"
)

// The contract test needs a live server: TEST_DATABASE_URL=postgres://... go test ./...
func TestStoreContract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	storetest.Run(t, func(t *testing.T) repository.Store {
		// A table per subtest keeps them independent.
		table := fmt.Sprintf("kv_test_%s", uuid.NewString()[:8])
		s, err := New(context.Background(), url, table)
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = s.pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
			s.Close()
		})
		return s
	})
}

func TestNew_RejectsBadTableName(t *testing.T) {
	_, err := New(context.Background(), "postgres://localhost/db", "kv; DROP TABLE users")
	assert.ErrorContains(t, err, "invalid table name")
}
