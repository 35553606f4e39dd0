package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/repository/sqlite"
)

func newTestLocalProvider(t *testing.T) (*LocalProvider, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewLocalProvider(db, newTestPasswordService(), discardLogger()), db
}

func TestLocalCreateUser(t *testing.T) {
	p, db := newTestLocalProvider(t)

	user, err := p.CreateUser(context.Background(), "a@b.co", "secret1", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.co", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := db.GetUserByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, p.passwords.Verify(stored.PasswordHash, "secret1"))
}

func TestLocalCreateUser_Rejections(t *testing.T) {
	p, _ := newTestLocalProvider(t)
	_, err := p.CreateUser(context.Background(), "taken@b.co", "secret1", "Ada")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{"duplicate email", "taken@b.co", "another1", msgEmailTaken},
		{"short password", "new@b.co", "12345", msgPasswordShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.CreateUser(context.Background(), tt.email, tt.password, "Grace")
			require.ErrorIs(t, err, apperror.ErrUpstreamAuth)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestLocalCreateUser_StoreFault(t *testing.T) {
	p, db := newTestLocalProvider(t)
	require.NoError(t, db.Close())

	_, err := p.CreateUser(context.Background(), "a@b.co", "secret1", "Ada")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrUpstreamAuth)
}
