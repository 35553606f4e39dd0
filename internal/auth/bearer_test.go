package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{"well formed", "Bearer abc.def", "abc.def", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"mixed case scheme", "BeArEr abc", "abc", true},
		{"empty header", "", "", false},
		{"scheme only", "Bearer", "", false},
		{"scheme and space", "Bearer ", "", false},
		{"other scheme", "Basic dXNlcjpwYXNz", "", false},
		{"token with space", "Bearer abc def", "", false},
		{"double space", "Bearer  abc", "", false},
		{"token with tab", "Bearer abc\tdef", "", false},
		{"no scheme", "abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestUnverifiedSubject(t *testing.T) {
	// Signed with a key the server never sees: the subject is still readable.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-7"}).
		SignedString([]byte("someone-elses-secret"))
	require.NoError(t, err)

	assert.Equal(t, "user-7", UnverifiedSubject(signed))
	assert.Equal(t, "", UnverifiedSubject("opaque-token"))
	assert.Equal(t, "", UnverifiedSubject(""))
}

func TestRequireBearer(t *testing.T) {
	var gotSubject string
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotSubject, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireBearer(discardLogger())(next)

	t.Run("missing header is 401", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snippets", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Missing or malformed bearer token"}`, rec.Body.String())
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/snippets", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("opaque token passes without subject", func(t *testing.T) {
		called, gotSubject = false, ""
		req := httptest.NewRequest(http.MethodGet, "/snippets", nil)
		req.Header.Set("Authorization", "Bearer opaque-anon-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, gotSubject)
	})

	t.Run("jwt subject reaches the handler", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-9"}).
			SignedString([]byte("k"))
		require.NoError(t, err)

		called, gotSubject = false, ""
		req := httptest.NewRequest(http.MethodGet, "/snippets", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, called)
		assert.Equal(t, "user-9", gotSubject)
	})
}

func TestSubjectFromRequest(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "abc"}).
		SignedString([]byte("k"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", SubjectFromRequest(req))

	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, "abc", SubjectFromRequest(req))
}
