// Package auth holds the bearer gate in front of the API and the identity
// providers behind the sign-up endpoint.
//
// WHAT THE GATE CHECKS:
// Only that an "Authorization: Bearer <token>" header is present and well
// formed. The token is never verified here; session issuance and validation
// belong to the identity provider. If the token happens to be a JWT, its
// subject is read WITHOUT checking the signature and used for log attribution
// only. Nothing is ever granted on the strength of it.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// MsgMissingBearer is the body of every 401 the gate writes.
const MsgMissingBearer = "Missing or malformed bearer token"

// contextKey is unexported so no other package can collide with our keys.
type contextKey string

const subjectKey contextKey = "bearerSubject"

// BearerToken extracts the token from an Authorization header value.
//
// The scheme is matched case-insensitively. The token must be non-empty and
// must not contain whitespace. ok is false for anything else.
func BearerToken(header string) (token string, ok bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}

// UnverifiedSubject returns the "sub" claim of token if it parses as a JWT.
// The signature is NOT checked, so the result is a hint for logs, not an identity.
func UnverifiedSubject(token string) string {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	return claims.Subject
}

// SubjectFromRequest combines BearerToken and UnverifiedSubject for callers
// that only have the request, like the access log.
func SubjectFromRequest(r *http.Request) string {
	token, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return ""
	}
	return UnverifiedSubject(token)
}

// RequireBearer rejects requests without a well-formed bearer token with
// 401 {"error":"Missing or malformed bearer token"}.
//
// CORS preflights never reach it: the cors middleware answers OPTIONS before
// the gate runs.
func RequireBearer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Debug("rejected request without bearer token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"` + MsgMissingBearer + `"}` + "\n"))
				return
			}

			if sub := UnverifiedSubject(token); sub != "" {
				r = r.WithContext(context.WithValue(r.Context(), subjectKey, sub))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SubjectFromContext returns the unverified JWT subject, if there was one.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectKey).(string)
	return sub, ok && sub != ""
}
