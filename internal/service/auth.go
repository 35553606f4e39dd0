package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/auth"
	"github.com/sakif/snippet-library/internal/model"
)

const msgSignUpRequired = "Email, password, and name are required"

// AuthService handles sign-up. It checks the request shape and hands the
// account over to the configured identity provider:
//
//	AuthHandler (HTTP) → AuthService → auth.Provider (supabase | local)
//
// Sessions, sign-in and tokens are the provider's business; this service
// only creates accounts.
type AuthService struct {
	provider auth.Provider
	logger   *slog.Logger
}

// NewAuthService creates an AuthService that signs users up with provider.
func NewAuthService(provider auth.Provider, logger *slog.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		logger:   logger,
	}
}

// SignUp creates an account. email, password and name are all required;
// a blank email or name counts as missing.
//
// Provider rejections come back as apperror.ErrUpstreamAuth with the
// provider's own message; they are logged at warn level, faults at error.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, apperror.ValidationFailed("", msgSignUpRequired)
	}

	user, err := s.provider.CreateUser(ctx, email, password, name)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, apperror.ErrUpstreamAuth) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sign up failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("signing up %s: %w", email, err)
	}

	s.logger.Info("user signed up", slog.String("user_id", user.ID))
	return user, nil
}
