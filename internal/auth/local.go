package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/model"
	"github.com/sakif/snippet-library/internal/repository"
)

// Messages the local provider rejects with. They mirror the wording of the
// hosted provider so clients see the same text in development.
const (
	msgEmailTaken    = "A user with this email address has already been registered"
	msgPasswordShort = "Password should be at least 6 characters"
	msgPasswordLong  = "Password cannot be longer than 72 characters"
)

// LocalProvider keeps accounts in a UserRepository, with bcrypt hashes.
// It is meant for development and tests, where no hosted provider is around.
type LocalProvider struct {
	users     repository.UserRepository
	passwords *PasswordService
	logger    *slog.Logger
}

func NewLocalProvider(users repository.UserRepository, passwords *PasswordService, logger *slog.Logger) *LocalProvider {
	return &LocalProvider{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateUser hashes the password and stores the account.
func (p *LocalProvider) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	hash, err := p.passwords.Hash(password)
	switch {
	case errors.Is(err, ErrPasswordTooShort):
		return nil, apperror.UpstreamAuth(msgPasswordShort)
	case errors.Is(err, ErrPasswordTooLong):
		return nil, apperror.UpstreamAuth(msgPasswordLong)
	case err != nil:
		return nil, err
	}

	record := &repository.UserRecord{
		User:         model.User{Email: email, Name: name},
		PasswordHash: hash,
	}
	if err := p.users.CreateUser(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.UpstreamAuth(msgEmailTaken)
		}
		return nil, fmt.Errorf("auth: storing user: %w", err)
	}

	p.logger.Debug("local user created", slog.String("user_id", record.ID))

	user := record.User
	return &user, nil
}
