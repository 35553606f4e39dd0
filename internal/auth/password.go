package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Password limits enforced by the local provider.
//
// The lower bound matches what hosted providers accept by default. The upper
// bound is bcrypt's: input past 72 bytes is silently truncated, so we refuse it.
const (
	MinPasswordLength = 6
	maxPasswordBytes  = 72
)

var (
	ErrPasswordTooShort = fmt.Errorf("auth: password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	ErrPasswordMismatch = errors.New("auth: password does not match")
)

// PasswordService hashes and checks passwords with bcrypt.
//
// The cost is a field so tests can drop it to bcrypt.MinCost; hashing at
// bcrypt.DefaultCost takes tens of milliseconds per call.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService at bcrypt.DefaultCost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: bcrypt.DefaultCost}
}

// NewPasswordServiceWithCost is for tests in other packages.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Check reports whether plaintext is an acceptable password.
// Length is counted in characters for the minimum and in bytes for the maximum.
func (p *PasswordService) Check(plaintext string) error {
	if utf8.RuneCountInString(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(plaintext) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash checks plaintext and returns its bcrypt hash. The salt and cost are
// embedded in the result, so it is the only thing that needs storing.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if err := p.Check(plaintext); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil if plaintext matches hash and ErrPasswordMismatch if it
// doesn't. A malformed hash is a different error.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
}
