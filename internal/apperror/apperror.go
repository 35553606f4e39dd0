// Package apperror defines the error taxonomy shared by every layer.
//
// Each AppError wraps one of the sentinel errors below, so callers can branch
// with errors.Is() no matter how many times the error was wrapped with
// fmt.Errorf("...: %w", err) on its way up. The handler package is the only
// place that turns these kinds into HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUpstreamAuth       = errors.New("upstream auth error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message, safe to show to clients
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying fault, never shown to clients
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel kind and the underlying cause, so
// errors.Is matches either one.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// StorageUnavailable wraps any fault raised by a key-value store adapter.
// op names the store operation ("get", "set", "delete", "scan").
func StorageUnavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorageUnavailable,
		Message: fmt.Sprintf("storage unavailable during %s", op),
		Cause:   cause,
	}
}

// UpstreamAuth reports that the identity provider rejected a request.
// The message comes from the provider and is passed through to the client.
func UpstreamAuth(message string) *AppError {
	return &AppError{
		Err:     ErrUpstreamAuth,
		Message: message,
	}
}
