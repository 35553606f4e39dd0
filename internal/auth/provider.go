package auth

import (
	"context"

	"github.com/sakif/snippet-library/internal/model"
)

// Provider creates accounts on behalf of the sign-up endpoint.
//
// A rejection by the provider (email taken, weak password, ...) is returned as
// apperror.UpstreamAuth carrying the provider's message. Any other error is a
// fault: the provider was unreachable or its answer could not be read.
type Provider interface {
	CreateUser(ctx context.Context, email, password, name string) (*model.User, error)
}
