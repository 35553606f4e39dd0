package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"golang.org/x/oauth2"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/model"
)

// SupabaseProvider creates users through the admin API of a Supabase (GoTrue)
// auth server:
//
//	POST {baseURL}/auth/v1/admin/users
//	Authorization: Bearer <service role key>
//	apikey: <service role key>
//
// Users are created with email_confirm set, so they can sign in right away.
type SupabaseProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewSupabaseProvider returns a provider for the project at baseURL.
//
// The returned client is an oauth2 client over a static token source: every
// request it sends carries the service role key as its bearer token.
func NewSupabaseProvider(ctx context.Context, baseURL, serviceKey string) *SupabaseProvider {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: serviceKey,
		TokenType:   "Bearer",
	}))
	client.Timeout = 10 * time.Second

	return &SupabaseProvider{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     client,
	}
}

type supabaseCreateUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	UserMetadata map[string]string `json:"user_metadata"`
	EmailConfirm bool              `json:"email_confirm"`
}

type supabaseUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// supabaseError covers the error shapes GoTrue has used across versions.
type supabaseError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (e supabaseError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return "Sign up rejected by identity provider"
}

// CreateUser registers a user. Any error answer the provider sends back in
// its JSON error shape becomes apperror.UpstreamAuth with the provider's
// message. Transport failures and answers that can't be read are returned
// as plain errors.
func (p *SupabaseProvider) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	var (
		created supabaseUser
		errBody supabaseError
		status  int
	)

	err := requests.
		URL(p.baseURL).
		Path("/auth/v1/admin/users").
		Client(p.client).
		Header("apikey", p.serviceKey).
		BodyJSON(supabaseCreateUserRequest{
			Email:        email,
			Password:     password,
			UserMetadata: map[string]string{"name": name},
			EmailConfirm: true,
		}).
		AddValidator(func(res *http.Response) error {
			status = res.StatusCode
			return nil
		}).
		AddValidator(requests.ErrorJSON(&errBody)).
		ToJSON(&created).
		Fetch(ctx)

	switch {
	case err == nil:
	case errors.Is(err, requests.ErrInvalidHandled):
		return nil, apperror.UpstreamAuth(errBody.text())
	case status != 0:
		return nil, fmt.Errorf("auth: identity provider returned %d: %w", status, err)
	default:
		return nil, fmt.Errorf("auth: creating user: %w", err)
	}

	user := &model.User{
		ID:        created.ID,
		Email:     created.Email,
		Name:      name,
		CreatedAt: created.CreatedAt,
	}
	if stored, ok := created.UserMetadata["name"].(string); ok && stored != "" {
		user.Name = stored
	}
	return user, nil
}
