package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-library/internal/model"
)

const msgSignUpFailed = "Failed to sign up"

// SignUpService is what the sign-up route needs. *service.AuthService implements it.
type SignUpService interface {
	SignUp(ctx context.Context, email, password, name string) (*model.User, error)
}

// AuthHandler serves account creation. Sign-in and sessions are handled by
// the identity provider directly; the client never goes through this server
// for them.
type AuthHandler struct {
	accounts SignUpService
	logger   *slog.Logger
}

func NewAuthHandler(accounts SignUpService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

// HandleSignUp creates an account.
//
// HTTP: POST /auth/signup {"email","password","name"}
//
//	200 {"user": {...}}
//	400 {"error": "Email, password, and name are required"}
//	400 {"error": <identity provider's message>}
//	500 {"error": "Failed to sign up"}
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid sign up JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidJSON})
		return
	}

	user, err := h.accounts.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, h.logger, err, msgSignUpFailed)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}
