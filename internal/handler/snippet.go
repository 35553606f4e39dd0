package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippet-library/internal/auth"
	"github.com/sakif/snippet-library/internal/model"
)

// Fallback messages for unexpected failures, one per route.
const (
	msgFetchSnippetsFailed = "Failed to fetch snippets"
	msgFetchSnippetFailed  = "Failed to fetch snippet"
	msgCreateFailed        = "Failed to create snippet"
	msgUpdateFailed        = "Failed to update snippet"
	msgDeleteFailed        = "Failed to delete snippet"
)

// SnippetService is what the snippet routes need from the service layer.
// *service.SnippetService implements it.
type SnippetService interface {
	Create(ctx context.Context, in model.SnippetInput) (*model.Snippet, error)
	GetOne(ctx context.Context, id string) (*model.Snippet, error)
	GetAll(ctx context.Context) ([]model.Snippet, error)
	Update(ctx context.Context, id string, patch model.SnippetPatch) (*model.Snippet, error)
	Delete(ctx context.Context, id string) error
}

// SnippetHandler serves the /snippets routes. It only decodes requests and
// encodes responses; every rule lives in the service.
type SnippetHandler struct {
	snippets SnippetService
	logger   *slog.Logger
}

func NewSnippetHandler(snippets SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

type snippetResponse struct {
	Snippet *model.Snippet `json:"snippet"`
}

type snippetsResponse struct {
	Snippets []model.Snippet `json:"snippets"`
}

// HandleList returns every snippet.
//
// HTTP: GET /snippets → 200 {"snippets": [...]}
//
// No paging, filtering or sorting: the client does that on the full list.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.snippets.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err, msgFetchSnippetsFailed)
		return
	}
	writeJSON(w, http.StatusOK, snippetsResponse{Snippets: snippets})
}

// HandleGetByID returns one snippet.
//
// HTTP: GET /snippets/{id} → 200 {"snippet": {...}} | 404
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.GetOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err, msgFetchSnippetFailed)
		return
	}
	writeJSON(w, http.StatusOK, snippetResponse{Snippet: snippet})
}

// HandleCreate saves a new snippet.
//
// HTTP: POST /snippets → 200 {"snippet": {...}} | 400
//
// The status is 200, not 201: existing clients only check for 2xx.
// userId and userName are taken from the body as-is; the bearer token is not
// consulted for them.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.SnippetInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidJSON})
		return
	}

	if sub, ok := auth.SubjectFromContext(r.Context()); ok && in.UserID != "" && sub != in.UserID {
		h.logger.Debug("snippet userId differs from token subject",
			slog.String("user_id", in.UserID),
			slog.String("subject", sub),
		)
	}

	snippet, err := h.snippets.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err, msgCreateFailed)
		return
	}
	writeJSON(w, http.StatusOK, snippetResponse{Snippet: snippet})
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /snippets/{id} → 200 {"snippet": {...}} | 400 | 404
//
// Fields left out of the body (or sent as null) are not touched.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.SnippetPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidJSON})
		return
	}

	snippet, err := h.snippets.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.logger, err, msgUpdateFailed)
		return
	}
	writeJSON(w, http.StatusOK, snippetResponse{Snippet: snippet})
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /snippets/{id} → 200 {"success": true} | 404
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.snippets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err, msgDeleteFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
