// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the key-value store
//
// SnippetService is the snippet repository of the domain: it owns id
// generation, default fields, and the merge rules of an update. The store
// underneath only moves opaque JSON documents around.
//
// DEPENDENCY INJECTION:
// SnippetService takes a repository.Store (interface), NOT a concrete store.
// Tests pass the in-memory store; production passes sqlite, postgres or mongo.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/metrics"
	"github.com/sakif/snippet-library/internal/model"
	"github.com/sakif/snippet-library/internal/repository"
)

// SnippetKeyPrefix namespaces snippet documents in the store.
const SnippetKeyPrefix = "snippet:"

// Messages returned to clients. They are part of the API.
const (
	msgRequiredFields  = "Title, code, and category are required"
	msgUnknownCategory = "Category must be one of the predefined categories"
	msgSnippetNotFound = "Snippet not found"
)

func snippetKey(id string) string {
	return SnippetKeyPrefix + id
}

// SnippetService handles business logic for code snippets.
type SnippetService struct {
	store   repository.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	// now is the clock; tests replace it to control timestamps.
	now func() time.Time
}

// NewSnippetService creates a new SnippetService.
// m may be nil when metrics aren't wanted.
func NewSnippetService(store repository.Store, logger *slog.Logger, m *metrics.Metrics) *SnippetService {
	return &SnippetService{
		store:   store,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and saves a new snippet.
//
// VALIDATION:
// title, code and category must be non-empty, and category must be one of
// model.Categories. Everything else is optional and gets a default:
//   - description, useCase → ""
//   - tags                 → [] (trimmed, empties dropped)
//   - userName             → "Anonymous"
//   - userId               → null when empty
//   - userAvatar           → derived from the SUPPLIED userName, or null
//
// The id is a random UUIDv4, so two creates never collide in practice.
func (s *SnippetService) Create(ctx context.Context, in model.SnippetInput) (_ *model.Snippet, err error) {
	defer func() { s.metrics.ObserveSnippetOp("create", err) }()

	if in.Title == "" || in.Code == "" || in.Category == "" {
		return nil, apperror.ValidationFailed("", msgRequiredFields)
	}
	if !in.Category.Valid() {
		return nil, apperror.ValidationFailed("category", msgUnknownCategory)
	}

	now := s.now()
	snippet := &model.Snippet{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Category:    in.Category,
		Tags:        model.NormalizeTags(in.Tags),
		UseCase:     in.UseCase,
		UserName:    in.UserName,
		UserAvatar:  model.AvatarURL(in.UserName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.UserID != "" {
		userID := in.UserID
		snippet.UserID = &userID
	}
	if snippet.UserName == "" {
		snippet.UserName = model.DefaultUserName
	}

	if err := s.put(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("title", snippet.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("category", string(snippet.Category)),
	)

	return snippet, nil
}

// GetOne retrieves a snippet by its ID.
// Returns apperror.ErrNotFound if the snippet doesn't exist.
func (s *SnippetService) GetOne(ctx context.Context, id string) (_ *model.Snippet, err error) {
	defer func() { s.metrics.ObserveSnippetOp("get", err) }()

	snippet, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return snippet, nil
}

// GetAll returns every snippet, in store key order.
//
// There is no pagination or sorting here: the client sorts and filters.
// An empty store yields an empty slice, never nil.
func (s *SnippetService) GetAll(ctx context.Context) (_ []model.Snippet, err error) {
	defer func() { s.metrics.ObserveSnippetOp("list", err) }()

	values, err := s.store.ScanPrefix(ctx, SnippetKeyPrefix)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	snippets := make([]model.Snippet, 0, len(values))
	for _, v := range values {
		snippet, err := decodeSnippet(v)
		if err != nil {
			return nil, fmt.Errorf("listing snippets: %w", err)
		}
		snippets = append(snippets, *snippet)
	}

	return snippets, nil
}

// Update applies a partial update to an existing snippet.
//
// MERGE POLICY (per field):
//
//	title, code, category      replaced only when present AND non-empty;
//	                           an empty string keeps the stored value
//	description, useCase, tags replaced whenever present, so they can be cleared
//
// userId, userName, userAvatar and createdAt are never touched.
//
// CONCURRENCY:
// This is a get-then-set with no version check. Two concurrent updates of the
// same id both read the same stored record, and whichever Set lands last wins
// as a whole record; the other update is lost. Fields from the two requests
// are never interleaved. See TestUpdate_ConcurrentLastWriteWins.
func (s *SnippetService) Update(ctx context.Context, id string, patch model.SnippetPatch) (_ *model.Snippet, err error) {
	defer func() { s.metrics.ObserveSnippetOp("update", err) }()

	// Fetch first: an unknown id is NotFound and must never create a record.
	snippet, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && *patch.Title != "" {
		snippet.Title = *patch.Title
	}
	if patch.Code != nil && *patch.Code != "" {
		snippet.Code = *patch.Code
	}
	if patch.Category != nil && *patch.Category != "" {
		if !patch.Category.Valid() {
			return nil, apperror.ValidationFailed("category", msgUnknownCategory)
		}
		snippet.Category = *patch.Category
	}
	if patch.Description != nil {
		snippet.Description = *patch.Description
	}
	if patch.UseCase != nil {
		snippet.UseCase = *patch.UseCase
	}
	if patch.Tags != nil {
		snippet.Tags = model.NormalizeTags(*patch.Tags)
	}

	// updatedAt never goes behind createdAt, even if the clock steps back.
	snippet.UpdatedAt = s.now()
	if snippet.UpdatedAt.Before(snippet.CreatedAt) {
		snippet.UpdatedAt = snippet.CreatedAt
	}

	if err := s.put(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))

	return snippet, nil
}

// Delete removes a snippet by its ID.
// Returns apperror.ErrNotFound if the snippet doesn't exist.
//
// Any caller may delete any snippet: UserID is not checked against the caller.
func (s *SnippetService) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.ObserveSnippetOp("delete", err) }()

	_, found, err := s.store.Get(ctx, snippetKey(id))
	if err != nil {
		return fmt.Errorf("deleting snippet: %w", err)
	}
	if !found {
		return apperror.NotFound(msgSnippetNotFound)
	}

	if err := s.store.Delete(ctx, snippetKey(id)); err != nil {
		s.logger.Error("failed to delete snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting snippet: %w", err)
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

func (s *SnippetService) get(ctx context.Context, id string) (*model.Snippet, error) {
	value, found, err := s.store.Get(ctx, snippetKey(id))
	if err != nil {
		return nil, fmt.Errorf("getting snippet %s: %w", id, err)
	}
	if !found {
		return nil, apperror.NotFound(msgSnippetNotFound)
	}

	snippet, err := decodeSnippet(value)
	if err != nil {
		return nil, fmt.Errorf("getting snippet %s: %w", id, err)
	}
	return snippet, nil
}

// decodeSnippet reads a stored document. A document that doesn't decode means
// the store is broken, so it is reported as a storage fault, not a client error.
func decodeSnippet(value []byte) (*model.Snippet, error) {
	var snippet model.Snippet
	if err := json.Unmarshal(value, &snippet); err != nil {
		return nil, apperror.StorageUnavailable("decode", err)
	}
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}
	return &snippet, nil
}

func (s *SnippetService) put(ctx context.Context, snippet *model.Snippet) error {
	value, err := json.Marshal(snippet)
	if err != nil {
		return fmt.Errorf("encoding snippet %s: %w", snippet.ID, err)
	}
	return s.store.Set(ctx, snippetKey(snippet.ID), value)
}
