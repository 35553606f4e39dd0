package handler

// RESPONSE HELPERS:
// Every response body is JSON. Errors always have the same shape,
//
//	{"error": "Snippet not found"}
//
// so the client can show err.error whatever the status code.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-library/internal/apperror"
)

// maxBodyBytes caps request bodies. Snippets are source files, not uploads.
const maxBodyBytes = 1 << 20

const msgInvalidJSON = "Invalid JSON body"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends data with the given status. Headers must be set before
// WriteHeader, and WriteHeader before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// decodeJSON reads one JSON value from the request body into dst.
// Any decode failure, including an empty or oversized body, is reported to
// the client as "Invalid JSON body".
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing garbage after the object is malformed too.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// writeError maps an error to a status code and writes {"error": msg}.
//
// ERROR MAPPING:
//
//	ErrValidation, ErrUpstreamAuth → 400, with the error's own message
//	ErrNotFound                    → 404, with the error's own message
//	anything else                  → 500, with fallback
//
// The 500 message is fixed per route ("Failed to fetch snippets", ...).
// Internal detail such as a database error only goes to the log.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var appErr *apperror.AppError
	hasMessage := errors.As(err, &appErr)

	switch {
	case hasMessage && errors.Is(err, apperror.ErrValidation),
		hasMessage && errors.Is(err, apperror.ErrUpstreamAuth):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
	case hasMessage && errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: appErr.Message})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
