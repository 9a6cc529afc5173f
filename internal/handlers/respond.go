// Package handlers implements the JSON HTTP API over the category core and
// the blog services.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"investing/internal/apperr"
)

// maxBodyBytes caps request bodies; the largest payload is a post.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Storage failures
// are logged with the request path and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *apperr.ValidationError
		re *apperr.ReferentialError
		he *apperr.HasChildrenError
		ne *apperr.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: ve.Fields})
	case errors.As(err, &re):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: re.Error(), Fields: map[string]string{re.Field: re.Reason}})
	case errors.As(err, &he):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: he.Error()})
	case errors.As(err, &ne):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: ne.Error()})
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON reads a single JSON object into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.NewValidationError("body", "cannot be empty")
		case errors.As(err, &maxErr):
			return apperr.NewValidationError("body", "is too large")
		}
		return apperr.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	if dec.More() {
		return apperr.NewValidationError("body", "must contain a single JSON object")
	}
	return nil
}
