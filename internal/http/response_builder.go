package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AlvaroPereir4/FinScope/internal/auth"
	"github.com/AlvaroPereir4/FinScope/internal/core"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status. Encoding failures are
// logged; headers are already sent at that point so the response is
// left as is.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Response encoding failed", "error", err, "url", r.URL.Path)
	}
}

// writeError maps domain errors onto HTTP statuses. Validation
// failures are 422, missing records 404, authentication failures 401
// and everything else an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, r, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeJSON(w, r, http.StatusUnauthorized, errorBody{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "method", r.Method, "url", r.URL.Path)
		writeJSON(w, r, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
