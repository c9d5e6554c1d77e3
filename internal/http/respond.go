package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bachat/internal/core"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeServiceError maps domain sentinels onto HTTP statuses. Unknown errors
// become an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrBudgetNotFound),
		errors.Is(err, core.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrEmptyUserID),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrNegativeAmount),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDays),
		errors.Is(err, core.ErrNoRemainingDays),
		errors.Is(err, core.ErrDescriptionSize):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeBody parses a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
