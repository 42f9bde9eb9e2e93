package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to an HTTP status and a JSON error body.
// Domain errors keep their message; anything unclassified becomes an opaque
// internal error so wrapped details never reach clients.
func writeError(w http.ResponseWriter, l *logger.Logger, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		l.Error("request failed", "error", err.Error())
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrTokenMissing),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrInvalidShareCode),
		errors.Is(err, model.ErrAccessDenied):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrInvalidShareID):
		return http.StatusNotFound
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
