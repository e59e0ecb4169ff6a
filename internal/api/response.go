package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/service"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Status:  status,
		Success: status < 400,
		Message: message,
		Data:    data,
	})
}

// respondError maps service and auth errors onto HTTP statuses. Unexpected
// errors are logged and hidden behind a generic message.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respond(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword):
		respond(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, auth.ErrEmailExists):
		respond(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		respond(w, http.StatusUnauthorized, err.Error(), nil)
	default:
		slog.Error("Request failed", "error", err)
		respond(w, http.StatusInternalServerError, "something went wrong", nil)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	return true
}
