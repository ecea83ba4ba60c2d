// Package utils holds the shared HTTP response envelope. Success
// responses wrap their payload as {"success": true, "data": ...};
// errors map the domain taxonomy onto 400/401/404/409 and everything
// else onto a generic 500.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"timebook-backend/internal/domain"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

type errorEnvelope struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// JSON writes an arbitrary payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Success writes {"success": true, "data": ...}.
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, successEnvelope{Success: true, Data: data})
}

// SuccessMessage writes a success envelope with a caller-facing message.
func SuccessMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	JSON(w, status, successEnvelope{Success: true, Data: data, Message: message})
}

// SuccessCount writes a success envelope carrying a collection count.
func SuccessCount(w http.ResponseWriter, status int, data interface{}, count int) {
	JSON(w, status, successEnvelope{Success: true, Data: data, Count: &count})
}

// Error maps a domain error onto the HTTP taxonomy. Infrastructure
// failures are logged server-side and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		JSON(w, http.StatusBadRequest, errorEnvelope{Error: validationErr.Error(), Fields: validationErr.Errors})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		JSON(w, http.StatusBadRequest, errorEnvelope{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		JSON(w, http.StatusUnauthorized, errorEnvelope{Error: "Nicht angemeldet"})
	case errors.Is(err, domain.ErrNotFound):
		JSON(w, http.StatusNotFound, errorEnvelope{Error: "Nicht gefunden"})
	case errors.Is(err, domain.ErrConflict):
		JSON(w, http.StatusConflict, errorEnvelope{Error: err.Error()})
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		JSON(w, http.StatusInternalServerError, errorEnvelope{Error: "Interner Serverfehler"})
	}
}
