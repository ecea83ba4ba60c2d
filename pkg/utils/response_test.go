package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebook-backend/internal/domain"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.NewValidationError("farbe", "ungültig"), http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"not found", fmt.Errorf("get kunde: %w", domain.ErrNotFound), http.StatusNotFound},
		{"conflict", domain.NewConflictError("bereits abgerechnet"), http.StatusConflict},
		{"infrastructure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/timebook/kunden", nil)

			Error(rec, req, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/timebook/kunden", nil)

	Error(rec, req, errors.New("pq: password authentication failed"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Interner Serverfehler", body["error"])
}

func TestValidationErrorCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/timebook/zeiterfassung", nil)

	Error(rec, req, domain.NewValidationErrors([]domain.FieldError{
		{Field: "startzeit", Message: "Ungültiges Zeitformat"},
		{Field: "endzeit", Message: "Ungültiges Zeitformat"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Fields []domain.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Fields, 2)
	assert.Equal(t, "startzeit", body.Fields[0].Field)
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessCount(rec, http.StatusOK, []string{"a", "b"}, 2)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
}
