package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"timebook-backend/internal/config"
)

func TestNewCORSUsesConfiguredMaxAge(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.CorsAllowedOrigins = []string{"http://localhost:5173"}
	cfg.Server.CorsAllowedMethods = []string{"GET", "POST"}
	cfg.Server.CorsAllowedHeaders = []string{"Content-Type"}
	cfg.Server.CorsMaxAgeSeconds = 600

	handler := NewCORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/timebook/kunden", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
