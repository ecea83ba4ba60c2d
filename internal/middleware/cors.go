package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"timebook-backend/internal/config"
)

// NewCORS builds the cross-origin handler wrapper for the browser
// client. Credentialed requests are always allowed since the session
// cookie rides along.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           cfg.Server.CorsMaxAgeSeconds,
	})

	return c.Handler
}
