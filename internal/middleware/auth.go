package middleware

import (
	"context"
	"net/http"
	"strings"

	"timebook-backend/internal/auth"
	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/session"
	"timebook-backend/pkg/utils"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware resolves the request principal from either the session
// cookie (browser flow) or a bearer token (API clients).
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	sessions   session.Store
	cookieName string
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, sessions session.Store, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		sessions:   sessions,
		cookieName: cfg.Session.CookieName,
	}
}

// Authenticate rejects the request with 401 unless a principal can be
// resolved. Row-level ownership is enforced separately in the queries.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := m.resolve(r)
		if principal == nil {
			utils.Error(w, r, domain.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) resolve(r *http.Request) *models.Principal {
	// Bearer token first so API clients work without cookies
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			claims, err := m.jwtManager.ValidateToken(parts[1])
			if err == nil {
				return &models.Principal{ID: claims.UserID, Username: claims.Username, Admin: claims.Admin}
			}
		}
		return nil
	}

	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	principal, err := m.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return principal
}

// GetPrincipal extracts the resolved principal from the request context.
func GetPrincipal(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*models.Principal)
	return principal, ok
}
