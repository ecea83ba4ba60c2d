package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"timebook-backend/internal/auth"
	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/middleware"
	"timebook-backend/internal/models"
	"timebook-backend/internal/services"
	"timebook-backend/internal/session"
	"timebook-backend/pkg/utils"
)

// AuthHandler serves login, logout and TOTP management. A successful
// login issues both a session cookie and a bearer token; clients pick
// whichever suits them.
type AuthHandler struct {
	auth       *services.AuthService
	sessions   session.Store
	jwtManager *auth.JWTManager
	cfg        *config.Config
}

func NewAuthHandler(authService *services.AuthService, sessions session.Store, jwtManager *auth.JWTManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, jwtManager: jwtManager, cfg: cfg}
}

func (h *AuthHandler) sessionTTL() time.Duration {
	hours := h.cfg.Session.TTLHours
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	user, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	principal := &models.Principal{ID: user.ID, Username: user.Username, Admin: user.Admin}

	ttl := h.sessionTTL()
	sessionID, err := h.sessions.Create(r.Context(), principal, ttl)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cfg.Session.CookieName); err == nil && cookie.Value != "" {
		_ = h.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.SuccessMessage(w, http.StatusOK, nil, "Abgemeldet")
}

// Session returns the authenticated principal, for frontends restoring
// their state after a reload.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		utils.Error(w, r, domain.ErrUnauthorized)
		return
	}
	utils.Success(w, http.StatusOK, principal)
}

// Token issues a fresh bearer token for an already authenticated
// session, so browser logins can hand a JWT to API tooling.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		utils.Error(w, r, domain.ErrUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(&models.User{
		ID:       principal.ID,
		Username: principal.Username,
		Admin:    principal.Admin,
	})
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		utils.Error(w, r, domain.ErrUnauthorized)
		return
	}

	setup, err := h.auth.SetupTOTP(r.Context(), principal)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, setup)
}

func (h *AuthHandler) ConfirmTOTP(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		utils.Error(w, r, domain.ErrUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	if err := h.auth.ConfirmTOTP(r.Context(), principal, req.Code); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, nil, "Zwei-Faktor-Authentifizierung aktiviert")
}
