package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/middleware"
	"timebook-backend/internal/models"
)

// pathID extracts the numeric {id} route variable.
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "Ungültige ID")
	}
	return id, nil
}

// principal pulls the authenticated user out of the request context.
// Routes behind the auth middleware always have one; the error path
// covers misconfigured routing.
func principal(r *http.Request) (*models.Principal, error) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "Ungültiger Zahlenwert")
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "Erwartet true oder false")
	}
	return &v, nil
}

func queryIntDefault(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
