package handlers

import (
	"net/http"

	"timebook-backend/internal/health"
	"timebook-backend/pkg/utils"
)

// HealthHandler answers liveness probes. Unauthenticated.
type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := h.checker.Check(r.Context())
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
