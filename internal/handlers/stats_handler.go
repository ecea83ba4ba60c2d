package handlers

import (
	"net/http"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/services"
	"timebook-backend/internal/timeutil"
	"timebook-backend/pkg/utils"
)

// StatsHandler serves /timebook/statistiken. The report is selected via
// ?type=; aggregates are always computed fresh from the database.
type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	now := timeutil.Now()
	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		reportType = "uebersicht"
	}

	switch reportType {
	case "uebersicht":
		overview, err := h.stats.Overview(r.Context(), p)
		if err != nil {
			utils.Error(w, r, err)
			return
		}
		utils.Success(w, http.StatusOK, overview)

	case "monatlich":
		jahr := queryIntDefault(r, "jahr", now.Year())
		monthly, err := h.stats.Monthly(r.Context(), p, jahr)
		if err != nil {
			utils.Error(w, r, err)
			return
		}
		utils.Success(w, http.StatusOK, monthly)

	case "taeglich":
		jahr := queryIntDefault(r, "jahr", now.Year())
		monat := queryIntDefault(r, "monat", int(now.Month()))
		if monat < 1 || monat > 12 {
			utils.Error(w, r, domain.NewValidationError("monat", "Erwartet einen Monat zwischen 1 und 12"))
			return
		}
		daily, err := h.stats.Daily(r.Context(), p, jahr, monat)
		if err != nil {
			utils.Error(w, r, err)
			return
		}
		utils.Success(w, http.StatusOK, daily)

	case "kunden":
		perClient, err := h.stats.PerClient(r.Context(), p)
		if err != nil {
			utils.Error(w, r, err)
			return
		}
		utils.Success(w, http.StatusOK, perClient)

	case "kategorien":
		perCategory, err := h.stats.PerCategory(r.Context(), p)
		if err != nil {
			utils.Error(w, r, err)
			return
		}
		utils.Success(w, http.StatusOK, perCategory)

	default:
		utils.Error(w, r, domain.NewValidationError("type", "Unbekannter Statistik-Typ"))
	}
}
