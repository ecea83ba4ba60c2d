package handlers

import (
	"encoding/json"
	"net/http"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/services"
	"timebook-backend/internal/timeutil"
	"timebook-backend/pkg/utils"
)

// TimeEntryHandler serves the /timebook/zeiterfassung endpoints.
type TimeEntryHandler struct {
	entries *services.TimeEntryService
}

func NewTimeEntryHandler(entries *services.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entries: entries}
}

func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.CreateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	entry, err := h.entries.Create(r.Context(), p, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, entry)
}

// parseEntryFilter translates the query string into a repository filter.
// Date bounds use ISO dates; laufend=true narrows to entries without an
// end time.
func parseEntryFilter(r *http.Request) (*models.TimeEntryFilter, error) {
	filter := &models.TimeEntryFilter{
		Limit:  queryIntDefault(r, "limit", 0),
		Offset: queryIntDefault(r, "offset", 0),
	}

	kundeID, err := queryInt(r, "kunde_id")
	if err != nil {
		return nil, err
	}
	filter.KundeID = kundeID

	if raw := r.URL.Query().Get("von"); raw != "" {
		von, err := timeutil.ParseDate(raw)
		if err != nil {
			return nil, domain.NewValidationError("von", "Erwartet Datum im Format JJJJ-MM-TT")
		}
		filter.Von = &von
	}
	if raw := r.URL.Query().Get("bis"); raw != "" {
		bis, err := timeutil.ParseDate(raw)
		if err != nil {
			return nil, domain.NewValidationError("bis", "Erwartet Datum im Format JJJJ-MM-TT")
		}
		filter.Bis = &bis
	}

	abgeschlossen, err := queryBool(r, "abgeschlossen")
	if err != nil {
		return nil, err
	}
	filter.Abgeschlossen = abgeschlossen

	laufend, err := queryBool(r, "laufend")
	if err != nil {
		return nil, err
	}
	filter.Laufend = laufend

	return filter, nil
}

func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	list, err := h.entries.List(r.Context(), p, filter)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, list)
}

func (h *TimeEntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	entry, err := h.entries.Get(r.Context(), p, id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.UpdateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	entry, err := h.entries.Update(r.Context(), p, id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	if err := h.entries.Delete(r.Context(), p, id); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, nil, "Eintrag gelöscht")
}
