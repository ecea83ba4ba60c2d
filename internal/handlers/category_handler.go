package handlers

import (
	"encoding/json"
	"net/http"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/services"
	"timebook-backend/pkg/utils"
)

// CategoryHandler serves the /timebook/kategorien endpoints.
type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	category, err := h.categories.Create(r.Context(), p, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	categories, err := h.categories.List(r.Context(), p)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessCount(w, http.StatusOK, categories, len(categories))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	category, err := h.categories.Update(r.Context(), p, id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.categories.Delete(r.Context(), p, id); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessMessage(w, http.StatusOK, nil, "Kategorie gelöscht")
}
