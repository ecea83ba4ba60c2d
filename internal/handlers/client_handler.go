package handlers

import (
	"encoding/json"
	"net/http"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/services"
	"timebook-backend/pkg/utils"
)

// ClientHandler serves the /timebook/kunden endpoints.
type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	client, err := h.clients.Create(r.Context(), p, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	aktiv, err := queryBool(r, "aktiv")
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	clients, err := h.clients.List(r.Context(), p, aktiv)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.SuccessCount(w, http.StatusOK, clients, len(clients))
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	client, err := h.clients.Get(r.Context(), p, id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	client, err := h.clients.Update(r.Context(), p, id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, client)
}
