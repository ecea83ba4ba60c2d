package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/metrics"
	"timebook-backend/internal/models"
	"timebook-backend/internal/services"
	"timebook-backend/pkg/utils"
)

// InvoiceHandler serves the /timebook/honorarnoten endpoints. DELETE is
// a cancellation: the invoice stays in the ledger with storniert=true
// and its billed time entries become billable again.
type InvoiceHandler struct {
	invoices *services.InvoiceService
	pdf      *services.InvoicePDFService
}

func NewInvoiceHandler(invoices *services.InvoiceService, pdf *services.InvoicePDFService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pdf: pdf}
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	invoice, err := h.invoices.Create(r.Context(), p, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	metrics.InvoicesCreatedTotal.Inc()
	utils.Success(w, http.StatusCreated, invoice)
}

func parseInvoiceFilter(r *http.Request) (*models.InvoiceFilter, error) {
	filter := &models.InvoiceFilter{
		Limit:  queryIntDefault(r, "limit", 0),
		Offset: queryIntDefault(r, "offset", 0),
	}

	kundeID, err := queryInt(r, "kunde_id")
	if err != nil {
		return nil, err
	}
	filter.KundeID = kundeID

	bezahlt, err := queryBool(r, "bezahlt")
	if err != nil {
		return nil, err
	}
	filter.Bezahlt = bezahlt

	jahr, err := queryInt(r, "jahr")
	if err != nil {
		return nil, err
	}
	filter.Jahr = jahr

	return filter, nil
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	filter, err := parseInvoiceFilter(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	list, err := h.invoices.List(r.Context(), p, filter)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, list)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	invoice, err := h.invoices.Get(r.Context(), p, id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, r, domain.NewValidationError("body", "Ungültiger Request-Body"))
		return
	}

	invoice, err := h.invoices.Update(r.Context(), p, id, &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	// The body is optional; a bare DELETE cancels without a reason.
	var req models.CancelInvoiceRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.invoices.Cancel(r.Context(), p, id, req.StornoGrund); err != nil {
		utils.Error(w, r, err)
		return
	}

	metrics.InvoicesCancelledTotal.Inc()
	utils.SuccessMessage(w, http.StatusOK, nil, "Honorarnote storniert")
}

// PDF streams the rendered invoice document.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
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

	invoice, err := h.invoices.Get(r.Context(), p, id)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	data, err := h.pdf.Generate(r.Context(), p, invoice)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.Nummer+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
