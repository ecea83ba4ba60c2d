package services

import (
	"context"
	"math"
	"time"

	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/timeutil"
)

// InvoiceStore is the repository surface the invoice service needs.
type InvoiceStore interface {
	NextNummer(ctx context.Context) (string, error)
	Create(ctx context.Context, inv *models.Invoice, lines []*models.InvoiceLine) error
	Get(ctx context.Context, mitarbeiterID, id int) (*models.Invoice, error)
	GetWithDetails(ctx context.Context, mitarbeiterID, id int) (*models.InvoiceWithDetails, error)
	List(ctx context.Context, mitarbeiterID int, filter *models.InvoiceFilter) ([]*models.InvoiceWithDetails, int, error)
	Summary(ctx context.Context, mitarbeiterID int) (*models.InvoiceSummary, error)
	Update(ctx context.Context, inv *models.Invoice) error
	Cancel(ctx context.Context, mitarbeiterID, id int, stornoGrund *string) error
}

type InvoiceService struct {
	repo    InvoiceStore
	clients ClientStore
	cfg     *config.Config
}

func NewInvoiceService(repo InvoiceStore, clients ClientStore, cfg *config.Config) *InvoiceService {
	return &InvoiceService{repo: repo, clients: clients, cfg: cfg}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Brutto computes the gross amount from net and tax rate, rounded to
// cents.
func Brutto(netto, steuersatz float64) float64 {
	return round2(netto * (1 + steuersatz/100))
}

// DueDate defaults the Faelligkeitsdatum from the issue date and the
// client's payment term.
func DueDate(rechnungsdatum time.Time, zahlungszielTage int) time.Time {
	return rechnungsdatum.AddDate(0, 0, zahlungszielTage)
}

// Create validates the request, defaults dates and tax rate, and writes
// the invoice atomically: either the header, all positions and the
// abgerechnet flags land together, or nothing does.
func (s *InvoiceService) Create(ctx context.Context, principal *models.Principal, req *models.CreateInvoiceRequest) (*models.InvoiceWithDetails, error) {
	if req.KundeID == nil || *req.KundeID == 0 {
		return nil, domain.NewValidationError("kunde_id", "Kunde ist erforderlich")
	}
	if req.Nettobetrag == nil {
		return nil, domain.NewValidationError("nettobetrag", "Nettobetrag ist erforderlich")
	}
	if *req.Nettobetrag < 0 {
		return nil, domain.NewValidationError("nettobetrag", "Nettobetrag darf nicht negativ sein")
	}

	client, err := s.clients.Get(ctx, principal.ID, *req.KundeID)
	if err != nil {
		return nil, err
	}

	rechnungsdatum := timeutil.Today()
	if req.Rechnungsdatum != nil {
		rechnungsdatum, err = parseDateField(*req.Rechnungsdatum, "rechnungsdatum")
		if err != nil {
			return nil, err
		}
	}

	steuersatz := s.cfg.TimeBook.DefaultTaxRate
	if req.Steuersatz != nil {
		if *req.Steuersatz < 0 {
			return nil, domain.NewValidationError("steuersatz", "Steuersatz darf nicht negativ sein")
		}
		steuersatz = *req.Steuersatz
	}

	faelligkeitsdatum := DueDate(rechnungsdatum, client.ZahlungszielTage)
	if req.Faelligkeitsdatum != nil {
		faelligkeitsdatum, err = parseDateField(*req.Faelligkeitsdatum, "faelligkeitsdatum")
		if err != nil {
			return nil, err
		}
	}

	inv := &models.Invoice{
		MitarbeiterID:     principal.ID,
		KundeID:           client.ID,
		Rechnungsdatum:    rechnungsdatum,
		Faelligkeitsdatum: faelligkeitsdatum,
		Nettobetrag:       *req.Nettobetrag,
		Steuersatz:        steuersatz,
		Bruttobetrag:      Brutto(*req.Nettobetrag, steuersatz),
		Notizen:           req.Notizen,
	}

	if req.LeistungsdatumVon != nil {
		von, err := parseDateField(*req.LeistungsdatumVon, "leistungsdatum_von")
		if err != nil {
			return nil, err
		}
		inv.LeistungsdatumVon = &von
	}
	if req.LeistungsdatumBis != nil {
		bis, err := parseDateField(*req.LeistungsdatumBis, "leistungsdatum_bis")
		if err != nil {
			return nil, err
		}
		inv.LeistungsdatumBis = &bis
	}

	lines := make([]*models.InvoiceLine, 0, len(req.Positionen))
	for i, pos := range req.Positionen {
		if pos.Beschreibung == "" {
			return nil, domain.NewValidationError("positionen", "Beschreibung der Position ist erforderlich")
		}
		line := &models.InvoiceLine{
			PositionNr:       i + 1,
			Beschreibung:     pos.Beschreibung,
			Menge:            1,
			Einheit:          "Stunden",
			Einzelpreis:      pos.Einzelpreis,
			DienstleistungID: pos.DienstleistungID,
		}
		if pos.Menge != nil {
			line.Menge = *pos.Menge
		}
		if pos.Einheit != nil && *pos.Einheit != "" {
			line.Einheit = *pos.Einheit
		}
		lines = append(lines, line)
	}

	nummer, err := s.repo.NextNummer(ctx)
	if err != nil {
		return nil, err
	}
	inv.Nummer = nummer

	if err := s.repo.Create(ctx, inv, lines); err != nil {
		return nil, err
	}

	return s.repo.GetWithDetails(ctx, principal.ID, inv.ID)
}

func (s *InvoiceService) Get(ctx context.Context, principal *models.Principal, id int) (*models.InvoiceWithDetails, error) {
	return s.repo.GetWithDetails(ctx, principal.ID, id)
}

func (s *InvoiceService) List(ctx context.Context, principal *models.Principal, filter *models.InvoiceFilter) (*models.InvoiceList, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	invoices, total, err := s.repo.List(ctx, principal.ID, filter)
	if err != nil {
		return nil, err
	}

	// The summary deliberately spans the full unfiltered ledger.
	summary, err := s.repo.Summary(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	return &models.InvoiceList{
		Honorarnoten: invoices,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
		Summary:      summary,
	}, nil
}

// Update edits an open or paid invoice; cancelled invoices are
// immutable. Notizen, BezahltAm and Zahlungsmethode are replaced
// outright, everything else coalesces to the stored value.
func (s *InvoiceService) Update(ctx context.Context, principal *models.Principal, id int, req *models.UpdateInvoiceRequest) (*models.InvoiceWithDetails, error) {
	inv, err := s.repo.Get(ctx, principal.ID, id)
	if err != nil {
		return nil, err
	}
	if inv.Storniert {
		return nil, domain.NewConflictError("Stornierte Honorarnoten können nicht geändert werden")
	}

	if req.Rechnungsdatum != nil {
		d, err := parseDateField(*req.Rechnungsdatum, "rechnungsdatum")
		if err != nil {
			return nil, err
		}
		inv.Rechnungsdatum = d
	}
	if req.LeistungsdatumVon != nil {
		d, err := parseDateField(*req.LeistungsdatumVon, "leistungsdatum_von")
		if err != nil {
			return nil, err
		}
		inv.LeistungsdatumVon = &d
	}
	if req.LeistungsdatumBis != nil {
		d, err := parseDateField(*req.LeistungsdatumBis, "leistungsdatum_bis")
		if err != nil {
			return nil, err
		}
		inv.LeistungsdatumBis = &d
	}
	if req.Faelligkeitsdatum != nil {
		d, err := parseDateField(*req.Faelligkeitsdatum, "faelligkeitsdatum")
		if err != nil {
			return nil, err
		}
		inv.Faelligkeitsdatum = d
	}
	if req.Nettobetrag != nil {
		if *req.Nettobetrag < 0 {
			return nil, domain.NewValidationError("nettobetrag", "Nettobetrag darf nicht negativ sein")
		}
		inv.Nettobetrag = *req.Nettobetrag
	}
	if req.Steuersatz != nil {
		if *req.Steuersatz < 0 {
			return nil, domain.NewValidationError("steuersatz", "Steuersatz darf nicht negativ sein")
		}
		inv.Steuersatz = *req.Steuersatz
	}
	inv.Bruttobetrag = Brutto(inv.Nettobetrag, inv.Steuersatz)

	if req.Bezahlt != nil {
		inv.Bezahlt = *req.Bezahlt
	}

	// bezahlt_am, zahlungsmethode and notizen are replaced outright,
	// null included; a payment without a date defaults to today.
	if req.BezahltAm != nil {
		d, err := parseDateField(*req.BezahltAm, "bezahlt_am")
		if err != nil {
			return nil, err
		}
		inv.BezahltAm = &d
	} else if req.Bezahlt != nil && *req.Bezahlt {
		today := timeutil.Today()
		inv.BezahltAm = &today
	} else {
		inv.BezahltAm = nil
	}
	inv.Zahlungsmethode = req.Zahlungsmethode
	inv.Notizen = req.Notizen

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return s.repo.GetWithDetails(ctx, principal.ID, id)
}

// Cancel transitions an open invoice to storniert and releases its time
// entries back to un-invoiced. Paid invoices cannot be cancelled; the
// ledger keeps the row either way.
func (s *InvoiceService) Cancel(ctx context.Context, principal *models.Principal, id int, stornoGrund *string) error {
	inv, err := s.repo.Get(ctx, principal.ID, id)
	if err != nil {
		return err
	}
	if inv.Storniert {
		return domain.NewConflictError("Honorarnote wurde bereits storniert")
	}
	if inv.Bezahlt {
		return domain.NewConflictError("Bezahlte Honorarnoten können nicht storniert werden, bitte eine Gutschrift ausstellen")
	}
	return s.repo.Cancel(ctx, principal.ID, id, stornoGrund)
}
