package models

import "time"

// Invoice status values derived at query time, precedence in this order.
const (
	InvoiceStatusBezahlt      = "bezahlt"
	InvoiceStatusStorniert    = "storniert"
	InvoiceStatusUeberfaellig = "überfällig"
	InvoiceStatusOffen        = "offen"
)

// Invoice is an Honorarnote. Invoices are never deleted; a cancelled
// invoice stays in the ledger with storniert=true for the audit trail.
type Invoice struct {
	ID                int        `json:"id"`
	MitarbeiterID     int        `json:"mitarbeiter_id"`
	KundeID           int        `json:"kunde_id"`
	Nummer            string     `json:"nummer"`
	Rechnungsdatum    time.Time  `json:"rechnungsdatum"`
	LeistungsdatumVon *time.Time `json:"leistungsdatum_von"`
	LeistungsdatumBis *time.Time `json:"leistungsdatum_bis"`
	Faelligkeitsdatum time.Time  `json:"faelligkeitsdatum"`
	Nettobetrag       float64    `json:"nettobetrag"`
	Steuersatz        float64    `json:"steuersatz"`
	Bruttobetrag      float64    `json:"bruttobetrag"`
	Bezahlt           bool       `json:"bezahlt"`
	BezahltAm         *time.Time `json:"bezahlt_am"`
	Zahlungsmethode   *string    `json:"zahlungsmethode"`
	Storniert         bool       `json:"storniert"`
	StorniertAm       *time.Time `json:"storniert_am"`
	StornoGrund       *string    `json:"storno_grund"`
	Notizen           *string    `json:"notizen"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Status derives the financial state of the invoice as of the given day.
func (i *Invoice) Status(today time.Time) string {
	switch {
	case i.Bezahlt:
		return InvoiceStatusBezahlt
	case i.Storniert:
		return InvoiceStatusStorniert
	case i.Faelligkeitsdatum.Before(today):
		return InvoiceStatusUeberfaellig
	default:
		return InvoiceStatusOffen
	}
}

// InvoiceLine is a single position on an invoice, optionally referencing
// the time entry it bills.
type InvoiceLine struct {
	ID               int       `json:"id"`
	HonorarnoteID    int       `json:"honorarnote_id"`
	PositionNr       int       `json:"position_nr"`
	Beschreibung     string    `json:"beschreibung"`
	Menge            float64   `json:"menge"`
	Einheit          string    `json:"einheit"`
	Einzelpreis      float64   `json:"einzelpreis"`
	DienstleistungID *int      `json:"dienstleistung_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// InvoiceWithDetails joins client data and line items, plus the derived
// status for list/detail responses.
type InvoiceWithDetails struct {
	Invoice
	KundeName   string         `json:"kunde_name"`
	Status      string         `json:"status"`
	Positionen  []*InvoiceLine `json:"positionen"`
}

type CreateInvoiceLineRequest struct {
	Beschreibung     string   `json:"beschreibung"`
	Menge            *float64 `json:"menge"`
	Einheit          *string  `json:"einheit"`
	Einzelpreis      float64  `json:"einzelpreis"`
	DienstleistungID *int     `json:"dienstleistung_id"`
}

type CreateInvoiceRequest struct {
	KundeID           *int                       `json:"kunde_id"`
	Nettobetrag       *float64                   `json:"nettobetrag"`
	Rechnungsdatum    *string                    `json:"rechnungsdatum"`
	LeistungsdatumVon *string                    `json:"leistungsdatum_von"`
	LeistungsdatumBis *string                    `json:"leistungsdatum_bis"`
	Faelligkeitsdatum *string                    `json:"faelligkeitsdatum"`
	Steuersatz        *float64                   `json:"steuersatz"`
	Notizen           *string                    `json:"notizen"`
	Positionen        []CreateInvoiceLineRequest `json:"positionen"`
}

// UpdateInvoiceRequest uses coalesce-to-existing semantics except
// Notizen, BezahltAm and Zahlungsmethode, which are fully replaced.
type UpdateInvoiceRequest struct {
	Rechnungsdatum    *string  `json:"rechnungsdatum"`
	LeistungsdatumVon *string  `json:"leistungsdatum_von"`
	LeistungsdatumBis *string  `json:"leistungsdatum_bis"`
	Faelligkeitsdatum *string  `json:"faelligkeitsdatum"`
	Nettobetrag       *float64 `json:"nettobetrag"`
	Steuersatz        *float64 `json:"steuersatz"`
	Bezahlt           *bool    `json:"bezahlt"`
	BezahltAm         *string  `json:"bezahlt_am"`
	Zahlungsmethode   *string  `json:"zahlungsmethode"`
	Notizen           *string  `json:"notizen"`
}

type CancelInvoiceRequest struct {
	StornoGrund *string `json:"storno_grund"`
}

// InvoiceFilter narrows the paginated invoice listing.
type InvoiceFilter struct {
	KundeID *int
	Bezahlt *bool
	Jahr    *int
	Limit   int
	Offset  int
}

// InvoiceSummary aggregates the principal's full invoice ledger,
// independent of any active list filters.
type InvoiceSummary struct {
	AnzahlGesamt  int     `json:"anzahl_gesamt"`
	AnzahlBezahlt int     `json:"anzahl_bezahlt"`
	AnzahlOffen   int     `json:"anzahl_offen"`
	SummeBrutto   float64 `json:"summe_brutto"`
	SummeBezahlt  float64 `json:"summe_bezahlt"`
	SummeOffen    float64 `json:"summe_offen"`
}

// InvoiceList is a page of invoices plus the principal-wide summary.
type InvoiceList struct {
	Honorarnoten []*InvoiceWithDetails `json:"honorarnoten"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	Summary      *InvoiceSummary       `json:"zusammenfassung"`
}
