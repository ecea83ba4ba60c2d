package models

import "time"

// TimeEntry is a logged unit of work (Dienstleistung). An entry is
// running while EndeZeit is nil; once both end fields are set it is
// completed, and it becomes invoiced when referenced by an invoice line.
type TimeEntry struct {
	ID            int        `json:"id"`
	MitarbeiterID int        `json:"mitarbeiter_id"`
	KundeID       int        `json:"kunde_id"`
	KategorieID   *int       `json:"kategorie_id"`
	Titel         *string    `json:"titel"`
	Beschreibung  string     `json:"beschreibung"`
	StartDatum    time.Time  `json:"start_datum"`
	StartZeit     string     `json:"start_zeit"`
	EndeDatum     *time.Time `json:"ende_datum"`
	EndeZeit      *string    `json:"ende_zeit"`
	Stundensatz   *float64   `json:"stundensatz"`
	Abgeschlossen bool       `json:"abgeschlossen"`
	Abgerechnet   bool       `json:"abgerechnet"`
	AbgerechnetAm *time.Time `json:"abgerechnet_am"`
	Notizen       *string    `json:"notizen"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Running reports whether the entry has no end time yet.
func (e *TimeEntry) Running() bool {
	return e.EndeZeit == nil
}

// TimeEntryWithDetails joins the owning client and category labels.
type TimeEntryWithDetails struct {
	TimeEntry
	KundeName      string  `json:"kunde_name"`
	KategorieName  *string `json:"kategorie_name"`
	KategorieFarbe *string `json:"kategorie_farbe"`
}

type CreateTimeEntryRequest struct {
	KundeID      int      `json:"kunde_id"`
	KategorieID  *int     `json:"kategorie_id"`
	Titel        *string  `json:"titel"`
	Beschreibung string   `json:"beschreibung"`
	StartDatum   string   `json:"start_datum"`
	StartZeit    string   `json:"start_zeit"`
	EndeDatum    *string  `json:"ende_datum"`
	EndeZeit     *string  `json:"ende_zeit"`
	Stundensatz  *float64 `json:"stundensatz"`
	Notizen      *string  `json:"notizen"`
}

type UpdateTimeEntryRequest struct {
	KundeID       *int     `json:"kunde_id"`
	KategorieID   *int     `json:"kategorie_id"`
	Titel         *string  `json:"titel"`
	Beschreibung  *string  `json:"beschreibung"`
	StartDatum    *string  `json:"start_datum"`
	StartZeit     *string  `json:"start_zeit"`
	EndeDatum     *string  `json:"ende_datum"`
	EndeZeit      *string  `json:"ende_zeit"`
	Stundensatz   *float64 `json:"stundensatz"`
	Abgeschlossen *bool    `json:"abgeschlossen"`
	Notizen       *string  `json:"notizen"`
}

// TimeEntryFilter narrows the paginated listing.
type TimeEntryFilter struct {
	KundeID       *int
	Von           *time.Time
	Bis           *time.Time
	Abgeschlossen *bool
	Laufend       *bool
	Limit         int
	Offset        int
}

// TimeEntryList is a page of entries plus pagination metadata.
type TimeEntryList struct {
	Eintraege []*TimeEntryWithDetails `json:"eintraege"`
	Total     int                     `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
}
