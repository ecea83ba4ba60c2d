package models

import "time"

// Category is a user-defined service category (Dienstleistungskategorie)
// with an optional default hourly rate and display color.
type Category struct {
	ID                  int       `json:"id"`
	MitarbeiterID       int       `json:"mitarbeiter_id"`
	Bezeichnung         string    `json:"bezeichnung"`
	Beschreibung        *string   `json:"beschreibung"`
	StandardStundensatz *float64  `json:"standard_stundensatz"`
	Farbe               *string   `json:"farbe"`
	Aktiv               bool      `json:"aktiv"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CategoryWithUsage is a category joined with its time-entry usage.
type CategoryWithUsage struct {
	Category
	AnzahlEintraege int     `json:"anzahl_eintraege"`
	SummeStunden    float64 `json:"summe_stunden"`
}

type CreateCategoryRequest struct {
	Bezeichnung         string   `json:"bezeichnung"`
	Beschreibung        *string  `json:"beschreibung"`
	StandardStundensatz *float64 `json:"standard_stundensatz"`
	Farbe               *string  `json:"farbe"`
}

// UpdateCategoryRequest uses coalesce-to-existing semantics for
// Bezeichnung/StandardStundensatz/Aktiv; Beschreibung and Farbe are
// always fully replaced, including with null.
type UpdateCategoryRequest struct {
	Bezeichnung         *string  `json:"bezeichnung"`
	Beschreibung        *string  `json:"beschreibung"`
	StandardStundensatz *float64 `json:"standard_stundensatz"`
	Farbe               *string  `json:"farbe"`
	Aktiv               *bool    `json:"aktiv"`
}
