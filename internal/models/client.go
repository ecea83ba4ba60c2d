package models

import "time"

// Client is a customer (Kunde) owned by a freelancer. Clients are never
// hard-deleted; they are disabled via the aktiv flag.
type Client struct {
	ID              int       `json:"id"`
	MitarbeiterID   int       `json:"mitarbeiter_id"`
	Kundennummer    string    `json:"kundennummer"`
	Firmenname      *string   `json:"firmenname"`
	Ansprechpartner *string   `json:"ansprechpartner"`
	Email           *string   `json:"email"`
	Telefon         *string   `json:"telefon"`
	Adresse         *string   `json:"adresse"`
	PLZ             *string   `json:"plz"`
	Ort             *string   `json:"ort"`
	Land            string    `json:"land"`
	UIDNummer       *string   `json:"uid_nummer"`
	ZahlungszielTage int      `json:"zahlungsziel_tage"`
	Notizen         *string   `json:"notizen"`
	Aktiv           bool      `json:"aktiv"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName returns the company name, falling back to the contact person.
func (c *Client) DisplayName() string {
	if c.Firmenname != nil && *c.Firmenname != "" {
		return *c.Firmenname
	}
	if c.Ansprechpartner != nil {
		return *c.Ansprechpartner
	}
	return c.Kundennummer
}

type CreateClientRequest struct {
	Firmenname      *string `json:"firmenname"`
	Ansprechpartner *string `json:"ansprechpartner"`
	Email           *string `json:"email"`
	Telefon         *string `json:"telefon"`
	Adresse         *string `json:"adresse"`
	PLZ             *string `json:"plz"`
	Ort             *string `json:"ort"`
	Land            *string `json:"land"`
	UIDNummer       *string `json:"uid_nummer"`
	ZahlungszielTage *int   `json:"zahlungsziel_tage"`
	Notizen         *string `json:"notizen"`
}

type UpdateClientRequest struct {
	Firmenname      *string `json:"firmenname"`
	Ansprechpartner *string `json:"ansprechpartner"`
	Email           *string `json:"email"`
	Telefon         *string `json:"telefon"`
	Adresse         *string `json:"adresse"`
	PLZ             *string `json:"plz"`
	Ort             *string `json:"ort"`
	Land            *string `json:"land"`
	UIDNummer       *string `json:"uid_nummer"`
	ZahlungszielTage *int   `json:"zahlungsziel_tage"`
	Notizen         *string `json:"notizen"`
	Aktiv           *bool   `json:"aktiv"`
}
