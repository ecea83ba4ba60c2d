package services

import (
	"context"

	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

// ClientStore is the repository surface the client service needs.
type ClientStore interface {
	NextKundennummer(ctx context.Context) (string, error)
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, mitarbeiterID, id int) (*models.Client, error)
	List(ctx context.Context, mitarbeiterID int, aktiv *bool) ([]*models.Client, error)
	Update(ctx context.Context, c *models.Client) error
}

type ClientService struct {
	repo ClientStore
	cfg  *config.Config
}

func NewClientService(repo ClientStore, cfg *config.Config) *ClientService {
	return &ClientService{repo: repo, cfg: cfg}
}

func (s *ClientService) Create(ctx context.Context, principal *models.Principal, req *models.CreateClientRequest) (*models.Client, error) {
	if emptyOrNil(req.Firmenname) && emptyOrNil(req.Ansprechpartner) {
		return nil, domain.NewValidationError("firmenname", "Firmenname oder Ansprechpartner ist erforderlich")
	}

	nummer, err := s.repo.NextKundennummer(ctx)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		MitarbeiterID:    principal.ID,
		Kundennummer:     nummer,
		Firmenname:       req.Firmenname,
		Ansprechpartner:  req.Ansprechpartner,
		Email:            req.Email,
		Telefon:          req.Telefon,
		Adresse:          req.Adresse,
		PLZ:              req.PLZ,
		Ort:              req.Ort,
		Land:             "Österreich",
		UIDNummer:        req.UIDNummer,
		ZahlungszielTage: s.cfg.TimeBook.DefaultPaymentTermDays,
		Notizen:          req.Notizen,
	}
	if req.Land != nil && *req.Land != "" {
		client.Land = *req.Land
	}
	if req.ZahlungszielTage != nil {
		if *req.ZahlungszielTage <= 0 {
			return nil, domain.NewValidationError("zahlungsziel_tage", "Zahlungsziel muss positiv sein")
		}
		client.ZahlungszielTage = *req.ZahlungszielTage
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, principal *models.Principal, id int) (*models.Client, error) {
	return s.repo.Get(ctx, principal.ID, id)
}

func (s *ClientService) List(ctx context.Context, principal *models.Principal, aktiv *bool) ([]*models.Client, error) {
	return s.repo.List(ctx, principal.ID, aktiv)
}

// Update applies coalesce-to-existing semantics: absent fields keep
// their stored values.
func (s *ClientService) Update(ctx context.Context, principal *models.Principal, id int, req *models.UpdateClientRequest) (*models.Client, error) {
	client, err := s.repo.Get(ctx, principal.ID, id)
	if err != nil {
		return nil, err
	}

	if req.Firmenname != nil {
		client.Firmenname = req.Firmenname
	}
	if req.Ansprechpartner != nil {
		client.Ansprechpartner = req.Ansprechpartner
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Telefon != nil {
		client.Telefon = req.Telefon
	}
	if req.Adresse != nil {
		client.Adresse = req.Adresse
	}
	if req.PLZ != nil {
		client.PLZ = req.PLZ
	}
	if req.Ort != nil {
		client.Ort = req.Ort
	}
	if req.Land != nil && *req.Land != "" {
		client.Land = *req.Land
	}
	if req.UIDNummer != nil {
		client.UIDNummer = req.UIDNummer
	}
	if req.ZahlungszielTage != nil {
		if *req.ZahlungszielTage <= 0 {
			return nil, domain.NewValidationError("zahlungsziel_tage", "Zahlungsziel muss positiv sein")
		}
		client.ZahlungszielTage = *req.ZahlungszielTage
	}
	if req.Notizen != nil {
		client.Notizen = req.Notizen
	}
	if req.Aktiv != nil {
		client.Aktiv = *req.Aktiv
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func emptyOrNil(s *string) bool {
	return s == nil || *s == ""
}
