package services

import (
	"context"
	"regexp"
	"strings"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

var farbePattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryStore is the repository surface the category service needs.
type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	Get(ctx context.Context, mitarbeiterID, id int) (*models.Category, error)
	List(ctx context.Context, mitarbeiterID int) ([]*models.CategoryWithUsage, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, mitarbeiterID, id int) error
}

type CategoryService struct {
	repo CategoryStore
}

func NewCategoryService(repo CategoryStore) *CategoryService {
	return &CategoryService{repo: repo}
}

func validateFarbe(farbe *string) error {
	if farbe != nil && !farbePattern.MatchString(*farbe) {
		return domain.NewValidationError("farbe", "Farbe muss dem Format #RRGGBB entsprechen")
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, principal *models.Principal, req *models.CreateCategoryRequest) (*models.Category, error) {
	bezeichnung := strings.TrimSpace(req.Bezeichnung)
	if bezeichnung == "" {
		return nil, domain.NewValidationError("bezeichnung", "Bezeichnung ist erforderlich")
	}
	if err := validateFarbe(req.Farbe); err != nil {
		return nil, err
	}

	category := &models.Category{
		MitarbeiterID:       principal.ID,
		Bezeichnung:         bezeichnung,
		Beschreibung:        req.Beschreibung,
		StandardStundensatz: req.StandardStundensatz,
		Farbe:               req.Farbe,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, principal *models.Principal) ([]*models.CategoryWithUsage, error) {
	return s.repo.List(ctx, principal.ID)
}

// Update coalesces Bezeichnung, StandardStundensatz and Aktiv to their
// existing values when absent; Beschreibung and Farbe are always fully
// replaced, null included, so there is no partial-clear ambiguity.
func (s *CategoryService) Update(ctx context.Context, principal *models.Principal, id int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.Get(ctx, principal.ID, id)
	if err != nil {
		return nil, err
	}

	if req.Bezeichnung != nil {
		bezeichnung := strings.TrimSpace(*req.Bezeichnung)
		if bezeichnung == "" {
			return nil, domain.NewValidationError("bezeichnung", "Bezeichnung darf nicht leer sein")
		}
		category.Bezeichnung = bezeichnung
	}
	if err := validateFarbe(req.Farbe); err != nil {
		return nil, err
	}
	category.Beschreibung = req.Beschreibung
	category.Farbe = req.Farbe
	if req.StandardStundensatz != nil {
		category.StandardStundensatz = req.StandardStundensatz
	}
	if req.Aktiv != nil {
		category.Aktiv = *req.Aktiv
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, principal *models.Principal, id int) error {
	return s.repo.Delete(ctx, principal.ID, id)
}
