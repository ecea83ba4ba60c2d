package services

import (
	"context"
	"errors"
	"time"

	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/timeutil"
	"timebook-backend/internal/validation"
)

// TimeEntryStore is the repository surface the time entry service needs.
type TimeEntryStore interface {
	Create(ctx context.Context, e *models.TimeEntry) error
	Get(ctx context.Context, mitarbeiterID, id int) (*models.TimeEntry, error)
	GetWithDetails(ctx context.Context, mitarbeiterID, id int) (*models.TimeEntryWithDetails, error)
	List(ctx context.Context, mitarbeiterID int, filter *models.TimeEntryFilter) ([]*models.TimeEntryWithDetails, int, error)
	Update(ctx context.Context, e *models.TimeEntry) error
	Delete(ctx context.Context, mitarbeiterID, id int) error
}

type TimeEntryService struct {
	repo    TimeEntryStore
	clients ClientStore
	cfg     *config.Config
}

func NewTimeEntryService(repo TimeEntryStore, clients ClientStore, cfg *config.Config) *TimeEntryService {
	return &TimeEntryService{repo: repo, clients: clients, cfg: cfg}
}

func (s *TimeEntryService) rules() validation.TimeRangeRules {
	return validation.TimeRangeRules{
		MaxDuration:      time.Duration(s.cfg.TimeBook.MaxDurationHours) * time.Hour,
		AllowFutureDates: s.cfg.TimeBook.AllowFutureDates,
	}
}

func parseDateField(value, field string) (time.Time, error) {
	d, err := timeutil.ParseDate(value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "Ungültiges Datum, erwartet YYYY-MM-DD")
	}
	return d, nil
}

// Create logs a new entry. The entry starts running unless both end
// fields are supplied, in which case the shared time validation runs
// and the entry is created completed.
func (s *TimeEntryService) Create(ctx context.Context, principal *models.Principal, req *models.CreateTimeEntryRequest) (*models.TimeEntry, error) {
	if req.KundeID == 0 {
		return nil, domain.NewValidationError("kunde_id", "Kunde ist erforderlich")
	}
	if req.Beschreibung == "" {
		return nil, domain.NewValidationError("beschreibung", "Beschreibung ist erforderlich")
	}

	if _, err := s.clients.Get(ctx, principal.ID, req.KundeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("kunde_id", "Kunde nicht gefunden")
		}
		return nil, err
	}

	startDatum, err := parseDateField(req.StartDatum, "start_datum")
	if err != nil {
		return nil, err
	}
	if _, err := validation.ParseClock(req.StartZeit); err != nil {
		return nil, domain.NewValidationError("start_zeit", "Ungültiges Zeitformat, erwartet HH:MM")
	}

	entry := &models.TimeEntry{
		MitarbeiterID: principal.ID,
		KundeID:       req.KundeID,
		KategorieID:   req.KategorieID,
		Titel:         req.Titel,
		Beschreibung:  req.Beschreibung,
		StartDatum:    startDatum,
		StartZeit:     req.StartZeit,
		Stundensatz:   req.Stundensatz,
		Notizen:       req.Notizen,
	}

	if (req.EndeDatum == nil) != (req.EndeZeit == nil) {
		return nil, domain.NewValidationError("ende_zeit", "Ende-Datum und Ende-Zeit müssen gemeinsam angegeben werden")
	}
	if req.EndeDatum != nil && req.EndeZeit != nil {
		endeDatum, err := parseDateField(*req.EndeDatum, "ende_datum")
		if err != nil {
			return nil, err
		}
		if _, err := validation.TimeRange(&startDatum, req.StartZeit, *req.EndeZeit, s.rules()); err != nil {
			return nil, err
		}
		entry.EndeDatum = &endeDatum
		entry.EndeZeit = req.EndeZeit
		entry.Abgeschlossen = true
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TimeEntryService) Get(ctx context.Context, principal *models.Principal, id int) (*models.TimeEntryWithDetails, error) {
	return s.repo.GetWithDetails(ctx, principal.ID, id)
}

func (s *TimeEntryService) List(ctx context.Context, principal *models.Principal, filter *models.TimeEntryFilter) (*models.TimeEntryList, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, total, err := s.repo.List(ctx, principal.ID, filter)
	if err != nil {
		return nil, err
	}
	return &models.TimeEntryList{
		Eintraege: entries,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}, nil
}

// Update coalesces absent fields to their stored values and recomputes
// abgeschlossen: the caller-supplied value wins, otherwise setting an
// end time completes the entry, otherwise the stored flag stays.
func (s *TimeEntryService) Update(ctx context.Context, principal *models.Principal, id int, req *models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	entry, err := s.repo.Get(ctx, principal.ID, id)
	if err != nil {
		return nil, err
	}

	if s.cfg.TimeBook.LockInvoicedEntries && entry.Abgerechnet {
		return nil, domain.NewConflictError("Dienstleistung wurde bereits abgerechnet und kann nicht mehr geändert werden")
	}

	if req.KundeID != nil {
		if _, err := s.clients.Get(ctx, principal.ID, *req.KundeID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewValidationError("kunde_id", "Kunde nicht gefunden")
			}
			return nil, err
		}
		entry.KundeID = *req.KundeID
	}
	if req.KategorieID != nil {
		entry.KategorieID = req.KategorieID
	}
	if req.Titel != nil {
		entry.Titel = req.Titel
	}
	if req.Beschreibung != nil {
		if *req.Beschreibung == "" {
			return nil, domain.NewValidationError("beschreibung", "Beschreibung darf nicht leer sein")
		}
		entry.Beschreibung = *req.Beschreibung
	}
	if req.StartDatum != nil {
		startDatum, err := parseDateField(*req.StartDatum, "start_datum")
		if err != nil {
			return nil, err
		}
		entry.StartDatum = startDatum
	}
	if req.StartZeit != nil {
		if _, err := validation.ParseClock(*req.StartZeit); err != nil {
			return nil, domain.NewValidationError("start_zeit", "Ungültiges Zeitformat, erwartet HH:MM")
		}
		entry.StartZeit = *req.StartZeit
	}
	if req.EndeDatum != nil {
		endeDatum, err := parseDateField(*req.EndeDatum, "ende_datum")
		if err != nil {
			return nil, err
		}
		entry.EndeDatum = &endeDatum
	}
	if req.EndeZeit != nil {
		if _, err := validation.TimeRange(&entry.StartDatum, entry.StartZeit, *req.EndeZeit, s.rules()); err != nil {
			return nil, err
		}
		entry.EndeZeit = req.EndeZeit
		if entry.EndeDatum == nil {
			entry.EndeDatum = &entry.StartDatum
		}
	}
	if req.Stundensatz != nil {
		entry.Stundensatz = req.Stundensatz
	}
	if req.Notizen != nil {
		entry.Notizen = req.Notizen
	}

	switch {
	case req.Abgeschlossen != nil:
		entry.Abgeschlossen = *req.Abgeschlossen
	case req.EndeZeit != nil:
		entry.Abgeschlossen = true
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete hard-deletes an entry unless it has been invoiced.
func (s *TimeEntryService) Delete(ctx context.Context, principal *models.Principal, id int) error {
	entry, err := s.repo.Get(ctx, principal.ID, id)
	if err != nil {
		return err
	}
	if entry.Abgerechnet {
		return domain.NewConflictError("Dienstleistung wurde bereits abgerechnet und kann nicht gelöscht werden")
	}
	return s.repo.Delete(ctx, principal.ID, id)
}
