package services

import (
	"context"
	"time"

	"timebook-backend/internal/models"
	"timebook-backend/internal/repositories"
	"timebook-backend/internal/timeutil"
)

type StatsService struct {
	repo *repositories.StatsRepository
}

func NewStatsService(repo *repositories.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// Overview recomputes the dashboard rollup from the ledgers.
func (s *StatsService) Overview(ctx context.Context, principal *models.Principal) (*models.StatsOverview, error) {
	today := timeutil.Today()
	weekStart := WeekStart(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, timeutil.Vienna)
	yearStart := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, timeutil.Vienna)

	var overview models.StatsOverview
	var err error

	if overview.StundenHeute, err = s.repo.HoursBetween(ctx, principal.ID, today, today); err != nil {
		return nil, err
	}
	if overview.StundenWoche, err = s.repo.HoursBetween(ctx, principal.ID, weekStart, today); err != nil {
		return nil, err
	}
	if overview.StundenMonat, err = s.repo.HoursBetween(ctx, principal.ID, monthStart, today); err != nil {
		return nil, err
	}
	if overview.StundenJahr, err = s.repo.HoursBetween(ctx, principal.ID, yearStart, today); err != nil {
		return nil, err
	}
	if overview.KundenGesamt, overview.KundenAktiv, err = s.repo.ClientCounts(ctx, principal.ID); err != nil {
		return nil, err
	}
	if overview.LaufendeEintraege, err = s.repo.RunningCount(ctx, principal.ID); err != nil {
		return nil, err
	}

	return &overview, nil
}

func (s *StatsService) Monthly(ctx context.Context, principal *models.Principal, jahr int) ([]*models.MonthlyStats, error) {
	return s.repo.Monthly(ctx, principal.ID, jahr)
}

func (s *StatsService) Daily(ctx context.Context, principal *models.Principal, jahr, monat int) ([]*models.DailyStats, error) {
	return s.repo.Daily(ctx, principal.ID, jahr, monat)
}

func (s *StatsService) PerClient(ctx context.Context, principal *models.Principal) ([]*models.ClientStats, error) {
	return s.repo.PerClient(ctx, principal.ID)
}

func (s *StatsService) PerCategory(ctx context.Context, principal *models.Principal) ([]*models.CategoryStats, error) {
	return s.repo.PerCategory(ctx, principal.ID)
}
