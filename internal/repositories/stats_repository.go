package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timebook-backend/internal/models"
)

// StatsRepository computes read-only rollups over the time entry and
// invoice ledgers. Nothing here is cached; every call recomputes from
// the current ledger state.
type StatsRepository struct {
	DB *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{DB: db}
}

// hoursExpr sums completed entry durations in hours. Times are stored
// as HH:MM text and cast for arithmetic.
const hoursExpr = `COALESCE(SUM(EXTRACT(EPOCH FROM (ende_zeit::time - start_zeit::time)) / 3600.0)
	FILTER (WHERE ende_zeit IS NOT NULL), 0)`

// HoursBetween sums completed hours with start_datum in [von, bis].
func (r *StatsRepository) HoursBetween(ctx context.Context, mitarbeiterID int, von, bis time.Time) (float64, error) {
	var hours float64
	err := r.DB.QueryRow(ctx,
		`SELECT `+hoursExpr+` FROM dienstleistungen
		 WHERE mitarbeiter_id = $1 AND start_datum BETWEEN $2 AND $3`,
		mitarbeiterID, von, bis).Scan(&hours)
	return hours, err
}

func (r *StatsRepository) ClientCounts(ctx context.Context, mitarbeiterID int) (total, active int, err error) {
	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE aktiv)
		 FROM kunden WHERE mitarbeiter_id = $1`, mitarbeiterID).Scan(&total, &active)
	return total, active, err
}

func (r *StatsRepository) RunningCount(ctx context.Context, mitarbeiterID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM dienstleistungen
		 WHERE mitarbeiter_id = $1 AND ende_zeit IS NULL`, mitarbeiterID).Scan(&count)
	return count, err
}

// Monthly returns one row per month with at least one entry in the year.
func (r *StatsRepository) Monthly(ctx context.Context, mitarbeiterID, jahr int) ([]*models.MonthlyStats, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT EXTRACT(MONTH FROM start_datum)::int AS monat, COUNT(*), `+hoursExpr+`
		 FROM dienstleistungen
		 WHERE mitarbeiter_id = $1 AND EXTRACT(YEAR FROM start_datum) = $2
		 GROUP BY monat
		 ORDER BY monat`, mitarbeiterID, jahr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.MonthlyStats
	for rows.Next() {
		var s models.MonthlyStats
		if err := rows.Scan(&s.Monat, &s.AnzahlEintraege, &s.SummeStunden); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// Daily returns one row per day with at least one entry in the month.
func (r *StatsRepository) Daily(ctx context.Context, mitarbeiterID, jahr, monat int) ([]*models.DailyStats, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT EXTRACT(DAY FROM start_datum)::int AS tag, COUNT(*), `+hoursExpr+`
		 FROM dienstleistungen
		 WHERE mitarbeiter_id = $1
		   AND EXTRACT(YEAR FROM start_datum) = $2
		   AND EXTRACT(MONTH FROM start_datum) = $3
		 GROUP BY tag
		 ORDER BY tag`, mitarbeiterID, jahr, monat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.DailyStats
	for rows.Next() {
		var s models.DailyStats
		if err := rows.Scan(&s.Tag, &s.AnzahlEintraege, &s.SummeStunden); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// PerClient returns the per-client totals over the time entry ledger.
func (r *StatsRepository) PerClient(ctx context.Context, mitarbeiterID int) ([]*models.ClientStats, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT k.id, COALESCE(k.firmenname, k.ansprechpartner, k.kundennummer),
		        COUNT(d.id),
		        COALESCE(SUM(EXTRACT(EPOCH FROM (d.ende_zeit::time - d.start_zeit::time)) / 3600.0)
		                 FILTER (WHERE d.ende_zeit IS NOT NULL), 0)
		 FROM kunden k
		 LEFT JOIN dienstleistungen d ON d.kunde_id = k.id
		 WHERE k.mitarbeiter_id = $1
		 GROUP BY k.id
		 ORDER BY 4 DESC`, mitarbeiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.ClientStats
	for rows.Next() {
		var s models.ClientStats
		if err := rows.Scan(&s.KundeID, &s.KundeName, &s.AnzahlEintraege, &s.SummeStunden); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// PerCategory returns per-category totals; entries without a category
// are grouped into an explicit "Ohne Kategorie" bucket.
func (r *StatsRepository) PerCategory(ctx context.Context, mitarbeiterID int) ([]*models.CategoryStats, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT kat.id, COALESCE(kat.bezeichnung, 'Ohne Kategorie'), kat.farbe,
		        COUNT(d.id),
		        COALESCE(SUM(EXTRACT(EPOCH FROM (d.ende_zeit::time - d.start_zeit::time)) / 3600.0)
		                 FILTER (WHERE d.ende_zeit IS NOT NULL), 0)
		 FROM dienstleistungen d
		 LEFT JOIN dienstleistungskategorien kat ON d.kategorie_id = kat.id
		 WHERE d.mitarbeiter_id = $1
		 GROUP BY kat.id, kat.bezeichnung, kat.farbe
		 ORDER BY 5 DESC`, mitarbeiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.CategoryStats
	for rows.Next() {
		var s models.CategoryStats
		if err := rows.Scan(&s.KategorieID, &s.KategorieName, &s.Farbe, &s.AnzahlEintraege, &s.SummeStunden); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}
