package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

type TimeEntryRepository struct {
	DB *pgxpool.Pool
}

func NewTimeEntryRepository(db *pgxpool.Pool) *TimeEntryRepository {
	return &TimeEntryRepository{DB: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const timeEntryColumns = `id, mitarbeiter_id, kunde_id, kategorie_id, titel,
	beschreibung, start_datum, start_zeit, ende_datum, ende_zeit, stundensatz,
	abgeschlossen, abgerechnet, abgerechnet_am, notizen, created_at, updated_at`

func scanTimeEntry(row pgx.Row) (*models.TimeEntry, error) {
	var e models.TimeEntry
	err := row.Scan(&e.ID, &e.MitarbeiterID, &e.KundeID, &e.KategorieID, &e.Titel,
		&e.Beschreibung, &e.StartDatum, &e.StartZeit, &e.EndeDatum, &e.EndeZeit,
		&e.Stundensatz, &e.Abgeschlossen, &e.Abgerechnet, &e.AbgerechnetAm,
		&e.Notizen, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *TimeEntryRepository) Create(ctx context.Context, e *models.TimeEntry) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO dienstleistungen(mitarbeiter_id, kunde_id, kategorie_id, titel,
		                              beschreibung, start_datum, start_zeit, ende_datum,
		                              ende_zeit, stundensatz, abgeschlossen, notizen)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		e.MitarbeiterID, e.KundeID, e.KategorieID, e.Titel, e.Beschreibung,
		e.StartDatum, e.StartZeit, e.EndeDatum, e.EndeZeit, e.Stundensatz,
		e.Abgeschlossen, e.Notizen,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *TimeEntryRepository) Get(ctx context.Context, mitarbeiterID, id int) (*models.TimeEntry, error) {
	return scanTimeEntry(r.DB.QueryRow(ctx,
		`SELECT `+timeEntryColumns+` FROM dienstleistungen
		 WHERE id = $1 AND mitarbeiter_id = $2`, id, mitarbeiterID))
}

// GetWithDetails joins the client name and category label for the
// detail response.
func (r *TimeEntryRepository) GetWithDetails(ctx context.Context, mitarbeiterID, id int) (*models.TimeEntryWithDetails, error) {
	var e models.TimeEntryWithDetails
	err := r.DB.QueryRow(ctx,
		`SELECT d.id, d.mitarbeiter_id, d.kunde_id, d.kategorie_id, d.titel,
		        d.beschreibung, d.start_datum, d.start_zeit, d.ende_datum, d.ende_zeit,
		        d.stundensatz, d.abgeschlossen, d.abgerechnet, d.abgerechnet_am,
		        d.notizen, d.created_at, d.updated_at,
		        COALESCE(k.firmenname, k.ansprechpartner, k.kundennummer) AS kunde_name,
		        kat.bezeichnung, kat.farbe
		 FROM dienstleistungen d
		 JOIN kunden k ON d.kunde_id = k.id
		 LEFT JOIN dienstleistungskategorien kat ON d.kategorie_id = kat.id
		 WHERE d.id = $1 AND d.mitarbeiter_id = $2`, id, mitarbeiterID,
	).Scan(&e.ID, &e.MitarbeiterID, &e.KundeID, &e.KategorieID, &e.Titel,
		&e.Beschreibung, &e.StartDatum, &e.StartZeit, &e.EndeDatum, &e.EndeZeit,
		&e.Stundensatz, &e.Abgeschlossen, &e.Abgerechnet, &e.AbgerechnetAm,
		&e.Notizen, &e.CreatedAt, &e.UpdatedAt,
		&e.KundeName, &e.KategorieName, &e.KategorieFarbe)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func entryFilterConditions(mitarbeiterID int, filter *models.TimeEntryFilter) sq.And {
	conds := sq.And{sq.Eq{"d.mitarbeiter_id": mitarbeiterID}}
	if filter.KundeID != nil {
		conds = append(conds, sq.Eq{"d.kunde_id": *filter.KundeID})
	}
	if filter.Von != nil {
		conds = append(conds, sq.GtOrEq{"d.start_datum": *filter.Von})
	}
	if filter.Bis != nil {
		conds = append(conds, sq.LtOrEq{"d.start_datum": *filter.Bis})
	}
	if filter.Abgeschlossen != nil {
		conds = append(conds, sq.Eq{"d.abgeschlossen": *filter.Abgeschlossen})
	}
	if filter.Laufend != nil {
		if *filter.Laufend {
			conds = append(conds, sq.Expr("d.ende_zeit IS NULL"))
		} else {
			conds = append(conds, sq.Expr("d.ende_zeit IS NOT NULL"))
		}
	}
	return conds
}

// List returns a page of entries ordered newest-first plus the total
// matching count. The count applies the same filters as the page query.
func (r *TimeEntryRepository) List(ctx context.Context, mitarbeiterID int, filter *models.TimeEntryFilter) ([]*models.TimeEntryWithDetails, int, error) {
	conds := entryFilterConditions(mitarbeiterID, filter)

	query, args, err := psql.
		Select(`d.id, d.mitarbeiter_id, d.kunde_id, d.kategorie_id, d.titel,
			d.beschreibung, d.start_datum, d.start_zeit, d.ende_datum, d.ende_zeit,
			d.stundensatz, d.abgeschlossen, d.abgerechnet, d.abgerechnet_am,
			d.notizen, d.created_at, d.updated_at,
			COALESCE(k.firmenname, k.ansprechpartner, k.kundennummer) AS kunde_name,
			kat.bezeichnung, kat.farbe`).
		From("dienstleistungen d").
		Join("kunden k ON d.kunde_id = k.id").
		LeftJoin("dienstleistungskategorien kat ON d.kategorie_id = kat.id").
		Where(conds).
		OrderBy("d.start_datum DESC", "d.start_zeit DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*models.TimeEntryWithDetails
	for rows.Next() {
		var e models.TimeEntryWithDetails
		err := rows.Scan(&e.ID, &e.MitarbeiterID, &e.KundeID, &e.KategorieID, &e.Titel,
			&e.Beschreibung, &e.StartDatum, &e.StartZeit, &e.EndeDatum, &e.EndeZeit,
			&e.Stundensatz, &e.Abgeschlossen, &e.Abgerechnet, &e.AbgerechnetAm,
			&e.Notizen, &e.CreatedAt, &e.UpdatedAt,
			&e.KundeName, &e.KategorieName, &e.KategorieFarbe)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("dienstleistungen d").
		Where(conds).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, e *models.TimeEntry) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE dienstleistungen
		 SET kunde_id = $1, kategorie_id = $2, titel = $3, beschreibung = $4,
		     start_datum = $5, start_zeit = $6, ende_datum = $7, ende_zeit = $8,
		     stundensatz = $9, abgeschlossen = $10, notizen = $11, updated_at = now()
		 WHERE id = $12 AND mitarbeiter_id = $13`,
		e.KundeID, e.KategorieID, e.Titel, e.Beschreibung, e.StartDatum,
		e.StartZeit, e.EndeDatum, e.EndeZeit, e.Stundensatz, e.Abgeschlossen,
		e.Notizen, e.ID, e.MitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, mitarbeiterID, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM dienstleistungen WHERE id = $1 AND mitarbeiter_id = $2`,
		id, mitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
