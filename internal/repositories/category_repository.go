package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

const categoryColumns = `id, mitarbeiter_id, bezeichnung, beschreibung,
	standard_stundensatz, farbe, aktiv, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.MitarbeiterID, &c.Bezeichnung, &c.Beschreibung,
		&c.StandardStundensatz, &c.Farbe, &c.Aktiv, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO dienstleistungskategorien(mitarbeiter_id, bezeichnung, beschreibung,
		                                       standard_stundensatz, farbe)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, aktiv, created_at, updated_at`,
		c.MitarbeiterID, c.Bezeichnung, c.Beschreibung, c.StandardStundensatz, c.Farbe,
	).Scan(&c.ID, &c.Aktiv, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CategoryRepository) Get(ctx context.Context, mitarbeiterID, id int) (*models.Category, error) {
	return scanCategory(r.DB.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM dienstleistungskategorien
		 WHERE id = $1 AND mitarbeiter_id = $2`, id, mitarbeiterID))
}

// List returns categories joined with the count and hour sum of their
// time entries, ordered by label.
func (r *CategoryRepository) List(ctx context.Context, mitarbeiterID int) ([]*models.CategoryWithUsage, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT k.id, k.mitarbeiter_id, k.bezeichnung, k.beschreibung,
		        k.standard_stundensatz, k.farbe, k.aktiv, k.created_at, k.updated_at,
		        COUNT(d.id) AS anzahl,
		        COALESCE(SUM(EXTRACT(EPOCH FROM (d.ende_zeit::time - d.start_zeit::time)) / 3600.0)
		                 FILTER (WHERE d.ende_zeit IS NOT NULL), 0) AS stunden
		 FROM dienstleistungskategorien k
		 LEFT JOIN dienstleistungen d ON d.kategorie_id = k.id
		 WHERE k.mitarbeiter_id = $1
		 GROUP BY k.id
		 ORDER BY k.bezeichnung`, mitarbeiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.CategoryWithUsage
	for rows.Next() {
		var c models.CategoryWithUsage
		err := rows.Scan(&c.ID, &c.MitarbeiterID, &c.Bezeichnung, &c.Beschreibung,
			&c.StandardStundensatz, &c.Farbe, &c.Aktiv, &c.CreatedAt, &c.UpdatedAt,
			&c.AnzahlEintraege, &c.SummeStunden)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE dienstleistungskategorien
		 SET bezeichnung = $1, beschreibung = $2, standard_stundensatz = $3,
		     farbe = $4, aktiv = $5, updated_at = now()
		 WHERE id = $6 AND mitarbeiter_id = $7`,
		c.Bezeichnung, c.Beschreibung, c.StandardStundensatz, c.Farbe, c.Aktiv,
		c.ID, c.MitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a category. Referencing time entries keep running
// with kategorie_id set to NULL by the schema's ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, mitarbeiterID, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM dienstleistungskategorien WHERE id = $1 AND mitarbeiter_id = $2`,
		id, mitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
