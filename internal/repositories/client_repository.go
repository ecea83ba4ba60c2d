package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/timeutil"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, mitarbeiter_id, kundennummer, firmenname, ansprechpartner,
	email, telefon, adresse, plz, ort, land, uid_nummer, zahlungsziel_tage,
	notizen, aktiv, created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.MitarbeiterID, &c.Kundennummer, &c.Firmenname,
		&c.Ansprechpartner, &c.Email, &c.Telefon, &c.Adresse, &c.PLZ, &c.Ort,
		&c.Land, &c.UIDNummer, &c.ZahlungszielTage, &c.Notizen, &c.Aktiv,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// NextKundennummer derives a customer number from a database sequence,
// formatted K-<year>-<seq>.
func (r *ClientRepository) NextKundennummer(ctx context.Context) (string, error) {
	var next int
	if err := r.DB.QueryRow(ctx, `SELECT nextval('kundennummer_seq')`).Scan(&next); err != nil {
		return "", fmt.Errorf("next kundennummer: %w", err)
	}
	return fmt.Sprintf("K-%d-%04d", timeutil.Now().Year(), next), nil
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO kunden(mitarbeiter_id, kundennummer, firmenname, ansprechpartner,
		                    email, telefon, adresse, plz, ort, land, uid_nummer,
		                    zahlungsziel_tage, notizen)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, aktiv, created_at, updated_at`,
		c.MitarbeiterID, c.Kundennummer, c.Firmenname, c.Ansprechpartner,
		c.Email, c.Telefon, c.Adresse, c.PLZ, c.Ort, c.Land, c.UIDNummer,
		c.ZahlungszielTage, c.Notizen,
	).Scan(&c.ID, &c.Aktiv, &c.CreatedAt, &c.UpdatedAt)
}

// Get returns the client only if it belongs to the principal; a foreign
// id answers ErrNotFound, never a forbidden error.
func (r *ClientRepository) Get(ctx context.Context, mitarbeiterID, id int) (*models.Client, error) {
	return scanClient(r.DB.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM kunden WHERE id = $1 AND mitarbeiter_id = $2`,
		id, mitarbeiterID))
}

func (r *ClientRepository) List(ctx context.Context, mitarbeiterID int, aktiv *bool) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM kunden WHERE mitarbeiter_id = $1`
	args := []interface{}{mitarbeiterID}
	if aktiv != nil {
		query += ` AND aktiv = $2`
		args = append(args, *aktiv)
	}
	query += ` ORDER BY COALESCE(firmenname, ansprechpartner, kundennummer)`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE kunden
		 SET firmenname = $1, ansprechpartner = $2, email = $3, telefon = $4,
		     adresse = $5, plz = $6, ort = $7, land = $8, uid_nummer = $9,
		     zahlungsziel_tage = $10, notizen = $11, aktiv = $12, updated_at = now()
		 WHERE id = $13 AND mitarbeiter_id = $14`,
		c.Firmenname, c.Ansprechpartner, c.Email, c.Telefon, c.Adresse, c.PLZ,
		c.Ort, c.Land, c.UIDNummer, c.ZahlungszielTage, c.Notizen, c.Aktiv,
		c.ID, c.MitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
