package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/timeutil"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, mitarbeiter_id, kunde_id, nummer, rechnungsdatum,
	leistungsdatum_von, leistungsdatum_bis, faelligkeitsdatum, nettobetrag,
	steuersatz, bruttobetrag, bezahlt, bezahlt_am, zahlungsmethode, storniert,
	storniert_am, storno_grund, notizen, created_at, updated_at`

// NextNummer derives an invoice number from a database sequence,
// formatted HN-<year>-<seq>.
func (r *InvoiceRepository) NextNummer(ctx context.Context) (string, error) {
	var next int
	if err := r.DB.QueryRow(ctx, `SELECT nextval('honorarnote_nummer_seq')`).Scan(&next); err != nil {
		return "", fmt.Errorf("next honorarnote number: %w", err)
	}
	return fmt.Sprintf("HN-%d-%04d", timeutil.Now().Year(), next), nil
}

// Create inserts the invoice header, its lines with 1-based position
// numbers, and flips abgerechnet on every referenced time entry, all
// inside one transaction. Any failure rolls back the whole invoice so a
// partial one is never observable.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice, lines []*models.InvoiceLine) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO honorarnoten(mitarbeiter_id, kunde_id, nummer, rechnungsdatum,
		                          leistungsdatum_von, leistungsdatum_bis, faelligkeitsdatum,
		                          nettobetrag, steuersatz, bruttobetrag, notizen)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		inv.MitarbeiterID, inv.KundeID, inv.Nummer, inv.Rechnungsdatum,
		inv.LeistungsdatumVon, inv.LeistungsdatumBis, inv.Faelligkeitsdatum,
		inv.Nettobetrag, inv.Steuersatz, inv.Bruttobetrag, inv.Notizen,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return err
	}

	for i, line := range lines {
		line.HonorarnoteID = inv.ID
		line.PositionNr = i + 1
		err = tx.QueryRow(ctx,
			`INSERT INTO honorarnoten_positionen(honorarnote_id, position_nr, beschreibung,
			                                     menge, einheit, einzelpreis, dienstleistung_id)
			 VALUES($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			line.HonorarnoteID, line.PositionNr, line.Beschreibung,
			line.Menge, line.Einheit, line.Einzelpreis, line.DienstleistungID,
		).Scan(&line.ID, &line.CreatedAt)
		if err != nil {
			return err
		}

		if line.DienstleistungID != nil {
			tag, err := tx.Exec(ctx,
				`UPDATE dienstleistungen SET abgerechnet = TRUE, abgerechnet_am = now(), updated_at = now()
				 WHERE id = $1 AND mitarbeiter_id = $2`,
				*line.DienstleistungID, inv.MitarbeiterID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("position %d: dienstleistung %d: %w",
					line.PositionNr, *line.DienstleistungID, domain.ErrNotFound)
			}
		}
	}

	return tx.Commit(ctx)
}

func scanInvoice(row pgx.Row, inv *models.Invoice) error {
	err := row.Scan(&inv.ID, &inv.MitarbeiterID, &inv.KundeID, &inv.Nummer,
		&inv.Rechnungsdatum, &inv.LeistungsdatumVon, &inv.LeistungsdatumBis,
		&inv.Faelligkeitsdatum, &inv.Nettobetrag, &inv.Steuersatz, &inv.Bruttobetrag,
		&inv.Bezahlt, &inv.BezahltAm, &inv.Zahlungsmethode, &inv.Storniert,
		&inv.StorniertAm, &inv.StornoGrund, &inv.Notizen, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *InvoiceRepository) Get(ctx context.Context, mitarbeiterID, id int) (*models.Invoice, error) {
	var inv models.Invoice
	err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM honorarnoten
		 WHERE id = $1 AND mitarbeiter_id = $2`, id, mitarbeiterID), &inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetWithDetails loads the invoice with client name, derived status and
// all line items.
func (r *InvoiceRepository) GetWithDetails(ctx context.Context, mitarbeiterID, id int) (*models.InvoiceWithDetails, error) {
	var inv models.InvoiceWithDetails
	err := r.DB.QueryRow(ctx,
		`SELECT h.id, h.mitarbeiter_id, h.kunde_id, h.nummer, h.rechnungsdatum,
		        h.leistungsdatum_von, h.leistungsdatum_bis, h.faelligkeitsdatum,
		        h.nettobetrag, h.steuersatz, h.bruttobetrag, h.bezahlt, h.bezahlt_am,
		        h.zahlungsmethode, h.storniert, h.storniert_am, h.storno_grund,
		        h.notizen, h.created_at, h.updated_at,
		        COALESCE(k.firmenname, k.ansprechpartner, k.kundennummer) AS kunde_name
		 FROM honorarnoten h
		 JOIN kunden k ON h.kunde_id = k.id
		 WHERE h.id = $1 AND h.mitarbeiter_id = $2`, id, mitarbeiterID,
	).Scan(&inv.ID, &inv.MitarbeiterID, &inv.KundeID, &inv.Nummer,
		&inv.Rechnungsdatum, &inv.LeistungsdatumVon, &inv.LeistungsdatumBis,
		&inv.Faelligkeitsdatum, &inv.Nettobetrag, &inv.Steuersatz, &inv.Bruttobetrag,
		&inv.Bezahlt, &inv.BezahltAm, &inv.Zahlungsmethode, &inv.Storniert,
		&inv.StorniertAm, &inv.StornoGrund, &inv.Notizen, &inv.CreatedAt, &inv.UpdatedAt,
		&inv.KundeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	inv.Status = inv.Invoice.Status(timeutil.Today())

	lines, err := r.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Positionen = lines
	return &inv, nil
}

func (r *InvoiceRepository) GetLines(ctx context.Context, invoiceID int) ([]*models.InvoiceLine, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, honorarnote_id, position_nr, beschreibung, menge, einheit,
		        einzelpreis, dienstleistung_id, created_at
		 FROM honorarnoten_positionen
		 WHERE honorarnote_id = $1
		 ORDER BY position_nr`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.InvoiceLine
	for rows.Next() {
		var line models.InvoiceLine
		err := rows.Scan(&line.ID, &line.HonorarnoteID, &line.PositionNr,
			&line.Beschreibung, &line.Menge, &line.Einheit, &line.Einzelpreis,
			&line.DienstleistungID, &line.CreatedAt)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}

// List returns a filtered page of invoices with derived status. Line
// items are not loaded on the list path.
func (r *InvoiceRepository) List(ctx context.Context, mitarbeiterID int, filter *models.InvoiceFilter) ([]*models.InvoiceWithDetails, int, error) {
	conds := sq.And{sq.Eq{"h.mitarbeiter_id": mitarbeiterID}}
	if filter.KundeID != nil {
		conds = append(conds, sq.Eq{"h.kunde_id": *filter.KundeID})
	}
	if filter.Bezahlt != nil {
		conds = append(conds, sq.Eq{"h.bezahlt": *filter.Bezahlt})
	}
	if filter.Jahr != nil {
		conds = append(conds, sq.Expr("EXTRACT(YEAR FROM h.rechnungsdatum) = ?", *filter.Jahr))
	}

	query, args, err := psql.
		Select(`h.id, h.mitarbeiter_id, h.kunde_id, h.nummer, h.rechnungsdatum,
			h.leistungsdatum_von, h.leistungsdatum_bis, h.faelligkeitsdatum,
			h.nettobetrag, h.steuersatz, h.bruttobetrag, h.bezahlt, h.bezahlt_am,
			h.zahlungsmethode, h.storniert, h.storniert_am, h.storno_grund,
			h.notizen, h.created_at, h.updated_at,
			COALESCE(k.firmenname, k.ansprechpartner, k.kundennummer) AS kunde_name`).
		From("honorarnoten h").
		Join("kunden k ON h.kunde_id = k.id").
		Where(conds).
		OrderBy("h.rechnungsdatum DESC", "h.id DESC").
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

	today := timeutil.Today()
	var invoices []*models.InvoiceWithDetails
	for rows.Next() {
		var inv models.InvoiceWithDetails
		err := rows.Scan(&inv.ID, &inv.MitarbeiterID, &inv.KundeID, &inv.Nummer,
			&inv.Rechnungsdatum, &inv.LeistungsdatumVon, &inv.LeistungsdatumBis,
			&inv.Faelligkeitsdatum, &inv.Nettobetrag, &inv.Steuersatz, &inv.Bruttobetrag,
			&inv.Bezahlt, &inv.BezahltAm, &inv.Zahlungsmethode, &inv.Storniert,
			&inv.StorniertAm, &inv.StornoGrund, &inv.Notizen, &inv.CreatedAt, &inv.UpdatedAt,
			&inv.KundeName)
		if err != nil {
			return nil, 0, err
		}
		inv.Status = inv.Invoice.Status(today)
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("honorarnoten h").
		Where(conds).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// Summary aggregates over the principal's full invoice ledger,
// independent of list filters. Cancelled invoices count towards the
// total but not towards paid or open amounts.
func (r *InvoiceRepository) Summary(ctx context.Context, mitarbeiterID int) (*models.InvoiceSummary, error) {
	var s models.InvoiceSummary
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE bezahlt),
		        COUNT(*) FILTER (WHERE NOT bezahlt AND NOT storniert),
		        COALESCE(SUM(bruttobetrag) FILTER (WHERE NOT storniert), 0),
		        COALESCE(SUM(bruttobetrag) FILTER (WHERE bezahlt), 0),
		        COALESCE(SUM(bruttobetrag) FILTER (WHERE NOT bezahlt AND NOT storniert), 0)
		 FROM honorarnoten
		 WHERE mitarbeiter_id = $1`, mitarbeiterID,
	).Scan(&s.AnzahlGesamt, &s.AnzahlBezahlt, &s.AnzahlOffen,
		&s.SummeBrutto, &s.SummeBezahlt, &s.SummeOffen)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE honorarnoten
		 SET rechnungsdatum = $1, leistungsdatum_von = $2, leistungsdatum_bis = $3,
		     faelligkeitsdatum = $4, nettobetrag = $5, steuersatz = $6,
		     bruttobetrag = $7, bezahlt = $8, bezahlt_am = $9, zahlungsmethode = $10,
		     notizen = $11, updated_at = now()
		 WHERE id = $12 AND mitarbeiter_id = $13`,
		inv.Rechnungsdatum, inv.LeistungsdatumVon, inv.LeistungsdatumBis,
		inv.Faelligkeitsdatum, inv.Nettobetrag, inv.Steuersatz, inv.Bruttobetrag,
		inv.Bezahlt, inv.BezahltAm, inv.Zahlungsmethode, inv.Notizen,
		inv.ID, inv.MitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Cancel marks the invoice storniert and resets abgerechnet on every
// time entry its lines reference, in one transaction. The invoice row
// itself stays in the ledger.
func (r *InvoiceRepository) Cancel(ctx context.Context, mitarbeiterID, id int, stornoGrund *string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE honorarnoten
		 SET storniert = TRUE, storniert_am = now(), storno_grund = $1, updated_at = now()
		 WHERE id = $2 AND mitarbeiter_id = $3`,
		stornoGrund, id, mitarbeiterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE dienstleistungen
		 SET abgerechnet = FALSE, abgerechnet_am = NULL, updated_at = now()
		 WHERE mitarbeiter_id = $1
		   AND id IN (SELECT dienstleistung_id FROM honorarnoten_positionen
		              WHERE honorarnote_id = $2 AND dienstleistung_id IS NOT NULL)`,
		mitarbeiterID, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
