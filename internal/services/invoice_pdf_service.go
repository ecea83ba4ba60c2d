package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/rs/zerolog/log"

	"timebook-backend/internal/models"
	"timebook-backend/internal/storage"
	"timebook-backend/internal/timeutil"
)

// InvoicePDFService renders Honorarnoten as A4 PDFs and optionally
// archives them to the configured object storage.
type InvoicePDFService struct {
	clients  ClientStore
	archiver *storage.Archiver
}

func NewInvoicePDFService(clients ClientStore, archiver *storage.Archiver) *InvoicePDFService {
	return &InvoicePDFService{clients: clients, archiver: archiver}
}

// Generate renders the invoice PDF and, when an archive bucket is
// configured, uploads a copy best-effort in the background.
func (s *InvoicePDFService) Generate(ctx context.Context, principal *models.Principal, inv *models.InvoiceWithDetails) ([]byte, error) {
	client, err := s.clients.Get(ctx, principal.ID, inv.KundeID)
	if err != nil {
		return nil, err
	}

	data, err := renderInvoicePDF(inv, client)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		key := fmt.Sprintf("honorarnoten/%d/%s.pdf", principal.ID, inv.Nummer)
		go func() {
			if err := s.archiver.Upload(context.Background(), key, data); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("invoice pdf archive failed")
			}
		}()
	}

	return data, nil
}

func renderInvoicePDF(inv *models.InvoiceWithDetails, client *models.Client) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(170, 10, tr("Honorarnote "+inv.Nummer), "", 1, "L", false, 0, "")
	if inv.Storniert {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(170, 8, "STORNIERT", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	// Address block
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(170, 6, tr(client.DisplayName()), "", 1, "L", false, 0, "")
	if client.Adresse != nil {
		pdf.CellFormat(170, 6, tr(*client.Adresse), "", 1, "L", false, 0, "")
	}
	if client.PLZ != nil && client.Ort != nil {
		pdf.CellFormat(170, 6, tr(*client.PLZ+" "+*client.Ort), "", 1, "L", false, 0, "")
	}
	if client.UIDNummer != nil {
		pdf.CellFormat(170, 6, tr("UID: "+*client.UIDNummer), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Dates
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(85, 6, tr("Rechnungsdatum: "+timeutil.FormatDate(inv.Rechnungsdatum)), "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, tr("Fällig am: "+timeutil.FormatDate(inv.Faelligkeitsdatum)), "", 1, "L", false, 0, "")
	if inv.LeistungsdatumVon != nil && inv.LeistungsdatumBis != nil {
		pdf.CellFormat(170, 6, tr(fmt.Sprintf("Leistungszeitraum: %s bis %s",
			timeutil.FormatDate(*inv.LeistungsdatumVon), timeutil.FormatDate(*inv.LeistungsdatumBis))), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Positions table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(12, 7, "Pos", "1", 0, "C", true, 0, "")
	pdf.CellFormat(88, 7, "Beschreibung", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Menge", "1", 0, "R", true, 0, "")
	pdf.CellFormat(22, 7, "Einheit", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 7, "Einzelpreis", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, pos := range inv.Positionen {
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", pos.PositionNr), "1", 0, "C", false, 0, "")
		pdf.CellFormat(88, 6, tr(truncate(pos.Beschreibung, 50)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", pos.Menge), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 6, tr(pos.Einheit), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%.2f EUR", pos.Einzelpreis), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(142, 7, "Nettobetrag", "", 0, "R", false, 0, "")
	pdf.CellFormat(28, 7, fmt.Sprintf("%.2f EUR", inv.Nettobetrag), "", 1, "R", false, 0, "")
	pdf.CellFormat(142, 7, tr(fmt.Sprintf("USt. %.0f%%", inv.Steuersatz)), "", 0, "R", false, 0, "")
	pdf.CellFormat(28, 7, fmt.Sprintf("%.2f EUR", inv.Bruttobetrag-inv.Nettobetrag), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(142, 8, "Gesamtbetrag", "T", 0, "R", false, 0, "")
	pdf.CellFormat(28, 8, fmt.Sprintf("%.2f EUR", inv.Bruttobetrag), "T", 1, "R", false, 0, "")

	if inv.Notizen != nil && *inv.Notizen != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(170, 5, tr(*inv.Notizen), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate shortens s to max runes, not bytes, so umlauts near the cut
// are never split mid-sequence.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
