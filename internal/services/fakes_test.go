package services

import (
	"context"
	"fmt"
	"time"

	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

// In-memory store fakes so service rules are tested without a database.

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.TimeBook.MaxDurationHours = 16
	cfg.TimeBook.DefaultTaxRate = 20.0
	cfg.TimeBook.DefaultPaymentTermDays = 30
	return cfg
}

func testPrincipal() *models.Principal {
	return &models.Principal{ID: 1, Username: "tester"}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

type fakeClientStore struct {
	clients map[int]*models.Client
	nextID  int
	nummer  int
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[int]*models.Client)}
}

func (f *fakeClientStore) add(c *models.Client) *models.Client {
	f.nextID++
	c.ID = f.nextID
	f.clients[c.ID] = c
	return c
}

func (f *fakeClientStore) NextKundennummer(_ context.Context) (string, error) {
	f.nummer++
	return "K-2026-0001", nil
}

func (f *fakeClientStore) Create(_ context.Context, c *models.Client) error {
	f.add(c)
	return nil
}

func (f *fakeClientStore) Get(_ context.Context, mitarbeiterID, id int) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.MitarbeiterID != mitarbeiterID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeClientStore) List(_ context.Context, mitarbeiterID int, aktiv *bool) ([]*models.Client, error) {
	var out []*models.Client
	for _, c := range f.clients {
		if c.MitarbeiterID != mitarbeiterID {
			continue
		}
		if aktiv != nil && c.Aktiv != *aktiv {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClientStore) Update(_ context.Context, c *models.Client) error {
	stored, ok := f.clients[c.ID]
	if !ok || stored.MitarbeiterID != c.MitarbeiterID {
		return domain.ErrNotFound
	}
	f.clients[c.ID] = c
	return nil
}

type fakeTimeEntryStore struct {
	entries map[int]*models.TimeEntry
	nextID  int
}

func newFakeTimeEntryStore() *fakeTimeEntryStore {
	return &fakeTimeEntryStore{entries: make(map[int]*models.TimeEntry)}
}

func (f *fakeTimeEntryStore) add(e *models.TimeEntry) *models.TimeEntry {
	f.nextID++
	e.ID = f.nextID
	f.entries[e.ID] = e
	return e
}

func (f *fakeTimeEntryStore) Create(_ context.Context, e *models.TimeEntry) error {
	f.add(e)
	return nil
}

func (f *fakeTimeEntryStore) Get(_ context.Context, mitarbeiterID, id int) (*models.TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.MitarbeiterID != mitarbeiterID {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeTimeEntryStore) GetWithDetails(ctx context.Context, mitarbeiterID, id int) (*models.TimeEntryWithDetails, error) {
	e, err := f.Get(ctx, mitarbeiterID, id)
	if err != nil {
		return nil, err
	}
	return &models.TimeEntryWithDetails{TimeEntry: *e}, nil
}

func (f *fakeTimeEntryStore) List(_ context.Context, mitarbeiterID int, _ *models.TimeEntryFilter) ([]*models.TimeEntryWithDetails, int, error) {
	var out []*models.TimeEntryWithDetails
	for _, e := range f.entries {
		if e.MitarbeiterID == mitarbeiterID {
			out = append(out, &models.TimeEntryWithDetails{TimeEntry: *e})
		}
	}
	return out, len(out), nil
}

func (f *fakeTimeEntryStore) Update(_ context.Context, e *models.TimeEntry) error {
	stored, ok := f.entries[e.ID]
	if !ok || stored.MitarbeiterID != e.MitarbeiterID {
		return domain.ErrNotFound
	}
	copied := *e
	f.entries[e.ID] = &copied
	return nil
}

func (f *fakeTimeEntryStore) Delete(_ context.Context, mitarbeiterID, id int) error {
	e, ok := f.entries[id]
	if !ok || e.MitarbeiterID != mitarbeiterID {
		return domain.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

type fakeInvoiceStore struct {
	invoices map[int]*models.Invoice
	lines    map[int][]*models.InvoiceLine
	nextID   int
	nummer   int

	// entries, when set, mirrors the transactional coupling between
	// honorarnoten_positionen and dienstleistungen: Create flips
	// abgerechnet on referenced entries, Cancel flips it back, and a
	// failed Create leaves every entry untouched.
	entries *fakeTimeEntryStore

	cancelled  []int
	lastStorno *string
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{
		invoices: make(map[int]*models.Invoice),
		lines:    make(map[int][]*models.InvoiceLine),
	}
}

func (f *fakeInvoiceStore) add(inv *models.Invoice) *models.Invoice {
	f.nextID++
	inv.ID = f.nextID
	f.invoices[inv.ID] = inv
	return inv
}

func (f *fakeInvoiceStore) NextNummer(_ context.Context) (string, error) {
	f.nummer++
	return "HN-2026-0001", nil
}

func (f *fakeInvoiceStore) Create(_ context.Context, inv *models.Invoice, lines []*models.InvoiceLine) error {
	var flipped []*models.TimeEntry
	rollback := func() {
		for _, e := range flipped {
			e.Abgerechnet = false
			e.AbgerechnetAm = nil
		}
	}

	for i, line := range lines {
		line.PositionNr = i + 1
		if line.DienstleistungID == nil || f.entries == nil {
			continue
		}
		e, ok := f.entries.entries[*line.DienstleistungID]
		if !ok || e.MitarbeiterID != inv.MitarbeiterID {
			rollback()
			return fmt.Errorf("position %d: dienstleistung %d: %w",
				line.PositionNr, *line.DienstleistungID, domain.ErrNotFound)
		}
		now := time.Now()
		e.Abgerechnet = true
		e.AbgerechnetAm = &now
		flipped = append(flipped, e)
	}

	f.add(inv)
	f.lines[inv.ID] = lines
	return nil
}

func (f *fakeInvoiceStore) Get(_ context.Context, mitarbeiterID, id int) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.MitarbeiterID != mitarbeiterID {
		return nil, domain.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvoiceStore) GetWithDetails(ctx context.Context, mitarbeiterID, id int) (*models.InvoiceWithDetails, error) {
	inv, err := f.Get(ctx, mitarbeiterID, id)
	if err != nil {
		return nil, err
	}
	return &models.InvoiceWithDetails{Invoice: *inv, Positionen: f.lines[id]}, nil
}

func (f *fakeInvoiceStore) List(_ context.Context, mitarbeiterID int, _ *models.InvoiceFilter) ([]*models.InvoiceWithDetails, int, error) {
	var out []*models.InvoiceWithDetails
	for id, inv := range f.invoices {
		if inv.MitarbeiterID == mitarbeiterID {
			out = append(out, &models.InvoiceWithDetails{Invoice: *inv, Positionen: f.lines[id]})
		}
	}
	return out, len(out), nil
}

func (f *fakeInvoiceStore) Summary(_ context.Context, mitarbeiterID int) (*models.InvoiceSummary, error) {
	summary := &models.InvoiceSummary{}
	for _, inv := range f.invoices {
		if inv.MitarbeiterID != mitarbeiterID {
			continue
		}
		summary.AnzahlGesamt++
		summary.SummeBrutto += inv.Bruttobetrag
		if inv.Bezahlt {
			summary.AnzahlBezahlt++
			summary.SummeBezahlt += inv.Bruttobetrag
		} else if !inv.Storniert {
			summary.AnzahlOffen++
			summary.SummeOffen += inv.Bruttobetrag
		}
	}
	return summary, nil
}

func (f *fakeInvoiceStore) Update(_ context.Context, inv *models.Invoice) error {
	stored, ok := f.invoices[inv.ID]
	if !ok || stored.MitarbeiterID != inv.MitarbeiterID {
		return domain.ErrNotFound
	}
	copied := *inv
	f.invoices[inv.ID] = &copied
	return nil
}

func (f *fakeInvoiceStore) Cancel(_ context.Context, mitarbeiterID, id int, stornoGrund *string) error {
	inv, ok := f.invoices[id]
	if !ok || inv.MitarbeiterID != mitarbeiterID {
		return domain.ErrNotFound
	}
	inv.Storniert = true
	inv.StornoGrund = stornoGrund
	f.cancelled = append(f.cancelled, id)
	f.lastStorno = stornoGrund

	if f.entries != nil {
		for _, line := range f.lines[id] {
			if line.DienstleistungID == nil {
				continue
			}
			if e, ok := f.entries.entries[*line.DienstleistungID]; ok && e.MitarbeiterID == mitarbeiterID {
				e.Abgerechnet = false
				e.AbgerechnetAm = nil
			}
		}
	}
	return nil
}

type fakeCategoryStore struct {
	categories map[int]*models.Category
	nextID     int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[int]*models.Category)}
}

func (f *fakeCategoryStore) add(c *models.Category) *models.Category {
	f.nextID++
	c.ID = f.nextID
	f.categories[c.ID] = c
	return c
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) error {
	f.add(c)
	return nil
}

func (f *fakeCategoryStore) Get(_ context.Context, mitarbeiterID, id int) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.MitarbeiterID != mitarbeiterID {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCategoryStore) List(_ context.Context, mitarbeiterID int) ([]*models.CategoryWithUsage, error) {
	var out []*models.CategoryWithUsage
	for _, c := range f.categories {
		if c.MitarbeiterID == mitarbeiterID {
			out = append(out, &models.CategoryWithUsage{Category: *c})
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, c *models.Category) error {
	stored, ok := f.categories[c.ID]
	if !ok || stored.MitarbeiterID != c.MitarbeiterID {
		return domain.ErrNotFound
	}
	copied := *c
	f.categories[c.ID] = &copied
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, mitarbeiterID, id int) error {
	c, ok := f.categories[id]
	if !ok || c.MitarbeiterID != mitarbeiterID {
		return domain.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeUserStore struct {
	users map[int]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) SetTOTPSecret(_ context.Context, userID int, secret string) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.TOTPSecret = &secret
	u.TOTPEnabled = false
	return nil
}

func (f *fakeUserStore) EnableTOTP(_ context.Context, userID int) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.TOTPEnabled = true
	return nil
}
