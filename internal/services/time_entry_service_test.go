package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
	"timebook-backend/internal/timeutil"
)

func newEntryFixture(t *testing.T, cfg *config.Config) (*TimeEntryService, *fakeTimeEntryStore, *models.Client) {
	t.Helper()
	clients := newFakeClientStore()
	client := clients.add(&models.Client{
		MitarbeiterID: 1,
		Firmenname:    strPtr("ACME GmbH"),
		Aktiv:         true,
	})
	entries := newFakeTimeEntryStore()
	return NewTimeEntryService(entries, clients, cfg), entries, client
}

func TestTimeEntryCreate(t *testing.T) {
	ctx := context.Background()
	today := timeutil.FormatDate(timeutil.Today())

	t.Run("running entry without end time", func(t *testing.T) {
		svc, _, client := newEntryFixture(t, testConfig())
		entry, err := svc.Create(ctx, testPrincipal(), &models.CreateTimeEntryRequest{
			KundeID:      client.ID,
			Beschreibung: "Code-Review",
			StartDatum:   today,
			StartZeit:    "09:00",
		})
		require.NoError(t, err)
		assert.True(t, entry.Running())
		assert.False(t, entry.Abgeschlossen)
	})

	t.Run("completed entry with end time", func(t *testing.T) {
		svc, _, client := newEntryFixture(t, testConfig())
		entry, err := svc.Create(ctx, testPrincipal(), &models.CreateTimeEntryRequest{
			KundeID:      client.ID,
			Beschreibung: "Beratung",
			StartDatum:   today,
			StartZeit:    "09:00",
			EndeDatum:    &today,
			EndeZeit:     strPtr("17:00"),
		})
		require.NoError(t, err)
		assert.False(t, entry.Running())
		assert.True(t, entry.Abgeschlossen)
	})

	t.Run("end fields must come together", func(t *testing.T) {
		svc, _, client := newEntryFixture(t, testConfig())
		_, err := svc.Create(ctx, testPrincipal(), &models.CreateTimeEntryRequest{
			KundeID:      client.ID,
			Beschreibung: "Beratung",
			StartDatum:   today,
			StartZeit:    "09:00",
			EndeZeit:     strPtr("17:00"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("unknown kunde is a validation failure", func(t *testing.T) {
		svc, _, _ := newEntryFixture(t, testConfig())
		_, err := svc.Create(ctx, testPrincipal(), &models.CreateTimeEntryRequest{
			KundeID:      999,
			Beschreibung: "Beratung",
			StartDatum:   today,
			StartZeit:    "09:00",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("end before start", func(t *testing.T) {
		svc, _, client := newEntryFixture(t, testConfig())
		_, err := svc.Create(ctx, testPrincipal(), &models.CreateTimeEntryRequest{
			KundeID:      client.ID,
			Beschreibung: "Beratung",
			StartDatum:   today,
			StartZeit:    "09:00",
			EndeDatum:    &today,
			EndeZeit:     strPtr("08:00"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("missing beschreibung", func(t *testing.T) {
		svc, _, client := newEntryFixture(t, testConfig())
		_, err := svc.Create(ctx, testPrincipal(), &models.CreateTimeEntryRequest{
			KundeID:    client.ID,
			StartDatum: today,
			StartZeit:  "09:00",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestTimeEntryUpdateAbgeschlossen(t *testing.T) {
	ctx := context.Background()
	today := timeutil.Today()

	seed := func(entries *fakeTimeEntryStore, client *models.Client) {
		entries.add(&models.TimeEntry{
			MitarbeiterID: 1,
			KundeID:       client.ID,
			Beschreibung:  "Beratung",
			StartDatum:    today,
			StartZeit:     "09:00",
		})
	}

	t.Run("setting an end time completes the entry", func(t *testing.T) {
		svc, entries, client := newEntryFixture(t, testConfig())
		seed(entries, client)

		updated, err := svc.Update(ctx, testPrincipal(), 1, &models.UpdateTimeEntryRequest{
			EndeZeit: strPtr("17:30"),
		})
		require.NoError(t, err)
		assert.True(t, updated.Abgeschlossen)
		// the end date defaults to the start date
		require.NotNil(t, updated.EndeDatum)
		assert.Equal(t, today, *updated.EndeDatum)
	})

	t.Run("explicit flag wins over end time", func(t *testing.T) {
		svc, entries, client := newEntryFixture(t, testConfig())
		seed(entries, client)

		updated, err := svc.Update(ctx, testPrincipal(), 1, &models.UpdateTimeEntryRequest{
			EndeZeit:      strPtr("17:30"),
			Abgeschlossen: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, updated.Abgeschlossen)
	})

	t.Run("untouched end leaves the flag alone", func(t *testing.T) {
		svc, entries, client := newEntryFixture(t, testConfig())
		seed(entries, client)

		updated, err := svc.Update(ctx, testPrincipal(), 1, &models.UpdateTimeEntryRequest{
			Notizen: strPtr("Nachtrag"),
		})
		require.NoError(t, err)
		assert.False(t, updated.Abgeschlossen)
	})
}

func TestTimeEntryUpdateLockedWhenInvoiced(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.TimeBook.LockInvoicedEntries = true

	svc, entries, client := newEntryFixture(t, cfg)
	entries.add(&models.TimeEntry{
		MitarbeiterID: 1,
		KundeID:       client.ID,
		Beschreibung:  "Beratung",
		StartDatum:    timeutil.Today(),
		StartZeit:     "09:00",
		Abgerechnet:   true,
	})

	_, err := svc.Update(ctx, testPrincipal(), 1, &models.UpdateTimeEntryRequest{Notizen: strPtr("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestTimeEntryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unbilled entry", func(t *testing.T) {
		svc, entries, client := newEntryFixture(t, testConfig())
		entries.add(&models.TimeEntry{
			MitarbeiterID: 1,
			KundeID:       client.ID,
			Beschreibung:  "Beratung",
			StartDatum:    timeutil.Today(),
			StartZeit:     "09:00",
		})

		require.NoError(t, svc.Delete(ctx, testPrincipal(), 1))
		assert.Empty(t, entries.entries)
	})

	t.Run("refuses an invoiced entry", func(t *testing.T) {
		svc, entries, client := newEntryFixture(t, testConfig())
		entries.add(&models.TimeEntry{
			MitarbeiterID: 1,
			KundeID:       client.ID,
			Beschreibung:  "Beratung",
			StartDatum:    timeutil.Today(),
			StartZeit:     "09:00",
			Abgerechnet:   true,
		})

		err := svc.Delete(ctx, testPrincipal(), 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
		assert.Len(t, entries.entries, 1)
	})

	t.Run("foreign entry is not found", func(t *testing.T) {
		svc, entries, client := newEntryFixture(t, testConfig())
		entries.add(&models.TimeEntry{
			MitarbeiterID: 2,
			KundeID:       client.ID,
			Beschreibung:  "Beratung",
			StartDatum:    timeutil.Today(),
			StartZeit:     "09:00",
		})

		err := svc.Delete(ctx, testPrincipal(), 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestTimeEntryListClampsPagination(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newEntryFixture(t, testConfig())

	list, err := svc.List(ctx, testPrincipal(), &models.TimeEntryFilter{Limit: 0, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 50, list.Limit)
	assert.Equal(t, 0, list.Offset)

	list, err = svc.List(ctx, testPrincipal(), &models.TimeEntryFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 50, list.Limit)
}
