package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

func TestClientCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults land and zahlungsziel", func(t *testing.T) {
		svc := NewClientService(newFakeClientStore(), testConfig())
		client, err := svc.Create(ctx, testPrincipal(), &models.CreateClientRequest{
			Firmenname: strPtr("ACME GmbH"),
		})
		require.NoError(t, err)
		assert.Equal(t, "K-2026-0001", client.Kundennummer)
		assert.Equal(t, "Österreich", client.Land)
		assert.Equal(t, 30, client.ZahlungszielTage)
		assert.Equal(t, 1, client.MitarbeiterID)
	})

	t.Run("ansprechpartner alone suffices", func(t *testing.T) {
		svc := NewClientService(newFakeClientStore(), testConfig())
		client, err := svc.Create(ctx, testPrincipal(), &models.CreateClientRequest{
			Ansprechpartner: strPtr("Max Mustermann"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Max Mustermann", client.DisplayName())
	})

	t.Run("needs firmenname or ansprechpartner", func(t *testing.T) {
		svc := NewClientService(newFakeClientStore(), testConfig())
		_, err := svc.Create(ctx, testPrincipal(), &models.CreateClientRequest{
			Email: strPtr("office@acme.at"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("rejects non-positive zahlungsziel", func(t *testing.T) {
		svc := NewClientService(newFakeClientStore(), testConfig())
		_, err := svc.Create(ctx, testPrincipal(), &models.CreateClientRequest{
			Firmenname:       strPtr("ACME GmbH"),
			ZahlungszielTage: intPtr(0),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestClientUpdateCoalesces(t *testing.T) {
	ctx := context.Background()
	store := newFakeClientStore()
	store.add(&models.Client{
		MitarbeiterID:    1,
		Firmenname:       strPtr("ACME GmbH"),
		Email:            strPtr("office@acme.at"),
		Land:             "Österreich",
		ZahlungszielTage: 30,
		Aktiv:            true,
	})
	svc := NewClientService(store, testConfig())

	updated, err := svc.Update(ctx, testPrincipal(), 1, &models.UpdateClientRequest{
		Telefon: strPtr("+43 1 2345678"),
		Aktiv:   boolPtr(false),
	})
	require.NoError(t, err)

	// untouched fields keep their stored values
	require.NotNil(t, updated.Firmenname)
	assert.Equal(t, "ACME GmbH", *updated.Firmenname)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "office@acme.at", *updated.Email)
	require.NotNil(t, updated.Telefon)
	assert.Equal(t, "+43 1 2345678", *updated.Telefon)
	assert.False(t, updated.Aktiv)
}

func TestClientOwnershipHidesForeignRows(t *testing.T) {
	ctx := context.Background()
	store := newFakeClientStore()
	store.add(&models.Client{MitarbeiterID: 2, Firmenname: strPtr("Fremde GmbH")})
	svc := NewClientService(store, testConfig())

	_, err := svc.Get(ctx, testPrincipal(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Update(ctx, testPrincipal(), 1, &models.UpdateClientRequest{Aktiv: boolPtr(false)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
