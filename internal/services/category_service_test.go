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

func TestCategoryCreateFarbe(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		farbe   *string
		wantErr bool
	}{
		{"no color", nil, false},
		{"valid hex", strPtr("#AABBCC"), false},
		{"lowercase hex", strPtr("#aabbcc"), false},
		{"named color", strPtr("red"), true},
		{"short hex", strPtr("#ABC"), true},
		{"missing hash", strPtr("AABBCC"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCategoryService(newFakeCategoryStore())
			_, err := svc.Create(ctx, testPrincipal(), &models.CreateCategoryRequest{
				Bezeichnung: "Beratung",
				Farbe:       tt.farbe,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCategoryCreateRequiresBezeichnung(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newFakeCategoryStore())

	_, err := svc.Create(ctx, testPrincipal(), &models.CreateCategoryRequest{Bezeichnung: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCategoryUpdateReplacesBeschreibungAndFarbe(t *testing.T) {
	ctx := context.Background()
	store := newFakeCategoryStore()
	store.add(&models.Category{
		MitarbeiterID: 1,
		Bezeichnung:   "Beratung",
		Beschreibung:  strPtr("Strategieberatung"),
		Farbe:         strPtr("#112233"),
		Aktiv:         true,
	})
	svc := NewCategoryService(store)

	// an update that carries neither field clears both
	updated, err := svc.Update(ctx, testPrincipal(), 1, &models.UpdateCategoryRequest{
		StandardStundensatz: floatPtr(120),
	})
	require.NoError(t, err)

	assert.Equal(t, "Beratung", updated.Bezeichnung)
	require.NotNil(t, updated.StandardStundensatz)
	assert.Equal(t, 120.0, *updated.StandardStundensatz)
	assert.Nil(t, updated.Beschreibung)
	assert.Nil(t, updated.Farbe)
	assert.True(t, updated.Aktiv)
}

func TestCategoryDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	store := newFakeCategoryStore()
	store.add(&models.Category{MitarbeiterID: 2, Bezeichnung: "Fremd"})
	svc := NewCategoryService(store)

	err := svc.Delete(ctx, testPrincipal(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Len(t, store.categories, 1)
}
