package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/timeutil"
)

func TestParseEntryFilter(t *testing.T) {
	t.Run("full query string", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet,
			"/timebook/zeiterfassung?kunde_id=7&von=2026-01-01&bis=2026-01-31&abgeschlossen=true&laufend=false&limit=25&offset=50", nil)

		filter, err := parseEntryFilter(r)
		require.NoError(t, err)

		require.NotNil(t, filter.KundeID)
		assert.Equal(t, 7, *filter.KundeID)
		require.NotNil(t, filter.Von)
		assert.Equal(t, "2026-01-01", timeutil.FormatDate(*filter.Von))
		require.NotNil(t, filter.Bis)
		assert.Equal(t, "2026-01-31", timeutil.FormatDate(*filter.Bis))
		require.NotNil(t, filter.Abgeschlossen)
		assert.True(t, *filter.Abgeschlossen)
		require.NotNil(t, filter.Laufend)
		assert.False(t, *filter.Laufend)
		assert.Equal(t, 25, filter.Limit)
		assert.Equal(t, 50, filter.Offset)
	})

	t.Run("empty query leaves everything unset", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/timebook/zeiterfassung", nil)

		filter, err := parseEntryFilter(r)
		require.NoError(t, err)
		assert.Nil(t, filter.KundeID)
		assert.Nil(t, filter.Von)
		assert.Nil(t, filter.Abgeschlossen)
		assert.Nil(t, filter.Laufend)
	})

	t.Run("bad values are validation failures", func(t *testing.T) {
		for _, query := range []string{"kunde_id=abc", "von=31.01.2026", "abgeschlossen=vielleicht"} {
			r := httptest.NewRequest(http.MethodGet, "/timebook/zeiterfassung?"+query, nil)
			_, err := parseEntryFilter(r)
			require.Error(t, err, query)
			assert.True(t, errors.Is(err, domain.ErrValidation), query)
		}
	})
}

func TestParseInvoiceFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/timebook/honorarnoten?kunde_id=3&bezahlt=false&jahr=2025", nil)

	filter, err := parseInvoiceFilter(r)
	require.NoError(t, err)

	require.NotNil(t, filter.KundeID)
	assert.Equal(t, 3, *filter.KundeID)
	require.NotNil(t, filter.Bezahlt)
	assert.False(t, *filter.Bezahlt)
	require.NotNil(t, filter.Jahr)
	assert.Equal(t, 2025, *filter.Jahr)
}

func TestPathIDRejectsGarbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/timebook/kunden/abc", nil)
	_, err := pathID(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
