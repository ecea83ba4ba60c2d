package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", FormatDate(d))
	assert.Equal(t, Vienna, d.Location())
}

func TestParseDateRejectsOtherFormats(t *testing.T) {
	for _, input := range []string{"28.08.2026", "2026/08/28", "2026-8-28", ""} {
		_, err := ParseDate(input)
		assert.Error(t, err, input)
	}
}

func TestTodayIsMidnight(t *testing.T) {
	today := Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, Vienna, today.Location())
}
