package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCutsOnRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short stays", "Beratung März", "Beratung März"},
		{"exact limit stays", strings.Repeat("x", 50), strings.Repeat("x", 50)},
		{"long ascii", strings.Repeat("x", 60), strings.Repeat("x", 47) + "..."},
		{"umlauts near the cut survive", strings.Repeat("Ä", 60), strings.Repeat("Ä", 47) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, 50)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
