package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  time.Time
	}{
		{"monday maps to itself", monday},
		{"wednesday", time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)},
		{"sunday belongs to the preceding monday", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, WeekStart(tt.day))
		})
	}
}
