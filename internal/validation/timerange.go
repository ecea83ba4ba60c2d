// Package validation holds the time-range rule shared by the time entry
// ledger and any form frontend, so both sides accept and reject the
// same inputs.
package validation

import (
	"fmt"
	"regexp"
	"time"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/timeutil"
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeRangeRules parameterizes the shared validation. The zero value of
// MaxDuration disables the cap; AllowFutureDates defaults to rejecting
// dates after today.
type TimeRangeRules struct {
	MaxDuration      time.Duration
	AllowFutureDates bool
}

// DefaultRules mirrors the form defaults: 16h cap, no future dates.
func DefaultRules() TimeRangeRules {
	return TimeRangeRules{MaxDuration: 16 * time.Hour}
}

// ParseClock parses a 24-hour HH:MM string into minutes since midnight.
func ParseClock(value string) (int, error) {
	if !timePattern.MatchString(value) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	var h, m int
	fmt.Sscanf(value, "%d:%d", &h, &m)
	return h*60 + m, nil
}

// TimeRange validates a (datum, startzeit, endzeit) triple and returns
// the duration in minutes. Overnight wraparound is not supported: the
// end time must be later than the start time on the same calendar day.
// Failures are reported as a field-level ValidationError.
func TimeRange(datum *time.Time, startzeit, endzeit string, rules TimeRangeRules) (int, error) {
	var fieldErrs []domain.FieldError

	if datum == nil {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "datum", Message: "Datum ist erforderlich"})
	} else if !rules.AllowFutureDates && datum.After(timeutil.Today()) {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "datum", Message: "Datum darf nicht in der Zukunft liegen"})
	}

	startMin, err := ParseClock(startzeit)
	if err != nil {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "startzeit", Message: "Ungültiges Zeitformat, erwartet HH:MM"})
	}
	endMin, err := ParseClock(endzeit)
	if err != nil {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "endzeit", Message: "Ungültiges Zeitformat, erwartet HH:MM"})
	}

	if len(fieldErrs) > 0 {
		return 0, domain.NewValidationErrors(fieldErrs)
	}

	minutes := endMin - startMin
	if minutes <= 0 {
		return 0, domain.NewValidationError("endzeit", "Endzeit muss nach der Startzeit liegen")
	}
	if rules.MaxDuration > 0 && time.Duration(minutes)*time.Minute > rules.MaxDuration {
		return 0, domain.NewValidationError("endzeit",
			fmt.Sprintf("Dauer überschreitet das Maximum von %.0f Stunden", rules.MaxDuration.Hours()))
	}

	return minutes, nil
}
