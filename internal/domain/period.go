package domain

import (
	"fmt"
	"time"
)

// Period is a half-open time window [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthPeriod returns the calendar month year/month in UTC.
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Validate returns ErrValidation when End is not after Start.
func (p Period) Validate() error {
	if !p.End.After(p.Start) {
		return fmt.Errorf("%w: period end must be after period start", ErrValidation)
	}
	return nil
}

// NextMonth returns the calendar month after the month p starts in.
func (p Period) NextMonth() Period {
	start := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthPeriod(start.Year(), start.Month()+1)
}
