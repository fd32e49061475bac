package planner

import (
	"fmt"
	"time"
)

// DateLayout is the layout of document keys
const DateLayout = "2006-01-02"

const (
	DefaultStart = "2025-10-02"
	DefaultDays  = 11
)

// Period is the fixed holiday window the front-ends offer for selection
type Period struct {
	Start time.Time
	Days  int
}

// DefaultPeriod returns the 11-day window starting October 2nd
func DefaultPeriod() Period {
	p, _ := NewPeriod(DefaultStart, DefaultDays)
	return p
}

// NewPeriod parses start (YYYY-MM-DD) and builds a window of days days
func NewPeriod(start string, days int) (Period, error) {
	t, err := ParseDate(start)
	if err != nil {
		return Period{}, err
	}
	if days < 1 {
		return Period{}, fmt.Errorf("%w: period needs at least one day, got %d", ErrValidation, days)
	}
	return Period{Start: t, Days: days}, nil
}

// Dates lists every date of the period in order
func (p Period) Dates() []string {
	dates := make([]string, 0, p.Days)
	for i := 0; i < p.Days; i++ {
		dates = append(dates, p.Start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// End returns the last day of the period
func (p Period) End() time.Time {
	return p.Start.AddDate(0, 0, p.Days-1)
}

// Contains reports whether date falls inside the period
func (p Period) Contains(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !t.Before(p.Start) && !t.After(p.End())
}

// ParseDate parses a YYYY-MM-DD date at noon UTC
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	// Use noon to avoid timezone issues when formatting to YYYY-MM-DD
	return t.Add(12 * time.Hour), nil
}
