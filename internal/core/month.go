package core

import (
	"fmt"
	"time"
)

// Month identifies a calendar month. Summaries compare by month, never by
// exact date, so truncation always goes through this type.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf truncates an instant to its calendar month in UTC. UTC is the
// fixed reference time zone for all summary eligibility decisions.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Key renders the month as "YYYY-MM", the storage representation.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonthKey parses a "YYYY-MM" key.
func ParseMonthKey(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month key %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// FirstDay returns UTC midnight on the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// CurrentMonthStart returns the summarization cutoff for the given instant:
// UTC midnight on the first day of the instant's month. Entries dated
// strictly before the cutoff belong to closed months.
func CurrentMonthStart(now time.Time) time.Time {
	return MonthOf(now).FirstDay()
}

// DateOnly normalizes an instant to its UTC calendar day, the form in which
// entry dates are stored and compared.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
