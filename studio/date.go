package studio

import (
	"time"
)

// =============================================================================
// DATE - Naive calendar date (no time zone, no time of day)
// =============================================================================

// Date is a calendar day in YYYY-MM-DD form. Dates compare as strings so a
// shoot at 23:00 and one at 08:00 on the same day are the same day.
type Date string

const dateLayout = "2006-01-02"

// NormalizeDate reduces a stored date or timestamp to its calendar day.
// Accepts YYYY-MM-DD, RFC3339 and "YYYY-MM-DD HH:MM:SS". Anything else
// normalizes to the empty Date.
func NormalizeDate(s string) Date {
	if len(s) < len(dateLayout) {
		return ""
	}
	day := s[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, day); err != nil {
		return ""
	}
	if len(s) > len(dateLayout) {
		sep := s[len(dateLayout)]
		if sep != 'T' && sep != ' ' {
			return ""
		}
	}
	return Date(day)
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// Clock supplies "today". Tests pin it, production uses Today.
type Clock func() Date

// FixedClock always returns d.
func FixedClock(d Date) Clock {
	return func() Date { return d }
}

// Comparison
func (d Date) Before(other Date) bool     { return d.norm() < other.norm() }
func (d Date) After(other Date) bool      { return d.norm() > other.norm() }
func (d Date) Equal(other Date) bool      { return d.norm() == other.norm() }
func (d Date) OnOrBefore(other Date) bool { return d.norm() <= other.norm() }
func (d Date) IsZero() bool               { return d.norm() == "" }
func (d Date) String() string             { return string(d) }

func (d Date) norm() string { return string(NormalizeDate(string(d))) }

// Time parses the date at midnight UTC. The zero time is returned for
// an invalid date.
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, d.norm())
	if err != nil {
		return time.Time{}
	}
	return t
}

// Arithmetic
func (d Date) AddDays(n int) Date {
	t := d.Time()
	if t.IsZero() {
		return ""
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) AddYears(n int) Date {
	t := d.Time()
	if t.IsZero() {
		return ""
	}
	return DateOf(t.AddDate(n, 0, 0))
}

// InRange reports whether d lies in [from, to]. An empty bound is open.
func (d Date) InRange(from, to Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}
