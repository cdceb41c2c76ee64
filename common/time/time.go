package time

import (
	"fmt"
	"time"
)

// LocalDate is a calendar date, without time of day or location. Events are
// resolved to a LocalDate in the account timezone: the day is the billing
// unit, and two instants in the same account day must not be told apart.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateIn returns the calendar date of t as seen in loc. A nil loc is UTC.
func DateIn(t time.Time, loc *time.Location) LocalDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// NewLocalDate returns the given date, normalised the same way time.Date
// normalises out-of-range values (e.g. February 30th is March 2nd).
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return DateIn(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), time.UTC)
}

// Compare returns -1 if d is before other, +1 if it is after and 0 if both
// are the same day.
func (d LocalDate) Compare(other LocalDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// String formats d as YYYY-MM-DD.
func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
