package calendar

import (
	"cmp"
	"fmt"
	"time"
)

// KeyFormat is the layout of a date key (YYYY-MM-DD).
const KeyFormat = "2006-01-02"

// Date is a calendar date with no time of day and no time zone.
// The zero value is not a valid date; IsZero reports it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the calendar date of t using t's own year, month and day.
// No time zone conversion is applied.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// New returns the date for the given fields. Out-of-range values are
// normalized the same way time.Date does (January 32 becomes February 1).
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Today returns the current local calendar date.
func Today() Date {
	return Of(time.Now())
}

// Parse parses a YYYY-MM-DD key.
func Parse(key string) (Date, error) {
	t, err := time.Parse(KeyFormat, key)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	return Of(t), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(key string) Date {
	d, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the zero-padded YYYY-MM-DD key. Keys sort lexicographically in date order.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Key is an alias for String.
func (d Date) Key() string {
	return d.String()
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// utc anchors date arithmetic in UTC so DST shifts never affect day counts.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Of(d.utc().AddDate(0, 0, n))
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool {
	return Compare(d, other) < 0
}

// After reports whether d is after other.
func (d Date) After(other Date) bool {
	return Compare(d, other) > 0
}

// Compare returns -1, 0 or +1 as a is before, equal to or after b.
func Compare(a, b Date) int {
	return cmp.Or(
		cmp.Compare(a.Year, b.Year),
		cmp.Compare(a.Month, b.Month),
		cmp.Compare(a.Day, b.Day),
	)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
