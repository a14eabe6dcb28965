package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GridSize is the number of cells in a month grid (6 weeks of 7 days).
const GridSize = 42

// WeekdayTag is the symbolic name of a day of the week.
type WeekdayTag string

const (
	Sun WeekdayTag = "sun"
	Mon WeekdayTag = "mon"
	Tue WeekdayTag = "tue"
	Wed WeekdayTag = "wed"
	Thu WeekdayTag = "thu"
	Fri WeekdayTag = "fri"
	Sat WeekdayTag = "sat"
)

// weekdayTags is indexed by time.Weekday (0=Sunday).
var weekdayTags = [7]WeekdayTag{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

// AllWeekdayTags returns the tags in Sunday-first order.
func AllWeekdayTags() []WeekdayTag {
	tags := weekdayTags
	return tags[:]
}

// TagOf maps a time.Weekday to its tag.
func TagOf(wd time.Weekday) WeekdayTag {
	return weekdayTags[int(wd)%7]
}

// WeekdayTagOf returns the tag of d's day of the week.
func WeekdayTagOf(d Date) WeekdayTag {
	return TagOf(d.Weekday())
}

// Weekday returns the time.Weekday for the tag and whether the tag is known.
func (t WeekdayTag) Weekday() (time.Weekday, bool) {
	for i, tag := range weekdayTags {
		if tag == t {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// ParseWeekdayTag accepts short ("mon") or long ("monday") names in any case,
// or a number 0-6 with 0=Sunday.
func ParseWeekdayTag(s string) (WeekdayTag, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for i, tag := range weekdayTags {
		if s == string(tag) || s == strings.ToLower(time.Weekday(i).String()) {
			return tag, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return weekdayTags[n], nil
	}
	return "", fmt.Errorf("invalid weekday: %s", s)
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// DatesOfWeek returns the seven consecutive dates beginning at start.
func DatesOfWeek(start Date) [7]Date {
	var week [7]Date
	for i := range week {
		week[i] = start.AddDays(i)
	}
	return week
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid returns the 42 dates of a Sunday-first month calendar: padding
// from the previous month so the 1st lands on its weekday column, every day
// of the month, then padding from the next month.
func MonthGrid(year int, month time.Month) [GridSize]Date {
	first := New(year, month, 1)
	start := StartOfWeek(first)

	var grid [GridSize]Date
	for i := range grid {
		grid[i] = start.AddDays(i)
	}
	return grid
}

// InMonth reports whether d falls in the given month.
func InMonth(d Date, year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole number of days from b to a (a - b).
// DaysBetween(a, b) == -DaysBetween(b, a).
func DaysBetween(a, b Date) int {
	return int((a.utc().Unix() - b.utc().Unix()) / secondsPerDay)
}

// Range returns every date from start to end inclusive. It returns nil if end
// is before start.
func Range(start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	dates := make([]Date, 0, DaysBetween(end, start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
