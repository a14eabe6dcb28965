package schedule

import (
	"slices"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

// Rule decides whether a date matches a recurrence. The set of rules is
// closed: Daily, Weekly, Monthly and Never.
type Rule interface {
	Matches(d calendar.Date) bool
	rule()
}

// Daily matches every date.
type Daily struct{}

// Weekly matches dates whose weekday is in Days.
type Weekly struct {
	Days []calendar.WeekdayTag
}

// Monthly matches dates whose day of month equals Day. Months shorter than
// Day have no matching date.
type Monthly struct {
	Day int
}

// Never matches nothing. Disabled, absent and incomplete schedules map to it.
type Never struct{}

func (Daily) Matches(calendar.Date) bool { return true }

func (w Weekly) Matches(d calendar.Date) bool {
	return slices.Contains(w.Days, calendar.WeekdayTagOf(d))
}

func (m Monthly) Matches(d calendar.Date) bool {
	return d.Day == m.Day
}

func (Never) Matches(calendar.Date) bool { return false }

func (Daily) rule()   {}
func (Weekly) rule()  {}
func (Monthly) rule() {}
func (Never) rule()   {}

// RuleFor converts a stored schedule into its rule.
func RuleFor(s *models.Schedule) Rule {
	if s == nil || !s.Enabled {
		return Never{}
	}

	switch s.Frequency {
	case models.FrequencyDaily:
		return Daily{}
	case models.FrequencyWeekly:
		if len(s.DaysOfWeek) == 0 {
			return Never{}
		}
		return Weekly{Days: s.DaysOfWeek}
	case models.FrequencyMonthly:
		if s.DayOfMonth == nil {
			return Never{}
		}
		return Monthly{Day: *s.DayOfMonth}
	default:
		return Never{}
	}
}
