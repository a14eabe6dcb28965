package schedule

import (
	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

// DefaultHorizonDays is the default search window for NextOccurrence.
const DefaultHorizonDays = 365

// DueOn returns the routines due on d in their input order. Deleted routines
// are never due.
func DueOn(routines []models.Routine, d calendar.Date) []models.Routine {
	var due []models.Routine
	for _, r := range routines {
		if r.DeletedAt != nil {
			continue
		}
		if IsDue(r.Schedule, d) {
			due = append(due, r)
		}
	}
	return due
}

// DueCounts returns how many routines are due on each of dates.
func DueCounts(routines []models.Routine, dates []calendar.Date) map[calendar.Date]int {
	counts := make(map[calendar.Date]int, len(dates))
	for _, d := range dates {
		counts[d] = len(DueOn(routines, d))
	}
	return counts
}

// NextOccurrence scans forward from `from` (inclusive) for up to horizonDays
// dates and returns the first one on which s is due. The second result is
// false when nothing matches within the horizon.
func NextOccurrence(s *models.Schedule, from calendar.Date, horizonDays int) (calendar.Date, bool) {
	rule := RuleFor(s)
	if _, never := rule.(Never); never {
		return calendar.Date{}, false
	}

	for i := 0; i < horizonDays; i++ {
		d := from.AddDays(i)
		if rule.Matches(d) {
			return d, true
		}
	}
	return calendar.Date{}, false
}
