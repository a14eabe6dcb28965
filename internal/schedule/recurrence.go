package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/constants"
	"github.com/julianstephens/routinely/internal/models"
)

// IsDue reports whether a routine with schedule s is due on d. It is a pure
// function of its arguments and is safe for concurrent use.
func IsDue(s *models.Schedule, d calendar.Date) bool {
	return RuleFor(s).Matches(d)
}

// Validate reports configuration problems in s. Evaluation never requires a
// valid schedule; an invalid one is simply never due. Validate exists so
// editors can warn before saving.
func Validate(s models.Schedule) error {
	var errs []error

	switch s.Frequency {
	case models.FrequencyDaily:
	case models.FrequencyWeekly:
		if len(s.DaysOfWeek) == 0 {
			errs = append(errs, errors.New("weekly schedule requires at least one day of the week"))
		}
		for _, tag := range s.DaysOfWeek {
			if _, ok := tag.Weekday(); !ok {
				errs = append(errs, fmt.Errorf("unknown day of the week %q", tag))
			}
		}
	case models.FrequencyMonthly:
		if s.DayOfMonth == nil {
			errs = append(errs, errors.New("monthly schedule requires a day of the month"))
		} else if *s.DayOfMonth < 1 || *s.DayOfMonth > 31 {
			errs = append(errs, fmt.Errorf("day of the month must be 1-31, got %d", *s.DayOfMonth))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown frequency %q", s.Frequency))
	}

	if s.ReminderTime != "" {
		if _, err := time.Parse(constants.TimeFormat, s.ReminderTime); err != nil {
			errs = append(errs, fmt.Errorf("reminder time must be HH:MM, got %q", s.ReminderTime))
		}
	}

	return errors.Join(errs...)
}

// Describe formats a schedule into a human-readable string.
func Describe(s *models.Schedule) string {
	if s == nil {
		return "unscheduled"
	}

	var desc string
	switch s.Frequency {
	case models.FrequencyDaily:
		desc = "daily"
	case models.FrequencyWeekly:
		if len(s.DaysOfWeek) > 0 {
			days := make([]string, len(s.DaysOfWeek))
			for i, tag := range s.DaysOfWeek {
				days[i] = string(tag)
			}
			desc = fmt.Sprintf("weekly on %s", strings.Join(days, ","))
		} else {
			desc = "weekly (no days)"
		}
	case models.FrequencyMonthly:
		if s.DayOfMonth != nil {
			desc = fmt.Sprintf("monthly on day %d", *s.DayOfMonth)
		} else {
			desc = "monthly (no day)"
		}
	default:
		desc = "unknown"
	}

	if s.ReminderTime != "" {
		desc += " at " + s.ReminderTime
	}
	if !s.Enabled {
		desc += " (disabled)"
	}
	return desc
}
