// Package forms holds the huh dialogs shared by the CLI and the TUI.
package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/schedule"
)

// ScheduleFormModel is the editable, string-typed view of a schedule.
type ScheduleFormModel struct {
	Frequency  models.Frequency
	Enabled    bool
	Days       []calendar.WeekdayTag
	DayOfMonth string
	Reminder   string
}

// FromSchedule fills a form model from s. A nil schedule starts as an enabled daily one.
func FromSchedule(s *models.Schedule) *ScheduleFormModel {
	if s == nil {
		return &ScheduleFormModel{Frequency: models.FrequencyDaily, Enabled: true}
	}
	fm := &ScheduleFormModel{
		Frequency: s.Frequency,
		Enabled:   s.Enabled,
		Days:      append([]calendar.WeekdayTag(nil), s.DaysOfWeek...),
		Reminder:  s.ReminderTime,
	}
	if s.DayOfMonth != nil {
		fm.DayOfMonth = strconv.Itoa(*s.DayOfMonth)
	}
	return fm
}

// Schedule converts the form back into a validated schedule. Fields that do
// not apply to the chosen frequency are dropped.
func (fm *ScheduleFormModel) Schedule() (models.Schedule, error) {
	s := models.Schedule{
		Frequency:    fm.Frequency,
		Enabled:      fm.Enabled,
		ReminderTime: strings.TrimSpace(fm.Reminder),
	}
	switch fm.Frequency {
	case models.FrequencyWeekly:
		s.DaysOfWeek = append([]calendar.WeekdayTag(nil), fm.Days...)
	case models.FrequencyMonthly:
		if v := strings.TrimSpace(fm.DayOfMonth); v != "" {
			day, err := strconv.Atoi(v)
			if err != nil {
				return models.Schedule{}, fmt.Errorf("day of month must be a number: %q", v)
			}
			s.DayOfMonth = &day
		}
	}
	if err := schedule.Validate(s); err != nil {
		return models.Schedule{}, err
	}
	return s, nil
}

func weekdayOptions() []huh.Option[calendar.WeekdayTag] {
	tags := calendar.AllWeekdayTags()
	opts := make([]huh.Option[calendar.WeekdayTag], len(tags))
	for i, tag := range tags {
		wd, _ := tag.Weekday()
		opts[i] = huh.NewOption(wd.String(), tag)
	}
	return opts
}

// NewScheduleForm builds the schedule dialog bound to fm.
func NewScheduleForm(routineName string, fm *ScheduleFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Schedule").
				Description(routineName),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Monthly", models.FrequencyMonthly),
				).
				Value(&fm.Frequency),
			huh.NewConfirm().
				Title("Enabled").
				Value(&fm.Enabled),
		),
		huh.NewGroup(
			huh.NewMultiSelect[calendar.WeekdayTag]().
				Title("Days of week").
				Options(weekdayOptions()...).
				Value(&fm.Days).
				Validate(func(days []calendar.WeekdayTag) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyWeekly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Day of month (1-31)").
				Description("Months without this day are skipped").
				Value(&fm.DayOfMonth).
				Validate(func(s string) error {
					day, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || day < 1 || day > 31 {
						return fmt.Errorf("enter a day between 1 and 31")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyMonthly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder (HH:MM)").
				Description("Optional").
				Value(&fm.Reminder).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return schedule.Validate(models.Schedule{Frequency: models.FrequencyDaily, ReminderTime: strings.TrimSpace(s)})
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
