package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

func intPtr(i int) *int { return &i }

func TestIsDue_Daily(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}

	for _, d := range calendar.Range(calendar.MustParse("2024-02-01"), calendar.MustParse("2024-03-31")) {
		if !IsDue(s, d) {
			t.Errorf("expected daily schedule to be due on %s", d)
		}
	}
	if !IsDue(s, calendar.MustParse("2024-02-29")) {
		t.Error("expected daily schedule to be due on leap day")
	}
}

func TestIsDue_Weekly(t *testing.T) {
	s := &models.Schedule{
		Frequency:  models.FrequencyWeekly,
		Enabled:    true,
		DaysOfWeek: []calendar.WeekdayTag{calendar.Mon, calendar.Wed},
	}

	// Four weeks starting Sunday, January 7th 2024
	start := calendar.MustParse("2024-01-07")
	for i := 0; i < 28; i++ {
		d := start.AddDays(i)
		want := d.Weekday() == time.Monday || d.Weekday() == time.Wednesday
		if got := IsDue(s, d); got != want {
			t.Errorf("IsDue(%s, %s) = %v, want %v", d, d.Weekday(), got, want)
		}
	}
}

func TestIsDue_WeeklyWithoutDays(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true}
	for _, d := range calendar.DatesOfWeek(calendar.MustParse("2024-01-07")) {
		if IsDue(s, d) {
			t.Errorf("weekly schedule without days should never be due, was due on %s", d)
		}
	}
}

func TestIsDue_Monthly31(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true, DayOfMonth: intPtr(31)}

	for _, d := range calendar.Range(calendar.MustParse("2024-04-01"), calendar.MustParse("2024-04-30")) {
		if IsDue(s, d) {
			t.Errorf("day-31 schedule should not be due in April, was due on %s", d)
		}
	}
	if !IsDue(s, calendar.MustParse("2024-01-31")) {
		t.Error("expected day-31 schedule to be due on January 31st")
	}
	if IsDue(s, calendar.MustParse("2024-01-30")) {
		t.Error("day-31 schedule should not be due on January 30th")
	}
}

func TestIsDue_MonthlyWithoutDay(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true}
	if IsDue(s, calendar.MustParse("2024-01-01")) {
		t.Error("monthly schedule without a day should never be due")
	}
}

func TestIsDue_DisabledOverridesFrequency(t *testing.T) {
	schedules := []*models.Schedule{
		{Frequency: models.FrequencyDaily},
		{Frequency: models.FrequencyWeekly, DaysOfWeek: calendar.AllWeekdayTags()},
		{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(15)},
	}

	for _, s := range schedules {
		for _, d := range calendar.MonthGrid(2024, time.January) {
			if IsDue(s, d) {
				t.Errorf("disabled %s schedule was due on %s", s.Frequency, d)
			}
		}
	}
}

func TestIsDue_AbsentOrUnknown(t *testing.T) {
	d := calendar.MustParse("2024-01-01")
	if IsDue(nil, d) {
		t.Error("nil schedule should never be due")
	}
	if IsDue(&models.Schedule{Frequency: "yearly", Enabled: true}, d) {
		t.Error("unknown frequency should never be due")
	}
	if IsDue(&models.Schedule{Enabled: true}, d) {
		t.Error("missing frequency should never be due")
	}
}

func TestIsDue_Idempotent(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true, DaysOfWeek: []calendar.WeekdayTag{calendar.Fri}}
	d := calendar.MustParse("2024-01-12")
	first := IsDue(s, d)
	for i := 0; i < 5; i++ {
		if IsDue(s, d) != first {
			t.Fatal("IsDue returned different results for identical inputs")
		}
	}
}

func TestRuleFor(t *testing.T) {
	tests := []struct {
		name string
		s    *models.Schedule
		want Rule
	}{
		{"nil", nil, Never{}},
		{"disabled", &models.Schedule{Frequency: models.FrequencyDaily}, Never{}},
		{"daily", &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}, Daily{}},
		{"monthly", &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true, DayOfMonth: intPtr(3)}, Monthly{Day: 3}},
		{"weekly without days", &models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true}, Never{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleFor(tt.s)
			if _, isWeekly := got.(Weekly); isWeekly {
				t.Fatalf("unexpected weekly rule %v", got)
			}
			if got != tt.want {
				t.Errorf("RuleFor() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       models.Schedule
		wantErr string
	}{
		{"daily ok", models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}, ""},
		{"weekly ok", models.Schedule{Frequency: models.FrequencyWeekly, DaysOfWeek: []calendar.WeekdayTag{calendar.Tue}}, ""},
		{"weekly empty", models.Schedule{Frequency: models.FrequencyWeekly}, "at least one day"},
		{"weekly bad tag", models.Schedule{Frequency: models.FrequencyWeekly, DaysOfWeek: []calendar.WeekdayTag{"xyz"}}, "unknown day"},
		{"monthly missing", models.Schedule{Frequency: models.FrequencyMonthly}, "requires a day"},
		{"monthly out of range", models.Schedule{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(32)}, "must be 1-31"},
		{"unknown frequency", models.Schedule{Frequency: "hourly"}, "unknown frequency"},
		{"bad reminder", models.Schedule{Frequency: models.FrequencyDaily, ReminderTime: "7am"}, "HH:MM"},
		{"good reminder", models.Schedule{Frequency: models.FrequencyDaily, ReminderTime: "07:30"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.s)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		s    *models.Schedule
		want string
	}{
		{nil, "unscheduled"},
		{&models.Schedule{Frequency: models.FrequencyDaily, Enabled: true, ReminderTime: "08:00"}, "daily at 08:00"},
		{&models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true, DaysOfWeek: []calendar.WeekdayTag{calendar.Mon, calendar.Wed}}, "weekly on mon,wed"},
		{&models.Schedule{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(31)}, "monthly on day 31 (disabled)"},
	}
	for _, tt := range tests {
		if got := Describe(tt.s); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
