package schedule

import (
	"testing"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
)

func testRoutines() []models.Routine {
	deleted := time.Now()
	return []models.Routine{
		{ID: "r1", Name: "Stretch", Schedule: &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}},
		{ID: "r2", Name: "Laundry", Schedule: &models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true, DaysOfWeek: []calendar.WeekdayTag{calendar.Mon}}},
		{ID: "r3", Name: "Unscheduled"},
		{ID: "r4", Name: "Rent", Schedule: &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true, DayOfMonth: intPtr(1)}},
		{ID: "r5", Name: "Read", Schedule: &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}},
		{ID: "r6", Name: "Old", Schedule: &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}, DeletedAt: &deleted},
	}
}

func ids(routines []models.Routine) []string {
	out := make([]string, len(routines))
	for i, r := range routines {
		out[i] = r.ID
	}
	return out
}

func TestDueOn_PreservesOrder(t *testing.T) {
	// Monday, January 1st 2024 matches daily, weekly-mon and monthly-1.
	due := DueOn(testRoutines(), calendar.MustParse("2024-01-01"))
	got := ids(due)
	want := []string{"r1", "r2", "r4", "r5"}

	if len(got) != len(want) {
		t.Fatalf("DueOn() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DueOn()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDueOn_Empty(t *testing.T) {
	if due := DueOn(nil, calendar.MustParse("2024-01-01")); len(due) != 0 {
		t.Errorf("expected no routines, got %v", ids(due))
	}

	// Tuesday, January 2nd: only daily routines.
	due := DueOn(testRoutines(), calendar.MustParse("2024-01-02"))
	if got := ids(due); len(got) != 2 || got[0] != "r1" || got[1] != "r5" {
		t.Errorf("DueOn() = %v, want [r1 r5]", got)
	}
}

func TestDueCounts(t *testing.T) {
	week := calendar.DatesOfWeek(calendar.MustParse("2023-12-31"))
	counts := DueCounts(testRoutines(), week[:])

	if counts[calendar.MustParse("2023-12-31")] != 2 {
		t.Errorf("Sunday count = %d, want 2", counts[calendar.MustParse("2023-12-31")])
	}
	if counts[calendar.MustParse("2024-01-01")] != 4 {
		t.Errorf("Monday count = %d, want 4", counts[calendar.MustParse("2024-01-01")])
	}
}

func TestNextOccurrence(t *testing.T) {
	weekly := &models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true, DaysOfWeek: []calendar.WeekdayTag{calendar.Fri}}

	// From Friday itself (inclusive)
	got, ok := NextOccurrence(weekly, calendar.MustParse("2024-01-12"), DefaultHorizonDays)
	if !ok || got.String() != "2024-01-12" {
		t.Errorf("NextOccurrence() = %s, %v; want 2024-01-12, true", got, ok)
	}

	// From Saturday
	got, ok = NextOccurrence(weekly, calendar.MustParse("2024-01-13"), DefaultHorizonDays)
	if !ok || got.String() != "2024-01-19" {
		t.Errorf("NextOccurrence() = %s, %v; want 2024-01-19, true", got, ok)
	}
}

func TestNextOccurrence_MonthlyAcrossYear(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true, DayOfMonth: intPtr(31)}

	got, ok := NextOccurrence(s, calendar.MustParse("2024-11-01"), DefaultHorizonDays)
	if !ok || got.String() != "2024-12-31" {
		t.Errorf("NextOccurrence() = %s, %v; want 2024-12-31, true", got, ok)
	}
}

func TestNextOccurrence_Bounded(t *testing.T) {
	s := &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true, DayOfMonth: intPtr(31)}

	// February 1st 2023 with a 28 day horizon ends before March 31st.
	if got, ok := NextOccurrence(s, calendar.MustParse("2023-02-01"), 28); ok {
		t.Errorf("expected no occurrence within horizon, got %s", got)
	}

	// The horizon is exclusive of the day after its last scanned date.
	if _, ok := NextOccurrence(s, calendar.MustParse("2023-03-01"), 30); ok {
		t.Error("expected March 31st to be outside a 30 day horizon from March 1st")
	}
	if got, ok := NextOccurrence(s, calendar.MustParse("2023-03-01"), 31); !ok || got.String() != "2023-03-31" {
		t.Errorf("NextOccurrence() = %s, %v; want 2023-03-31, true", got, ok)
	}
}

func TestNextOccurrence_Never(t *testing.T) {
	if _, ok := NextOccurrence(nil, calendar.MustParse("2024-01-01"), DefaultHorizonDays); ok {
		t.Error("nil schedule should have no next occurrence")
	}
	if _, ok := NextOccurrence(&models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}, calendar.MustParse("2024-01-01"), 0); ok {
		t.Error("zero horizon should find nothing")
	}
}
