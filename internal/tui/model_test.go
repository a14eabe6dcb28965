package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/tracker"
	"github.com/julianstephens/routinely/internal/tui/components/daylist"
)

var testToday = calendar.MustParse("2024-03-04") // a Monday

func setupModel(t *testing.T) (Model, storage.Provider) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "routinely.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := []error{
		store.AddCategory(models.Category{ID: "c", Name: "Health", CreatedAt: created}),
		store.AddGoal(models.Goal{ID: "g", CategoryID: "c", Name: "Fitness", CreatedAt: created}),
		store.AddRoutine(models.Routine{ID: "r1", GoalID: "g", Name: "Stretch", CreatedAt: created, UpdatedAt: created,
			Schedule: &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}}),
		store.AddRoutine(models.Routine{ID: "r2", GoalID: "g", Name: "Run", CreatedAt: created.Add(time.Minute), UpdatedAt: created,
			Schedule: &models.Schedule{Frequency: models.FrequencyWeekly, Enabled: true, DaysOfWeek: []calendar.WeekdayTag{calendar.Mon}}}),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
	tr := tracker.New(store, func() calendar.Date { return testToday })
	return NewModel(store, tr), store
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// press sends k and feeds back any action message the day list emits.
func press(m Model, k string) Model {
	m, cmd := send(m, keyMsg(k))
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case daylist.ToggleMsg, daylist.SkipMsg, daylist.EditScheduleMsg:
		m, _ = send(m, msg)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m, _ := setupModel(t)

	if m.month.Cursor() != testToday {
		t.Errorf("cursor = %s, want %s", m.month.Cursor(), testToday)
	}
	if m.day.Day() != testToday {
		t.Errorf("day list shows %s, want %s", m.day.Day(), testToday)
	}
	if _, ok := m.day.Selected(); !ok {
		t.Error("expected a selected routine on a day with routines due")
	}
	if m.state != StateCalendar {
		t.Errorf("state = %v, want StateCalendar", m.state)
	}
}

func TestCalendarNavigation(t *testing.T) {
	m, _ := setupModel(t)

	tests := []struct {
		key  string
		want string
	}{
		{"l", "2024-03-05"},
		{"j", "2024-03-12"},
		{"k", "2024-03-05"},
		{"h", "2024-03-04"},
		{"]", "2024-04-04"},
		{"[", "2024-03-04"},
		{"[", "2024-02-04"},
		{"t", "2024-03-04"},
	}
	for _, tt := range tests {
		m = press(m, tt.key)
		if got := m.month.Cursor().String(); got != tt.want {
			t.Fatalf("after %q cursor = %s, want %s", tt.key, got, tt.want)
		}
		if m.day.Day() != m.month.Cursor() {
			t.Fatalf("after %q day list shows %s, cursor %s", tt.key, m.day.Day(), m.month.Cursor())
		}
	}
}

func TestDayListFollowsCursor(t *testing.T) {
	m, _ := setupModel(t)

	// Tuesday: only the daily routine is due.
	m = press(m, "l")
	item, ok := m.day.Selected()
	if !ok || item.Routine.ID != "r1" {
		t.Fatalf("Selected() = %+v, %v; want r1", item, ok)
	}
	m = press(m, "tab")
	m = press(m, "j")
	if item, _ := m.day.Selected(); item.Routine.ID != "r1" {
		t.Errorf("cursor moved past the only item: %+v", item)
	}
}

func TestToggleAndSkip(t *testing.T) {
	m, store := setupModel(t)

	selected, _ := m.day.Selected()
	m = press(m, "x")
	rec, err := store.GetCompletion(selected.Routine.ID, testToday)
	if err != nil {
		t.Fatalf("GetCompletion() error = %v", err)
	}
	if rec.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed", rec.Status)
	}
	if m.err != nil || !strings.Contains(m.notice, "completed") {
		t.Errorf("notice = %q, err = %v", m.notice, m.err)
	}
	if item, _ := m.day.Selected(); item.Status != models.StatusCompleted {
		t.Errorf("day list was not refreshed: %+v", item)
	}

	m = press(m, "tab")
	m = press(m, "s")
	rec, err = store.GetCompletion(selected.Routine.ID, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.StatusSkipped {
		t.Errorf("status = %s, want skipped", rec.Status)
	}
}

func TestEditScheduleOpensAndCancels(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "e")
	if m.state != StateEditing || m.form == nil || m.editing == nil {
		t.Fatalf("state = %v, form = %v; want editing with a form", m.state, m.form)
	}

	m = press(m, "esc")
	if m.state != StateCalendar || m.form != nil {
		t.Errorf("esc should return to the calendar, state = %v", m.state)
	}
}

func TestSaveSchedule(t *testing.T) {
	m, store := setupModel(t)

	m = press(m, "e")
	id := m.editing.ID
	m.scheduleForm.Frequency = models.FrequencyMonthly
	m.scheduleForm.DayOfMonth = "15"
	if err := m.saveSchedule(); err != nil {
		t.Fatalf("saveSchedule() error = %v", err)
	}

	r, err := store.GetRoutine(id)
	if err != nil {
		t.Fatal(err)
	}
	if r.Schedule == nil || r.Schedule.Frequency != models.FrequencyMonthly || *r.Schedule.DayOfMonth != 15 {
		t.Errorf("schedule = %+v, want monthly on the 15th", r.Schedule)
	}

	m.scheduleForm.DayOfMonth = "40"
	if err := m.saveSchedule(); err == nil {
		t.Error("saveSchedule() with day 40 should fail")
	}
}

func TestView(t *testing.T) {
	m, _ := setupModel(t)
	view := m.View()
	for _, want := range []string{"March 2024", "Stretch", "Run"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	m, cmd := send(m, keyMsg("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
