// Package storagetest runs the behavior every storage.Provider must share.
package storagetest

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/storage"
)

// Factory returns an initialized, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Provider

var base = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func intPtr(i int) *int { return &i }

// Run executes the provider conformance tests against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Provider)
	}{
		{"Categories", testCategories},
		{"Goals", testGoals},
		{"Routines", testRoutines},
		{"SoftDelete", testSoftDelete},
		{"Completions", testCompletions},
		{"CompletionUpsert", testCompletionUpsert},
		{"ListOrder", testListOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

func seed(t *testing.T, s storage.Provider) (models.Category, models.Goal) {
	t.Helper()
	c := models.Category{ID: "cat-1", Name: "Health", Color: "#ff0000", CreatedAt: at(0)}
	if err := s.AddCategory(c); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	g := models.Goal{ID: "goal-1", CategoryID: c.ID, Name: "Fitness", Description: "move more", CreatedAt: at(1)}
	if err := s.AddGoal(g); err != nil {
		t.Fatalf("AddGoal() error = %v", err)
	}
	return c, g
}

func addRoutine(t *testing.T, s storage.Provider, id, name string, sched *models.Schedule, minute int) models.Routine {
	t.Helper()
	r := models.Routine{
		ID:        id,
		GoalID:    "goal-1",
		Name:      name,
		Schedule:  sched,
		CreatedAt: at(minute),
		UpdatedAt: at(minute),
	}
	if err := s.AddRoutine(r); err != nil {
		t.Fatalf("AddRoutine(%s) error = %v", name, err)
	}
	return r
}

func testCategories(t *testing.T, s storage.Provider) {
	c, _ := seed(t, s)

	got, err := s.GetCategory(c.ID)
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if got.Name != c.Name || got.Color != c.Color || !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("GetCategory() = %+v, want %+v", got, c)
	}

	if _, err := s.GetCategoryByName("Health"); err != nil {
		t.Errorf("GetCategoryByName() error = %v", err)
	}
	if _, err := s.GetCategory("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetCategory(missing) error = %v, want ErrNotFound", err)
	}

	dup := models.Category{ID: "cat-2", Name: "Health", CreatedAt: at(2)}
	if err := s.AddCategory(dup); err == nil {
		t.Error("AddCategory() with duplicate name should fail")
	}

	if err := s.AddCategory(models.Category{ID: "cat-3", Name: "Mind", CreatedAt: at(3)}); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	all, err := s.GetAllCategories()
	if err != nil {
		t.Fatalf("GetAllCategories() error = %v", err)
	}
	if len(all) != 2 || all[0].Name != "Health" || all[1].Name != "Mind" {
		t.Errorf("GetAllCategories() = %+v, want [Health Mind]", all)
	}

	if err := s.DeleteCategory(c.ID); err == nil || !strings.Contains(err.Error(), "still has goals") {
		t.Errorf("DeleteCategory() with goals error = %v", err)
	}
	if err := s.DeleteCategory("cat-3"); err != nil {
		t.Errorf("DeleteCategory() error = %v", err)
	}
	if err := s.DeleteCategory("cat-3"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteCategory() twice error = %v, want ErrNotFound", err)
	}
}

func testGoals(t *testing.T, s storage.Provider) {
	c, g := seed(t, s)

	orphan := models.Goal{ID: "goal-x", CategoryID: "missing", Name: "Orphan", CreatedAt: at(2)}
	if err := s.AddGoal(orphan); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddGoal() with missing category error = %v, want ErrNotFound", err)
	}

	got, err := s.GetGoalByName("Fitness")
	if err != nil {
		t.Fatalf("GetGoalByName() error = %v", err)
	}
	if got.ID != g.ID || got.Description != g.Description {
		t.Errorf("GetGoalByName() = %+v, want %+v", got, g)
	}

	goals, err := s.GetGoalsForCategory(c.ID)
	if err != nil {
		t.Fatalf("GetGoalsForCategory() error = %v", err)
	}
	if len(goals) != 1 {
		t.Errorf("GetGoalsForCategory() returned %d goals, want 1", len(goals))
	}

	r := addRoutine(t, s, "r-1", "Stretch", nil, 5)
	if err := s.DeleteGoal(g.ID); err == nil || !strings.Contains(err.Error(), "still has routines") {
		t.Errorf("DeleteGoal() with routines error = %v", err)
	}

	// A goal whose routines are all soft-deleted can go, taking them along.
	if err := s.DeleteRoutine(r.ID); err != nil {
		t.Fatalf("DeleteRoutine() error = %v", err)
	}
	if err := s.DeleteGoal(g.ID); err != nil {
		t.Fatalf("DeleteGoal() error = %v", err)
	}
	if _, err := s.GetGoal(g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetGoal() after delete error = %v, want ErrNotFound", err)
	}
	all, err := s.GetAllRoutines(true)
	if err != nil {
		t.Fatalf("GetAllRoutines() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAllRoutines(true) after goal delete = %d routines, want 0", len(all))
	}
}

func testRoutines(t *testing.T, s storage.Provider) {
	seed(t, s)

	weekly := &models.Schedule{
		Frequency:    models.FrequencyWeekly,
		Enabled:      true,
		DaysOfWeek:   []calendar.WeekdayTag{calendar.Mon, calendar.Wed},
		ReminderTime: "07:30",
	}
	monthly := &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: false, DayOfMonth: intPtr(31)}

	addRoutine(t, s, "r-1", "Run", weekly, 5)
	addRoutine(t, s, "r-2", "Budget", monthly, 6)
	addRoutine(t, s, "r-3", "Think", nil, 7)

	tests := []struct {
		id   string
		want *models.Schedule
	}{
		{"r-1", weekly},
		{"r-2", monthly},
		{"r-3", nil},
	}
	for _, tt := range tests {
		got, err := s.GetRoutine(tt.id)
		if err != nil {
			t.Fatalf("GetRoutine(%s) error = %v", tt.id, err)
		}
		if !reflect.DeepEqual(got.Schedule, tt.want) {
			t.Errorf("GetRoutine(%s).Schedule = %+v, want %+v", tt.id, got.Schedule, tt.want)
		}
	}

	if err := s.AddRoutine(models.Routine{ID: "r-4", GoalID: "goal-1", Name: "Run", CreatedAt: at(8), UpdatedAt: at(8)}); err == nil {
		t.Error("AddRoutine() with duplicate name should fail")
	}
	if err := s.AddRoutine(models.Routine{ID: "r-5", GoalID: "missing", Name: "Lost", CreatedAt: at(8), UpdatedAt: at(8)}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddRoutine() with missing goal error = %v, want ErrNotFound", err)
	}

	r, err := s.GetRoutineByName("Think")
	if err != nil {
		t.Fatalf("GetRoutineByName() error = %v", err)
	}
	r.Schedule = &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}
	r.Description = "ten quiet minutes"
	r.UpdatedAt = at(9)
	if err := s.UpdateRoutine(r); err != nil {
		t.Fatalf("UpdateRoutine() error = %v", err)
	}
	updated, err := s.GetRoutine("r-3")
	if err != nil {
		t.Fatalf("GetRoutine() error = %v", err)
	}
	if updated.Description != "ten quiet minutes" || updated.Schedule == nil || updated.Schedule.Frequency != models.FrequencyDaily {
		t.Errorf("UpdateRoutine() did not persist: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(at(9)) || !updated.CreatedAt.Equal(at(7)) {
		t.Errorf("UpdateRoutine() timestamps = %v/%v", updated.CreatedAt, updated.UpdatedAt)
	}

	if err := s.UpdateRoutine(models.Routine{ID: "missing", GoalID: "goal-1", Name: "Nope"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateRoutine(missing) error = %v, want ErrNotFound", err)
	}

	forGoal, err := s.GetRoutinesForGoal("goal-1")
	if err != nil {
		t.Fatalf("GetRoutinesForGoal() error = %v", err)
	}
	names := make([]string, len(forGoal))
	for i, r := range forGoal {
		names[i] = r.Name
	}
	if !reflect.DeepEqual(names, []string{"Run", "Budget", "Think"}) {
		t.Errorf("GetRoutinesForGoal() = %v, want creation order", names)
	}
}

func testSoftDelete(t *testing.T, s storage.Provider) {
	seed(t, s)
	addRoutine(t, s, "r-1", "Run", nil, 5)
	addRoutine(t, s, "r-2", "Read", nil, 6)

	if err := s.DeleteRoutine("r-1"); err != nil {
		t.Fatalf("DeleteRoutine() error = %v", err)
	}
	if err := s.DeleteRoutine("r-1"); err == nil {
		t.Error("DeleteRoutine() twice should fail")
	}

	if _, err := s.GetRoutine("r-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetRoutine() of deleted routine error = %v, want ErrNotFound", err)
	}

	active, err := s.GetAllRoutines(false)
	if err != nil {
		t.Fatalf("GetAllRoutines(false) error = %v", err)
	}
	if len(active) != 1 || active[0].ID != "r-2" {
		t.Errorf("GetAllRoutines(false) = %+v, want only r-2", active)
	}

	all, err := s.GetAllRoutines(true)
	if err != nil {
		t.Fatalf("GetAllRoutines(true) error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAllRoutines(true) returned %d routines, want 2", len(all))
	}
	if all[0].DeletedAt == nil {
		t.Error("deleted routine should carry DeletedAt")
	}

	// The name is free again while the original is deleted.
	addRoutine(t, s, "r-3", "Run", nil, 7)
	if err := s.RestoreRoutine("r-1"); err == nil {
		t.Error("RestoreRoutine() should fail while the name is taken")
	}
	if err := s.DeleteRoutine("r-3"); err != nil {
		t.Fatalf("DeleteRoutine() error = %v", err)
	}

	if err := s.RestoreRoutine("r-1"); err != nil {
		t.Fatalf("RestoreRoutine() error = %v", err)
	}
	if err := s.RestoreRoutine("r-1"); err == nil {
		t.Error("RestoreRoutine() of active routine should fail")
	}
	restored, err := s.GetRoutine("r-1")
	if err != nil {
		t.Fatalf("GetRoutine() after restore error = %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("restored routine still has DeletedAt")
	}
}

func completion(id, routineID, day string, status models.CompletionStatus, minute int) models.CompletionRecord {
	c := models.CompletionRecord{
		ID:            id,
		RoutineID:     routineID,
		ScheduledDate: calendar.MustParse(day),
		Status:        status,
		CreatedAt:     at(minute),
		UpdatedAt:     at(minute),
	}
	if status == models.StatusCompleted {
		done := at(minute)
		c.CompletedAt = &done
	}
	return c
}

func testCompletions(t *testing.T, s storage.Provider) {
	seed(t, s)
	addRoutine(t, s, "r-1", "Run", nil, 5)
	addRoutine(t, s, "r-2", "Read", nil, 6)

	records := []models.CompletionRecord{
		completion("c-1", "r-1", "2024-03-01", models.StatusCompleted, 10),
		completion("c-2", "r-1", "2024-03-03", models.StatusSkipped, 11),
		completion("c-3", "r-1", "2024-03-02", models.StatusCompleted, 12),
		completion("c-4", "r-2", "2024-03-02", models.StatusPending, 13),
	}
	for _, c := range records {
		if err := s.SaveCompletion(c); err != nil {
			t.Fatalf("SaveCompletion(%s) error = %v", c.ID, err)
		}
	}

	got, err := s.GetCompletion("r-1", calendar.MustParse("2024-03-01"))
	if err != nil {
		t.Fatalf("GetCompletion() error = %v", err)
	}
	if got.ID != "c-1" || got.Status != models.StatusCompleted || got.CompletedAt == nil || !got.CompletedAt.Equal(at(10)) {
		t.Errorf("GetCompletion() = %+v", got)
	}
	if _, err := s.GetCompletion("r-1", calendar.MustParse("2024-02-01")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetCompletion(missing) error = %v, want ErrNotFound", err)
	}

	ids := func(rs []models.CompletionRecord) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	forRoutine, err := s.GetCompletionsForRoutine("r-1")
	if err != nil {
		t.Fatalf("GetCompletionsForRoutine() error = %v", err)
	}
	if want := []string{"c-2", "c-3", "c-1"}; !reflect.DeepEqual(ids(forRoutine), want) {
		t.Errorf("GetCompletionsForRoutine() = %v, want %v (most recent first)", ids(forRoutine), want)
	}

	forDay, err := s.GetCompletionsForDay(calendar.MustParse("2024-03-02"))
	if err != nil {
		t.Fatalf("GetCompletionsForDay() error = %v", err)
	}
	if want := []string{"c-3", "c-4"}; !reflect.DeepEqual(ids(forDay), want) {
		t.Errorf("GetCompletionsForDay() = %v, want %v", ids(forDay), want)
	}

	inRange, err := s.GetCompletionsInRange(calendar.MustParse("2024-03-02"), calendar.MustParse("2024-03-03"))
	if err != nil {
		t.Fatalf("GetCompletionsInRange() error = %v", err)
	}
	if want := []string{"c-2", "c-3", "c-4"}; !reflect.DeepEqual(ids(inRange), want) {
		t.Errorf("GetCompletionsInRange() = %v, want %v", ids(inRange), want)
	}

	if err := s.DeleteCompletion("c-2"); err != nil {
		t.Fatalf("DeleteCompletion() error = %v", err)
	}
	if err := s.DeleteCompletion("c-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteCompletion() twice error = %v, want ErrNotFound", err)
	}

	bad := completion("c-9", "r-1", "2024-03-05", models.CompletionStatus("maybe"), 20)
	if err := s.SaveCompletion(bad); err == nil {
		t.Error("SaveCompletion() with invalid status should fail")
	}
}

func testCompletionUpsert(t *testing.T, s storage.Provider) {
	seed(t, s)
	addRoutine(t, s, "r-1", "Run", nil, 5)

	first := completion("c-1", "r-1", "2024-03-01", models.StatusCompleted, 10)
	if err := s.SaveCompletion(first); err != nil {
		t.Fatalf("SaveCompletion() error = %v", err)
	}

	// Same routine and date under a new ID updates the existing record.
	second := completion("c-2", "r-1", "2024-03-01", models.StatusSkipped, 20)
	second.Note = "rain"
	if err := s.SaveCompletion(second); err != nil {
		t.Fatalf("SaveCompletion() upsert error = %v", err)
	}

	records, err := s.GetCompletionsForRoutine("r-1")
	if err != nil {
		t.Fatalf("GetCompletionsForRoutine() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record per routine and date, got %d", len(records))
	}
	got := records[0]
	if got.ID != "c-1" {
		t.Errorf("upsert changed ID to %s, want c-1", got.ID)
	}
	if got.Status != models.StatusSkipped || got.Note != "rain" || got.CompletedAt != nil {
		t.Errorf("upsert did not apply new state: %+v", got)
	}
	if !got.CreatedAt.Equal(at(10)) || !got.UpdatedAt.Equal(at(20)) {
		t.Errorf("upsert timestamps = %v/%v, want created %v updated %v", got.CreatedAt, got.UpdatedAt, at(10), at(20))
	}
}

func testListOrder(t *testing.T, s storage.Provider) {
	seed(t, s)
	for _, name := range []string{"Work", "Art"} {
		if err := s.AddCategory(models.Category{ID: "cat-" + strings.ToLower(name), Name: name, CreatedAt: at(0)}); err != nil {
			t.Fatalf("AddCategory(%s) error = %v", name, err)
		}
	}

	addRoutine(t, s, "r-c", "Walk", nil, 5)
	addRoutine(t, s, "r-a", "Read", nil, 5)
	addRoutine(t, s, "r-b", "Journal", nil, 5)
	deleted := at(6)
	old := models.Routine{ID: "r-0", GoalID: "goal-1", Name: "Read", CreatedAt: at(5), UpdatedAt: at(5), DeletedAt: &deleted}
	if err := s.AddRoutine(old); err != nil {
		t.Fatalf("AddRoutine(deleted) error = %v", err)
	}
	later := models.Routine{ID: "r-z", GoalID: "goal-1", Name: "Later", CreatedAt: at(5).Add(500 * time.Millisecond)}
	later.UpdatedAt = later.CreatedAt
	if err := s.AddRoutine(later); err != nil {
		t.Fatalf("AddRoutine(Later) error = %v", err)
	}

	want := []string{"r-b", "r-0", "r-a", "r-c", "r-z"}
	// Map-backed stores must not depend on iteration order.
	for i := 0; i < 10; i++ {
		routines, err := s.GetAllRoutines(true)
		if err != nil {
			t.Fatalf("GetAllRoutines() error = %v", err)
		}
		var got []string
		for _, r := range routines {
			got = append(got, r.ID)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("GetAllRoutines() order = %v, want %v", got, want)
		}
	}

	categories, err := s.GetAllCategories()
	if err != nil {
		t.Fatalf("GetAllCategories() error = %v", err)
	}
	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"Art", "Health", "Work"}) {
		t.Errorf("GetAllCategories() order = %v", names)
	}
}
