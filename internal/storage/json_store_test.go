package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/storage/storagetest"
)

func TestJSONStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		s := storage.NewJSONStore(filepath.Join(t.TempDir(), "routinely.json"))
		if err := s.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		return s
	})
}

func TestJSONStoreInitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routinely.json")
	if err := storage.NewJSONStore(path).Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := storage.NewJSONStore(path).Init(); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second Init() error = %v, want already initialized", err)
	}
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want init hint", err)
	}
	if _, err := s.GetAllRoutines(false); err == nil {
		t.Error("queries before Load() should fail")
	}
}

func TestJSONStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routinely.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := storage.NewJSONStore(path).Load(); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Load() error = %v, want parse failure", err)
	}
}

func TestJSONStorePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routinely.json")
	s := storage.NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	day := 15
	steps := []error{
		s.AddCategory(models.Category{ID: "c", Name: "Home", CreatedAt: created}),
		s.AddGoal(models.Goal{ID: "g", CategoryID: "c", Name: "Tidy", CreatedAt: created}),
		s.AddRoutine(models.Routine{
			ID: "r", GoalID: "g", Name: "Bills", CreatedAt: created, UpdatedAt: created,
			Schedule: &models.Schedule{Frequency: models.FrequencyMonthly, Enabled: true, DayOfMonth: &day},
		}),
		s.SaveCompletion(models.CompletionRecord{
			ID: "x", RoutineID: "r", ScheduledDate: calendar.MustParse("2024-01-15"),
			Status: models.StatusCompleted, CompletedAt: &created, CreatedAt: created, UpdatedAt: created,
		}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"scheduled_date": "2024-01-15"`) {
		t.Errorf("dates should persist as YYYY-MM-DD keys, got:\n%s", data)
	}

	reloaded := storage.NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	r, err := reloaded.GetRoutineByName("Bills")
	if err != nil {
		t.Fatalf("GetRoutineByName() error = %v", err)
	}
	if r.Schedule == nil || r.Schedule.DayOfMonth == nil || *r.Schedule.DayOfMonth != 15 {
		t.Errorf("schedule not persisted: %+v", r.Schedule)
	}
	c, err := reloaded.GetCompletion("r", calendar.MustParse("2024-01-15"))
	if err != nil {
		t.Fatalf("GetCompletion() error = %v", err)
	}
	if c.Status != models.StatusCompleted {
		t.Errorf("completion status = %s, want completed", c.Status)
	}
}
