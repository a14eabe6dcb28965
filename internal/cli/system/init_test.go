package system

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/routinely/internal/calendar"
	"github.com/julianstephens/routinely/internal/cli"
	"github.com/julianstephens/routinely/internal/models"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/storage/sqlite"
)

func storeContext(store storage.Provider) (*cli.Context, *bytes.Buffer) {
	ctx := cli.NewContext(store)
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func seedJSON(t *testing.T, path string) {
	t.Helper()
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)
	steps := []error{
		store.AddCategory(models.Category{ID: "c1", Name: "Health", CreatedAt: created}),
		store.AddGoal(models.Goal{ID: "g1", CategoryID: "c1", Name: "Fitness", CreatedAt: created}),
		store.AddRoutine(models.Routine{ID: "r1", GoalID: "g1", Name: "Run", CreatedAt: created, UpdatedAt: created,
			Schedule: &models.Schedule{Frequency: models.FrequencyDaily, Enabled: true}}),
		store.AddRoutine(models.Routine{ID: "r0", GoalID: "g1", Name: "Run", CreatedAt: created, UpdatedAt: created, DeletedAt: &deleted}),
		store.SaveCompletion(models.CompletionRecord{ID: "x1", RoutineID: "r1", ScheduledDate: calendar.MustParse("2024-01-02"),
			Status: models.StatusCompleted, CreatedAt: created, UpdatedAt: created}),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routinely.db")
	store := sqlite.NewStore(path)
	defer store.Close()
	ctx, out := storeContext(store)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Initialized routinely storage at: "+path) {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestInitCmdCopiesSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "old.json")
	seedJSON(t, source)

	store := sqlite.NewStore(filepath.Join(dir, "routinely.db"))
	defer store.Close()
	ctx, out := storeContext(store)

	if err := (&InitCmd{Source: source}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"Migrated 1 categories", "Migrated 1 goals", "Migrated 2 routines", "Migrated 1 completions"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	r, err := store.GetRoutineByName("Run")
	if err != nil || r.ID != "r1" {
		t.Fatalf("GetRoutineByName() = %+v, %v", r, err)
	}
	rec, err := store.GetCompletion("r1", calendar.MustParse("2024-01-02"))
	if err != nil || rec.Status != models.StatusCompleted {
		t.Errorf("GetCompletion() = %+v, %v", rec, err)
	}
	all, err := store.GetAllRoutines(true)
	if err != nil || len(all) != 2 {
		t.Errorf("GetAllRoutines(true) = %d routines, %v; want 2", len(all), err)
	}
}

func TestInitCmdForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routinely.json")
	seedJSON(t, path)

	store := storage.NewJSONStore(path)
	ctx, out := storeContext(store)
	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Fatal("Init over an existing JSON file should fail without --force")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("Run() with --force error = %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("unexpected output: %s", out.String())
	}
	cats, err := store.GetAllCategories()
	if err != nil || len(cats) != 0 {
		t.Errorf("categories after reset = %d, %v; want 0", len(cats), err)
	}
}

func TestInitCmdForceSameSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routinely.json")
	ctx, _ := storeContext(storage.NewJSONStore(path))

	if err := (&InitCmd{Force: true, Source: path}).Run(ctx); err == nil {
		t.Error("--force with the destination as source should fail")
	}
}

func TestMigrateCmd(t *testing.T) {
	dir := t.TempDir()

	ctx, out := storeContext(storage.NewJSONStore(filepath.Join(dir, "routinely.json")))
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Nothing to migrate") {
		t.Errorf("unexpected output: %s", out.String())
	}

	path := filepath.Join(dir, "routinely.db")
	ctx, out = storeContext(sqlite.NewStore(path))
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("unexpected output: %s", out.String())
	}

	reopened := sqlite.NewStore(path)
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Errorf("Load() after migrate error = %v", err)
	}
}
