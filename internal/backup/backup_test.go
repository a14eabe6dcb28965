package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func createTestDB(t *testing.T, path, value string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS marker (value TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("DELETE FROM marker"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO marker (value) VALUES (?)", value); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
}

func readMarker(t *testing.T, path string) string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var v string
	if err := db.QueryRow("SELECT value FROM marker").Scan(&v); err != nil {
		t.Fatalf("failed to read marker: %v", err)
	}
	return v
}

// fixedClock returns successive times one minute apart starting at start.
func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "routinely.db")
	createTestDB(t, dbPath, "original")
	m := NewManager(dbPath)
	m.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))
	return m, dbPath
}

func TestCreate(t *testing.T) {
	m, _ := newTestManager(t)

	path, err := m.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Base(path) != "routinely-20240301-0800.db" {
		t.Errorf("backup name = %s", filepath.Base(path))
	}
	if got := readMarker(t, path); got != "original" {
		t.Errorf("backup content = %q, want original", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.Create(); err == nil {
		t.Error("Create() without a database should fail")
	}
}

func TestCreateSameMinute(t *testing.T) {
	m, _ := newTestManager(t)
	m.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 30, 0, time.Local) }

	names := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := m.Create()
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		names[filepath.Base(path)] = true
	}
	for _, want := range []string{"routinely-20240301-0800.db", "routinely-20240301-080030.db", "routinely-20240301-080030-1.db"} {
		if !names[want] {
			t.Errorf("missing backup %s in %v", want, names)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Errorf("List() returned %d backups, want 3", len(backups))
	}
}

func TestListOrderAndFiltering(t *testing.T) {
	m, _ := newTestManager(t)
	for i := 0; i < 3; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.Dir(), "routinely-garbage.db"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() returned %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Errorf("backups not newest first: %v then %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
	if backups[0].Size == 0 {
		t.Error("backup size should be recorded")
	}
}

func TestListWithoutDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "routinely.db"))
	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want none", backups)
	}
}

func TestRotation(t *testing.T) {
	m, _ := newTestManager(t)
	m.keep = 3

	for i := 0; i < 5; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("after rotation got %d backups, want 3", len(backups))
	}
	if got := filepath.Base(backups[len(backups)-1].Path); got != "routinely-20240301-0802.db" {
		t.Errorf("oldest kept backup = %s, want routinely-20240301-0802.db", got)
	}
}

func TestRestore(t *testing.T) {
	m, dbPath := newTestManager(t)

	saved, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	createTestDB(t, dbPath, "changed")

	previous, err := m.Restore(saved)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := readMarker(t, dbPath); got != "original" {
		t.Errorf("restored content = %q, want original", got)
	}
	if previous == "" {
		t.Fatal("Restore() should back up the current database first")
	}
	if got := readMarker(t, previous); got != "changed" {
		t.Errorf("pre-restore backup content = %q, want changed", got)
	}
}

func TestRestoreInvalid(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Restore() of a missing file should fail")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, padded to look like a header......"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Restore(bogus); err == nil {
		t.Error("Restore() of a non-database file should fail")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"routinely-20240301-0800.db", true},
		{"routinely-20240301-080030.db", true},
		{"routinely-20240301-080030-2.db", true},
		{"routinely-20240301.db", false},
		{"other-20240301-0800.db", false},
		{"routinely-20240301-0800.json", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
