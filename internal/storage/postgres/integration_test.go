package postgres

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/julianstephens/routinely/internal/constants"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/storage/storagetest"
)

// TestStoreConformance runs against a real database and drops the app schema
// before each case. Set ROUTINELY_TEST_POSTGRES_URL to enable it, e.g.
// ROUTINELY_TEST_POSTGRES_URL="postgres://routinely@localhost:5432/routinely_test?sslmode=disable"
func TestStoreConformance(t *testing.T) {
	connStr := os.Getenv("ROUTINELY_TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("ROUTINELY_TEST_POSTGRES_URL not set, skipping PostgreSQL integration test")
	}

	storagetest.Run(t, func(t *testing.T) storage.Provider {
		db, err := sql.Open("postgres", connStr)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.Exec("DROP SCHEMA IF EXISTS " + constants.AppName + " CASCADE"); err != nil {
			db.Close()
			t.Fatalf("failed to reset schema: %v", err)
		}
		db.Close()

		s := New(connStr)
		if err := s.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		return s
	})
}
