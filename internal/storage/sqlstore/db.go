// Package sqlstore implements storage.Provider queries on top of database/sql.
// The sqlite and postgres packages own connection setup and embed a DB.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/migration"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/migrations"
)

var errNotLoaded = errors.New("storage not loaded")

// DB runs the shared queries against an open connection.
type DB struct {
	db      *sql.DB
	dialect migration.Dialect
}

func New(db *sql.DB, dialect migration.Dialect) DB {
	return DB{db: db, dialect: dialect}
}

// Conn returns the underlying connection, or nil before Init/Load.
func (d *DB) Conn() *sql.DB {
	return d.db
}

func (d *DB) ready() error {
	if d.db == nil {
		return errNotLoaded
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (d *DB) rebind(query string) string {
	if d.dialect != migration.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) exec(query string, args ...any) (sql.Result, error) {
	return d.db.Exec(d.rebind(query), args...)
}

func (d *DB) query(query string, args ...any) (*sql.Rows, error) {
	return d.db.Query(d.rebind(query), args...)
}

func (d *DB) queryRow(query string, args ...any) *sql.Row {
	return d.db.QueryRow(d.rebind(query), args...)
}

func (d *DB) migrationRunner() (*migration.Runner, error) {
	dir := "sqlite"
	if d.dialect == migration.Postgres {
		dir = "postgres"
	}
	subFS, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", dir, err)
	}
	return migration.NewRunner(d.db, subFS, d.dialect), nil
}

// Migrate applies all pending embedded migrations.
func (d *DB) Migrate() error {
	runner, err := d.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// ValidateSchema fails if the database schema does not match the embedded migrations.
func (d *DB) ValidateSchema() error {
	runner, err := d.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// exists reports whether query returns at least one row.
func (d *DB) exists(query string, args ...any) (bool, error) {
	var one int
	err := d.queryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return err
}

// storedTimeFormat is fixed width so text order matches time order.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeFormat)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(field string, value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := parseTime(field, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func notFoundID(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}
