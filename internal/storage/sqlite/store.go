package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/migration"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/storage/sqlstore"
)

// Store is a storage.Provider backed by a local SQLite file.
type Store struct {
	sqlstore.DB
	path string
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) dsn() string {
	return s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.DB = sqlstore.New(db, migration.SQLite)
	return nil
}

func (s *Store) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.Conn() == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Initialized SQLite store", "path", s.path)
	return nil
}

func (s *Store) Load() error {
	if s.Conn() != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	// Validate schema version using embedded migrations
	if err := s.ValidateSchema(); err != nil {
		return err
	}

	logger.Debug("Loaded SQLite store", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	if db := s.Conn(); db != nil {
		err := db.Close()
		s.DB = sqlstore.DB{}
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}
