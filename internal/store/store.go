// Package store is the durable client-side cache. It holds only what
// survives a restart: the auth token, under a fixed key.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// TokenKey is the fixed cache key for the auth token.
const TokenKey = "token"

// Store is a small key-value cache backed by SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the cache database at path.
// Use ":memory:" for an ephemeral cache in tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping cache: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS cache (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Get returns the value for key, or "" when the key is absent.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value. Concurrent
// writers race last-writer-wins; there is no change notification.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO cache (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM cache WHERE key = ?`, key)
	return err
}
