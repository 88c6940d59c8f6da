// Package sqlite persists user preferences in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

const keyColorblind = "colorblindMode"

const schema = `CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// PreferenceStore implements domain.PreferenceStore.
type PreferenceStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the preference database at path.
func Open(ctx context.Context, path string) (*PreferenceStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	// Single connection: no SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	return &PreferenceStore{db: db}, nil
}

// LoadColorblind returns the saved flag, or false when nothing was saved.
func (s *PreferenceStore) LoadColorblind(ctx context.Context) (bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", keyColorblind).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", keyColorblind, err)
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("load %s: stored value %q: %w", keyColorblind, v, err)
	}
	return on, nil
}

// SaveColorblind stores the flag.
func (s *PreferenceStore) SaveColorblind(ctx context.Context, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO preferences (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		keyColorblind, strconv.FormatBool(enabled))
	if err != nil {
		return fmt.Errorf("save %s: %w", keyColorblind, err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *PreferenceStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *PreferenceStore) Close() error {
	return s.db.Close()
}
