// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     store
// Description: SQLite persistence for calculation history and preferences
// Author:      msto63
// Created:     2025-10-19
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements history.Store and session.PreferenceStore
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	path   string
	logger *logging.Logger
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/rechenwerk.db",
	}
}

// Open creates or opens the database at cfg.Path
func Open(cfg Config) (*SQLiteStore, error) {
	dsn := MemoryPath
	if cfg.Path != MemoryPath {
		// Ensure directory exists
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.StoreFailure("store.open", err).WithDetail("path", cfg.Path)
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.StoreFailure("store.open", err).WithDetail("path", cfg.Path)
	}
	if cfg.Path == MemoryPath {
		// every pooled connection would otherwise see its own database
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{
		db:     db,
		path:   cfg.Path,
		logger: logging.New("store"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.StoreFailure("store.init_schema", err)
	}

	s.logger.Debug("store opened", "path", cfg.Path)
	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- History, newest row has the highest seq
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		expression TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Preferences
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database path
func (s *SQLiteStore) Path() string {
	return s.path
}

// Append stores one history entry
func (s *SQLiteStore) Append(ctx context.Context, e history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		return errors.InvalidInput(errors.ModuleStore, "append", e.ID, "entry id")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, expression, result, created_at)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.Expression, e.Result, e.Timestamp.UTC())
	if err != nil {
		return errors.StoreFailure("store.append", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit below one
// returns all entries.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expression, result, created_at
		FROM history ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.StoreFailure("store.list", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.ID, &e.Expression, &e.Result, &e.Timestamp); err != nil {
			return nil, errors.StoreFailure("store.list", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreFailure("store.list", err)
	}
	return entries, nil
}

// Trim keeps the newest keep entries
func (s *SQLiteStore) Trim(ctx context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)
	`, keep)
	if err != nil {
		return errors.StoreFailure("store.trim", err)
	}
	return nil
}

// Clear removes all history entries
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return errors.StoreFailure("store.clear", err)
	}
	return nil
}

// GetPreference returns a stored preference
func (s *SQLiteStore) GetPreference(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, errors.StoreFailure("store.get_preference", err)
	}
	return value, true, nil
}

// SetPreference stores a preference, replacing an older value
func (s *SQLiteStore) SetPreference(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key == "" {
		return errors.InvalidInput(errors.ModuleStore, "set_preference", key, "preference key")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return errors.StoreFailure("store.set_preference", err)
	}
	return nil
}

// Ping checks that the database answers
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return mdwerror.Wrap(err, "database not reachable").
			WithCode(mdwerror.CodeConnectionFailed).
			WithOperation("store.ping")
	}
	return nil
}

// Statistics returns store statistics
func (s *SQLiteStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var entries int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&entries); err != nil {
		return nil, errors.StoreFailure("store.statistics", err)
	}
	stats["history_entries"] = entries

	var prefs int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM preferences`).Scan(&prefs); err != nil {
		return nil, errors.StoreFailure("store.statistics", err)
	}
	stats["preferences"] = prefs
	stats["path"] = s.path

	return stats, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
