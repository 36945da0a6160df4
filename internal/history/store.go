// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed rename operations in a SQLite database
// so past runs can be reviewed.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/namingpaper/pkg/types"
)

const dbFile = "history.db"

// DefaultDir returns the default history location, ~/.namingpaper.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".namingpaper"
	}
	return filepath.Join(home, ".namingpaper")
}

// Entry is one recorded rename or copy.
type Entry struct {
	ID          int64
	Source      string
	Destination string
	Mode        string // "rename" or "copy"
	Title       string
	Year        int
	ExecutedAt  time.Time
}

// Store manages the rename history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			mode TEXT NOT NULL,
			title TEXT,
			year INTEGER,
			executed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_executed_at ON operations(executed_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one completed operation. Mode is "rename" or "copy".
func (s *Store) Record(op types.RenameOperation, mode string) error {
	_, err := s.db.Exec(
		`INSERT INTO operations (source, destination, mode, title, year, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		op.Source, op.Destination, mode,
		op.Metadata.Title, op.Metadata.Year,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording operation: %w", err)
	}
	return nil
}

// Recent returns up to limit operations, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, source, destination, mode, title, year, executed_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var executedAt string
		if err := rows.Scan(&e.ID, &e.Source, &e.Destination, &e.Mode, &e.Title, &e.Year, &executedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, executedAt); err == nil {
			e.ExecutedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
