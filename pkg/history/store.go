// Package history keeps a local journal of transfer attempts in a
// SQLite database, so the CLI can answer "what did I upload and did
// it work" without asking the server.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Direction distinguishes uploads from downloads in the journal.
type Direction string

const (
	DirectionUpload   Direction = "upload"
	DirectionDownload Direction = "download"
)

// Entry is one recorded transfer attempt.
type Entry struct {
	ID          string
	Direction   Direction
	Service     string
	RemotePath  string
	LocalPath   string
	Size        int64
	Status      string
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS transfers (
	id           TEXT PRIMARY KEY,
	direction    TEXT NOT NULL,
	service      TEXT NOT NULL,
	remote_path  TEXT NOT NULL,
	local_path   TEXT NOT NULL,
	size         INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	started_at   TIMESTAMP NOT NULL,
	completed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transfers_started_at ON transfers(started_at);
`

// Store is a SQLite-backed transfer journal.
type Store struct {
	db *sql.DB
}

// Open creates or opens the journal at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record writes one transfer attempt. A missing ID is filled with a
// fresh UUID, which is also returned.
func (s *Store) Record(ctx context.Context, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transfers (id, direction, service, remote_path, local_path, size, status, error, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Direction), entry.Service, entry.RemotePath,
		entry.LocalPath, entry.Size, entry.Status, entry.Error,
		entry.StartedAt, entry.CompletedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record transfer: %w", err)
	}

	return entry.ID, nil
}

// Recent returns the latest transfers, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, direction, service, remote_path, local_path, size, status, error, started_at, completed_at
		 FROM transfers ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var direction string
		if err := rows.Scan(&entry.ID, &direction, &entry.Service, &entry.RemotePath,
			&entry.LocalPath, &entry.Size, &entry.Status, &entry.Error,
			&entry.StartedAt, &entry.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entry.Direction = Direction(direction)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Prune deletes entries older than the cutoff and reports how many
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transfers WHERE started_at < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	return result.RowsAffected()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
