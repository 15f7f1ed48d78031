package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	received_at TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	client_hash TEXT
)`

// receivedLayout is fixed width so received_at sorts as text.
const receivedLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps contact records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("store: database path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// One connection keeps :memory: databases and writes consistent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createMessagesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create messages table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts rec.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, received_at, name, email, subject, message, client_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ReceivedAt.UTC().Format(receivedLayout), rec.Name, rec.Email, rec.Subject, rec.Message, rec.ClientHash)
	if err != nil {
		return fmt.Errorf("store: insert message: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, received_at, name, email, subject, message, COALESCE(client_hash, '')
		FROM messages
		ORDER BY received_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query messages: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var receivedAt string
		if err := rows.Scan(&rec.ID, &receivedAt, &rec.Name, &rec.Email, &rec.Subject, &rec.Message, &rec.ClientHash); err != nil {
			return nil, fmt.Errorf("store: scan message: %w", err)
		}
		rec.ReceivedAt, err = time.Parse(receivedLayout, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("store: parse received_at: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
