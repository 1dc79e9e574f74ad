package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"hydromon/internal/types"
)

// Compile-time assertion that SQLiteStore implements types.DocumentStore.
var _ types.DocumentStore = (*SQLiteStore)(nil)

// SQLiteStore is the default embedded DocumentStore, backed by a single
// documents table in a local SQLite database. The modernc.org driver is pure
// Go, so no cgo toolchain is required.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);`

// NewSQLiteStore opens (creating if necessary) the SQLite database at path
// and ensures the documents table exists. WAL mode keeps concurrent reads
// cheap during writes.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open sqlite database %s: %w", path, err)
	}

	// A single writer avoids SQLITE_BUSY churn under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: failed to ensure documents table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the document body and whether it exists.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, name,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: failed to load document %s: %w", name, err)
	}
	return body, true, nil
}

// Save upserts the document body in a single statement, so readers never
// observe a partial write.
func (s *SQLiteStore) Save(ctx context.Context, name string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		name, body,
	)
	if err != nil {
		return fmt.Errorf("storage: failed to save document %s: %w", name, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("storage: failed to delete document %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
