package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hydromon/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx, so the
// same store code works inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time assertion that PostgresStore implements types.DocumentStore.
var _ types.DocumentStore = (*PostgresStore)(nil)

// PostgresStore is a DocumentStore backed by a Postgres documents table with
// a JSONB body column. Intended for deployments where the engine runs behind
// a shared database rather than a local file.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a PostgresStore over an existing pool or
// transaction. The schema is managed by EnsureSchema.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Connect creates a pgx pool for the given URL, verifies connectivity, and
// ensures the documents table exists.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, *PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: failed to create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("storage: failed to ping postgres: %w", err)
	}

	store := NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, store, nil
}

// EnsureSchema creates the documents table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			name       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("storage: failed to ensure documents table: %w", err)
	}
	return nil
}

// Load returns the document body and whether it exists.
func (s *PostgresStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRow(ctx,
		`SELECT body FROM documents WHERE name = $1`, name,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: failed to load document %s: %w", name, err)
	}
	return body, true, nil
}

// Save upserts the document body.
func (s *PostgresStore) Save(ctx context.Context, name string, body []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at`,
		name, body,
	)
	if err != nil {
		return fmt.Errorf("storage: failed to save document %s: %w", name, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is a no-op.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM documents WHERE name = $1`, name); err != nil {
		return fmt.Errorf("storage: failed to delete document %s: %w", name, err)
	}
	return nil
}
