// Package store provides the SQLite-backed operational store for Machuni:
// the embedding-model registry that binds each Qdrant collection to the
// model that produced its vectors, and the answer log used for reviewing
// what users ask and how the assistant resolved it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// ErrModelMismatch is returned by BindEmbeddingModel when the collection was
// ingested with a different embedding model than the one now configured.
var ErrModelMismatch = errors.New("store: embedding model mismatch")

// Binding records which embedding model produced a collection's vectors.
type Binding struct {
	// Collection is the Qdrant collection name.
	Collection string
	// Model is the embedding model name.
	Model string
	// Dimensions is the vector size.
	Dimensions int
	// CreatedAt is when the binding was first recorded.
	CreatedAt time.Time
}

// AnswerRecord is one logged question/answer exchange.
type AnswerRecord struct {
	ID         int64
	Question   string
	Language   string
	Outcome    string
	DurationMS int64
	CreatedAt  time.Time
}

// SQLiteStore is the operational store backed by a local SQLite database.
type SQLiteStore struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the operational database.
// It resolves to ~/.machuni/machuni.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".machuni")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "machuni.db"), nil
}

// Open opens (or creates) a SQLiteStore at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS collections (
    name            TEXT    PRIMARY KEY,
    embedding_model TEXT    NOT NULL,
    dimensions      INTEGER NOT NULL,
    created_at      INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE TABLE IF NOT EXISTS answers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    question    TEXT    NOT NULL,
    language    TEXT    NOT NULL,
    outcome     TEXT    NOT NULL CHECK(outcome IN ('answered','not_found','unavailable')),
    duration_ms INTEGER NOT NULL,
    created_at  INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_answers_created
    ON answers (created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// BindEmbeddingModel records which embedding model a collection is built
// with, or verifies the existing binding. Mixing embedding models within one
// collection silently corrupts similarity search, so a mismatch is refused
// with ErrModelMismatch — the operator must either switch back to the bound
// model or rebuild the collection under the new one.
func (s *SQLiteStore) BindEmbeddingModel(ctx context.Context, collection, model string, dimensions int) error {
	const sel = `SELECT embedding_model, dimensions FROM collections WHERE name = ?`

	var boundModel string
	var boundDims int
	err := s.db.QueryRowContext(ctx, sel, collection).Scan(&boundModel, &boundDims)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		const ins = `INSERT INTO collections (name, embedding_model, dimensions, created_at) VALUES (?, ?, ?, ?)`
		if _, err := s.db.ExecContext(ctx, ins, collection, model, dimensions, time.Now().Unix()); err != nil {
			return fmt.Errorf("store: bind embedding model: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("store: bind embedding model: %w", err)
	}

	if boundModel != model || boundDims != dimensions {
		return fmt.Errorf("%w: collection %q was ingested with %s (%d dims) but the configured model is %s (%d dims) — "+
			"set EMBEDDING_MODEL back, or drop and re-ingest the collection",
			ErrModelMismatch, collection, boundModel, boundDims, model, dimensions)
	}
	return nil
}

// Bindings returns every recorded collection binding.
func (s *SQLiteStore) Bindings(ctx context.Context) ([]Binding, error) {
	const q = `SELECT name, embedding_model, dimensions, created_at FROM collections ORDER BY name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: bindings: %w", err)
	}
	defer rows.Close()

	var out []Binding
	for rows.Next() {
		var b Binding
		var ts int64
		if err := rows.Scan(&b.Collection, &b.Model, &b.Dimensions, &ts); err != nil {
			return nil, fmt.Errorf("store: bindings scan: %w", err)
		}
		b.CreatedAt = time.Unix(ts, 0)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: bindings rows: %w", err)
	}
	return out, nil
}

// LogAnswer persists one question/answer exchange. Answer text itself is not
// stored — only the question, the outcome, and the latency.
func (s *SQLiteStore) LogAnswer(ctx context.Context, question, language, outcome string, duration time.Duration) error {
	const q = `INSERT INTO answers (question, language, outcome, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, question, language, outcome, duration.Milliseconds(), time.Now().Unix()); err != nil {
		return fmt.Errorf("store: log answer: %w", err)
	}
	return nil
}

// RecentAnswers returns the most recent n answer records, newest first.
func (s *SQLiteStore) RecentAnswers(ctx context.Context, n int) ([]AnswerRecord, error) {
	const q = `
SELECT id, question, language, outcome, duration_ms, created_at
FROM   answers
ORDER  BY created_at DESC, id DESC
LIMIT  ?`

	rows, err := s.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("store: recent answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var r AnswerRecord
		var ts int64
		if err := rows.Scan(&r.ID, &r.Question, &r.Language, &r.Outcome, &r.DurationMS, &ts); err != nil {
			return nil, fmt.Errorf("store: recent answers scan: %w", err)
		}
		r.CreatedAt = time.Unix(ts, 0)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: recent answers rows: %w", err)
	}
	return out, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
