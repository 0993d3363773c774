package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	sqlitevec "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/kittclouds/parsekit/pkg/template"
	"github.com/kittclouds/parsekit/pkg/vector"
)

// SQLiteStore is the SQLite-backed template store.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema keeps every version of a template; is_current marks the live row.
const schema = `
CREATE TABLE IF NOT EXISTS templates (
    id TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    pattern TEXT NOT NULL,
    template TEXT NOT NULL,
    score REAL NOT NULL DEFAULT 0,
    provenance TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    is_current INTEGER DEFAULT 1,
    PRIMARY KEY (id, version)
);

CREATE INDEX IF NOT EXISTS idx_templates_current ON templates(id) WHERE is_current = 1;
CREATE INDEX IF NOT EXISTS idx_templates_provenance ON templates(provenance) WHERE is_current = 1;
`

// vecSchema holds one pattern embedding per template id, current version only.
var vecSchema = fmt.Sprintf(`
CREATE VIRTUAL TABLE IF NOT EXISTS template_vectors USING vec0(
    embedding float[%d],
    template_id TEXT
);
`, vector.DefaultDimension)

const templateColumns = `id, version, pattern, template, score, provenance, created_at, updated_at`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// each :memory: connection is its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(vecSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vector table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Template CRUD
// =============================================================================

// Put inserts version 1 of a new template, or retires the current row and
// inserts the next version, keeping the original created_at.
func (s *SQLiteStore) Put(t *Template) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(t)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentVersion int
	var createdAt int64
	err = tx.QueryRow(`
		SELECT version, created_at FROM templates
		WHERE id = ? AND is_current = 1
	`, t.ID).Scan(&currentVersion, &createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		t.Version = 1
	case err != nil:
		return err
	default:
		if _, err := tx.Exec(`UPDATE templates SET is_current = 0 WHERE id = ? AND is_current = 1`, t.ID); err != nil {
			return err
		}
		t.Version = currentVersion + 1
		t.CreatedAt = createdAt
	}

	_, err = tx.Exec(`
		INSERT INTO templates (`+templateColumns+`, is_current)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, t.ID, t.Version, t.Pattern, t.Template, t.Score, t.Provenance, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}

	blob, err := sqlitevec.SerializeFloat32(vector.Embed(patternWords(t.Pattern), vector.DefaultDimension))
	if err != nil {
		return fmt.Errorf("failed to serialize embedding: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM template_vectors WHERE template_id = ?`, t.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO template_vectors (embedding, template_id) VALUES (?, ?)`, blob, t.ID); err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	return tx.Commit()
}

// patternWords returns the literal words of a pattern. A pattern that does not
// compile contributes none, so it still gets an embedding.
func patternWords(pattern string) []string {
	contents, err := template.NewCompiler().Pattern(pattern)
	if err != nil {
		return nil
	}
	return vector.PatternWords(contents)
}

// Get retrieves the current version of a template by ID.
func (s *SQLiteStore) Get(id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ? AND is_current = 1`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes all versions of a template.
func (s *SQLiteStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM templates WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM template_vectors WHERE template_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Similar returns up to k current templates ranked by the cosine distance
// between their pattern embedding and the embedding of words, nearest first.
func (s *SQLiteStore) Similar(words []string, k int) ([]*Template, error) {
	if k <= 0 {
		return nil, nil
	}
	blob, err := sqlitevec.SerializeFloat32(vector.Embed(words, vector.DefaultDimension))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize query: %w", err)
	}
	return s.query(`SELECT t.id, t.version, t.pattern, t.template, t.score, t.provenance, t.created_at, t.updated_at
		FROM template_vectors v
		JOIN templates t ON t.id = v.template_id AND t.is_current = 1
		ORDER BY vec_distance_cosine(v.embedding, ?), t.id
		LIMIT ?`, blob, k)
}

// All returns the current version of every template, oldest first.
func (s *SQLiteStore) All() ([]*Template, error) {
	return s.query(`SELECT `+templateColumns+` FROM templates
		WHERE is_current = 1 ORDER BY created_at, id`)
}

// ListByProvenance returns current templates with the given provenance.
func (s *SQLiteStore) ListByProvenance(provenance string) ([]*Template, error) {
	return s.query(`SELECT `+templateColumns+` FROM templates
		WHERE is_current = 1 AND provenance = ? ORDER BY created_at, id`, provenance)
}

// History returns every version of a template, newest first.
func (s *SQLiteStore) History(id string) ([]*Template, error) {
	return s.query(`SELECT `+templateColumns+` FROM templates
		WHERE id = ? ORDER BY version DESC`, id)
}

// Count returns the number of live templates.
func (s *SQLiteStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM templates WHERE is_current = 1").Scan(&count)
	return count, err
}

func (s *SQLiteStore) query(q string, args ...any) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*Template, error) {
	var t Template
	var provenance sql.NullString
	if err := row.Scan(&t.ID, &t.Version, &t.Pattern, &t.Template, &t.Score,
		&provenance, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Provenance = provenance.String
	return &t, nil
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)
