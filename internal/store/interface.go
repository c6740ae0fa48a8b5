package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DocStore is the document-database boundary: key-addressed collections of
// JSON documents plus a transactional per-key counter for UID minting.
// Merge replaces the supplied top-level fields and leaves the rest untouched.
type DocStore interface {
	Close() error
	ApplyMigrations(dir string) error

	Get(collection, id string) (*Document, error)
	Add(collection string, data json.RawMessage) (*Document, error)
	Merge(collection, id string, patch json.RawMessage) error
	Delete(collection, id string) error
	Query(collection string, q Query) ([]Document, error)
	Count(collection string) (int64, error)

	// NextSeq atomically increments the counter for (kind, year), creating it
	// at 1 on first use, and returns the new value. Two concurrent calls can
	// never observe the same value.
	NextSeq(kind, year string) (int64, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB *sqlx.DB
	// Converter rewrites ? placeholders into the dialect's form.
	Converter func(string) string
	// JSONText renders an expression extracting a top-level JSON field as text.
	JSONText func(field string) string
	// Classify maps driver errors onto the store taxonomy (ErrTransient etc.).
	Classify func(error) error
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) Get(collection, id string) (*Document, error) {
	var doc Document
	query := s.Converter(`
		SELECT id, data, created_at
		FROM documents
		WHERE collection = ?
		AND id = ?
	`)

	err := s.DB.Get(&doc, query, collection, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, s.fail("get", collection, err)
	}
	return &doc, nil
}

func (s *BaseStore) Add(collection string, data json.RawMessage) (*Document, error) {
	doc := Document{
		ID:        uuid.NewString(),
		Data:      data,
		CreatedAt: time.Now().Unix(),
	}

	query := s.Converter(`
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := s.DB.Exec(query, collection, doc.ID, []byte(doc.Data), doc.CreatedAt, doc.CreatedAt); err != nil {
		return nil, s.fail("add", collection, err)
	}
	return &doc, nil
}

func (s *BaseStore) Delete(collection, id string) error {
	query := s.Converter(`
		DELETE FROM documents
		WHERE collection = ?
		AND id = ?
	`)
	res, err := s.DB.Exec(query, collection, id)
	if err != nil {
		return s.fail("delete", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail("delete", collection, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *BaseStore) Query(collection string, q Query) ([]Document, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, data, created_at
		FROM documents
		WHERE collection = ?
	`)
	args := []interface{}{collection}

	for _, f := range q.Filters {
		fmt.Fprintf(&sb, " AND %s = ?", s.JSONText(f.Field))
		args = append(args, f.Value)
	}

	order := "created_at"
	if q.OrderBy != "" {
		order = s.JSONText(q.OrderBy)
	}
	fmt.Fprintf(&sb, " ORDER BY %s", order)
	if q.Desc {
		sb.WriteString(" DESC")
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	var docs []Document
	if err := s.DB.Select(&docs, s.Converter(sb.String()), args...); err != nil {
		return nil, s.fail("query", collection, err)
	}
	return docs, nil
}

func (s *BaseStore) Count(collection string) (int64, error) {
	var n int64
	query := s.Converter(`SELECT COUNT(*) FROM documents WHERE collection = ?`)
	if err := s.DB.Get(&n, query, collection); err != nil {
		return 0, s.fail("count", collection, err)
	}
	return n, nil
}

// NextSeq upserts the counter row in a single statement so the
// increment-and-read is atomic on both backends.
func (s *BaseStore) NextSeq(kind, year string) (int64, error) {
	var seq int64
	query := s.Converter(`
		INSERT INTO counters (kind, year, seq)
		VALUES (?, ?, 1)
		ON CONFLICT (kind, year) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`)
	if err := s.DB.Get(&seq, query, kind, year); err != nil {
		return 0, s.fail("next seq", kind, err)
	}
	return seq, nil
}

func (s *BaseStore) fail(op, collection string, err error) error {
	if s.Classify != nil {
		err = s.Classify(err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, collection, err)
}
