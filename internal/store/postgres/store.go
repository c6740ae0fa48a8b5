package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yms-edu/registrar/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
		JSONText: func(field string) string {
			return fmt.Sprintf("data->>'%s'", field)
		},
		Classify: classify,
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

// Merge replaces the patch's top-level fields via jsonb concatenation,
// which is exactly shallow-merge semantics.
func (s *PostgresStore) Merge(collection, id string, patch json.RawMessage) error {
	query := s.Converter(`
		UPDATE documents
		SET data = data || ?::jsonb, updated_at = ?
		WHERE collection = ?
		AND id = ?
	`)
	res, err := s.DB.Exec(query, []byte(patch), time.Now().Unix(), collection, id)
	if err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	return nil
}

// classify tags serialization failures and deadlocks as transient so
// callers can retry the counter transaction.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %v", store.ErrTransient, err)
		}
	}
	return err
}
