// internal/store/sqlite/store.go
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/yms-edu/registrar/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
		JSONText: func(field string) string {
			return fmt.Sprintf("json_extract(data, '$.%s')", field)
		},
		Classify: classify,
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"JSONB":       "TEXT",
		"UUID":        "TEXT",
		"BIGINT":      "INTEGER",
		"VARCHAR(32)": "TEXT",
		"VARCHAR(16)": "TEXT",
		"VARCHAR(2)":  "TEXT",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

// Merge re-writes the document with the patch's top-level fields replaced.
// sqlite's json_patch merges nested objects recursively, which would keep
// deleted map entries alive, so the shallow merge happens in Go inside a
// transaction instead.
func (s *SQLiteStore) Merge(collection, id string, patch json.RawMessage) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, classify(err))
	}
	defer tx.Rollback()

	var data []byte
	err = tx.Get(&data, `
		SELECT data FROM documents
		WHERE collection = ? AND id = ?
	`, collection, id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, classify(err))
	}

	var current, fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &current); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(patch, &fields); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}
	for k, v := range fields {
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}

	if _, err := tx.Exec(`
		UPDATE documents SET data = ?, updated_at = ?
		WHERE collection = ? AND id = ?
	`, merged, time.Now().Unix(), collection, id); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, classify(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, classify(err))
	}
	return nil
}

func classify(err error) error {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", store.ErrTransient, err)
		}
	}
	return err
}
