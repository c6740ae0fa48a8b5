package store

import (
	"encoding/json"
	"errors"
)

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

var (
	// ErrNotFound means the referenced document does not exist in its collection.
	ErrNotFound = errors.New("document not found")
	// ErrTransient marks store failures worth retrying (lock contention, serialization).
	ErrTransient = errors.New("transient store error")
)

// Document is a single record in a collection. Data holds the JSON body;
// only the store knows how it is encoded at rest.
type Document struct {
	ID        string          `db:"id"`
	Data      json.RawMessage `db:"data"`
	CreatedAt int64           `db:"created_at"`
}

// Eq is an equality filter on a top-level JSON field.
type Eq struct {
	Field string
	Value string
}

type Query struct {
	Filters []Eq
	OrderBy string // top-level JSON field; empty means created_at
	Desc    bool
	Limit   int
}
