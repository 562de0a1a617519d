// Package repository provides the generic document store the core reads
// its collections from, with SQLite and Postgres backends.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Driver names accepted by New.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a collection-of-JSON-documents view of the backing database.
// The core fetches collections wholesale and filters in memory; no
// query pushdown is offered or needed.
type Store interface {
	// GetAll returns every document in a collection.
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	// Save upserts a document by id.
	Save(ctx context.Context, collection, id string, doc any) error
	// Delete removes a document. Returns ErrNotFound when the id is
	// unknown.
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// New opens a store for the configured driver.
func New(driver, sqlitePath, postgresDSN string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLite(sqlitePath)
	case DriverPostgres:
		return NewPostgres(postgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// DecodeAll unmarshals every raw document into T, skipping documents
// that do not decode. Stored data predates this code and may carry
// stray shapes; a bad document must not take the whole collection down.
func DecodeAll[T any](raw []json.RawMessage) []T {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
