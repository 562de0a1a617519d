package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maulas/quiniela/pkg/metrics"
)

// SQLite keeps every collection in a single documents table, one JSON
// blob per row.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database file and runs migrations.
// WAL mode keeps reads cheap while a save is in flight.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`)
	return err
}

// GetAll returns every document in a collection, ordered by id so runs
// are reproducible.
func (s *SQLite) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		metrics.RecordStoreError("get_all", collection)
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			metrics.RecordStoreError("get_all", collection)
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError("get_all", collection)
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	metrics.RecordStoreOp("get_all", collection, time.Since(start).Seconds())
	return out, nil
}

// Save upserts a document by id.
func (s *SQLite) Save(ctx context.Context, collection, id string, doc any) error {
	start := time.Now()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, string(data))
	if err != nil {
		metrics.RecordStoreError("save", collection)
		return fmt.Errorf("save %s/%s: %w", collection, id, err)
	}
	metrics.RecordStoreOp("save", collection, time.Since(start).Seconds())
	return nil
}

// Delete removes a document, reporting ErrNotFound for unknown ids.
func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		metrics.RecordStoreError("delete", collection)
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	metrics.RecordStoreOp("delete", collection, time.Since(start).Seconds())
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
