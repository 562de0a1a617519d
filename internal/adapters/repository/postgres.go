package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/maulas/quiniela/pkg/metrics"
)

// Postgres mirrors the SQLite layout with a JSONB data column.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects with the given DSN and runs migrations.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := &Postgres{db: db}
	if err := p.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return p, nil
}

func (p *Postgres) migrate() error {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT  NOT NULL,
		id         TEXT  NOT NULL,
		data       JSONB NOT NULL,
		PRIMARY KEY (collection, id)
	)`)
	return err
}

func (p *Postgres) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	start := time.Now()
	rows, err := p.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 ORDER BY id`, collection)
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

func (p *Postgres) Save(ctx context.Context, collection, id string, doc any) error {
	start := time.Now()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		collection, id, string(data))
	if err != nil {
		metrics.RecordStoreError("save", collection)
		return fmt.Errorf("save %s/%s: %w", collection, id, err)
	}
	metrics.RecordStoreOp("save", collection, time.Since(start).Seconds())
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
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

func (p *Postgres) Close() error {
	return p.db.Close()
}
