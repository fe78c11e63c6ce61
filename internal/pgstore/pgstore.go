// Package pgstore implements the durable schema store on PostgreSQL via
// database/sql and lib/pq. One row per schema, keyed by schema_id, with the
// serialized schema text, a free-text description, and the last-changed
// timestamp.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	schemagate "github.com/schemagate/schemagate"
)

const createTable = `
CREATE TABLE IF NOT EXISTS schemas (
	schema_id   BIGINT PRIMARY KEY,
	schema_name TEXT NOT NULL,
	json_schema TEXT NOT NULL,
	description TEXT,
	chg_dt      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store is a PostgreSQL-backed schemagate.Store.
type Store struct {
	db *sql.DB
}

var _ schemagate.Store = (*Store)(nil)

// Open connects to the database at url, verifies the connection, and ensures
// the schemas table exists.
func Open(ctx context.Context, url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("pgstore: ensure table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) FindByID(ctx context.Context, id int64) (*schemagate.StoredSchema, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT schema_id, schema_name, json_schema, COALESCE(description, ''), chg_dt
		   FROM schemas WHERE schema_id = $1`, id)
	var out schemagate.StoredSchema
	err := row.Scan(&out.ID, &out.Name, &out.Schema, &out.Description, &out.ChangedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pgstore: find %d: %w", id, err)
	}
	return &out, nil
}

func (s *Store) FindAllOrderedByID(ctx context.Context) ([]schemagate.StoredSchema, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT schema_id, schema_name, json_schema, COALESCE(description, ''), chg_dt
		   FROM schemas ORDER BY schema_id`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list: %w", err)
	}
	defer rows.Close()

	var out []schemagate.StoredSchema
	for rows.Next() {
		var r schemagate.StoredSchema
		if err := rows.Scan(&r.ID, &r.Name, &r.Schema, &r.Description, &r.ChangedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: list: %w", err)
	}
	return out, nil
}

func (s *Store) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schemas WHERE schema_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgstore: exists %d: %w", id, err)
	}
	return exists, nil
}

func (s *Store) Save(ctx context.Context, row schemagate.StoredSchema) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schemas (schema_id, schema_name, json_schema, description, chg_dt)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (schema_id) DO UPDATE
		 SET schema_name = EXCLUDED.schema_name,
		     json_schema = EXCLUDED.json_schema,
		     description = EXCLUDED.description,
		     chg_dt      = now()`,
		row.ID, row.Name, row.Schema, row.Description)
	if err != nil {
		return fmt.Errorf("pgstore: save %d: %w", row.ID, err)
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM schemas WHERE schema_id = $1`, id); err != nil {
		return fmt.Errorf("pgstore: delete %d: %w", id, err)
	}
	return nil
}

func (s *Store) MaxID(ctx context.Context) (int64, bool, error) {
	var max sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(schema_id) FROM schemas`).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("pgstore: max id: %w", err)
	}
	return max.Int64, max.Valid, nil
}
