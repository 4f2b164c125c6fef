// Package store keeps processed adverts in a SQLite file so successive runs
// accumulate into one queryable dataset.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB is an open adverts database.
type DB struct {
	Pool *sql.DB
}

// Open opens or creates the SQLite file at path and ensures the adverts
// table exists. Writers wait up to five seconds on a locked file.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	d := &DB{Pool: pool}
	if err := d.migrate(context.Background()); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Close closes the pool. It is safe on a nil DB.
func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	_, err := d.Pool.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS adverts (
  filename TEXT PRIMARY KEY,
  title TEXT,
  date TEXT,
  year TEXT,
  salary REAL,
  salary_raw TEXT,
  salary_currency TEXT,
  salary_marker TEXT,
  role TEXT,
  organisation TEXT,
  location TEXT,
  run_id TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_adverts_year ON adverts(year);
`)
	return err
}
