package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hyperifyio/goadverts/internal/field"
	"github.com/hyperifyio/goadverts/internal/record"
)

// SaveRecords upserts recs keyed by filename in one transaction. Missing
// fields are stored as NULL.
func (d *DB) SaveRecords(ctx context.Context, runID string, recs []record.Record) (int, error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO adverts (filename, title, date, year, salary, salary_raw, salary_currency, salary_marker,
                     role, organisation, location, run_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(filename) DO UPDATE SET
  title = excluded.title,
  date = excluded.date,
  year = excluded.year,
  salary = excluded.salary,
  salary_raw = excluded.salary_raw,
  salary_currency = excluded.salary_currency,
  salary_marker = excluded.salary_marker,
  role = excluded.role,
  organisation = excluded.organisation,
  location = excluded.location,
  run_id = excluded.run_id,
  updated_at = excluded.updated_at;`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range recs {
		var sal sql.NullFloat64
		if r.Salary.Found {
			sal = sql.NullFloat64{Float64: r.Salary.Value, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			r.Filename,
			nullable(r.Title), nullable(r.Date), nullable(r.Year),
			sal, nullString(r.Salary.Raw), nullString(r.Salary.Currency), nullString(r.Salary.Marker),
			nullable(r.Role), nullable(r.Organisation), nullable(r.Location),
			runID, now,
		)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", r.Filename, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(recs), nil
}

// Count returns the number of stored adverts.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM adverts;`).Scan(&n)
	return n, err
}

func nullable(v field.Value) sql.NullString {
	s, ok := v.Get()
	return sql.NullString{String: s, Valid: ok}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
