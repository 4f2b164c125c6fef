package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hyperifyio/goadverts/internal/field"
	"github.com/hyperifyio/goadverts/internal/record"
	"github.com/hyperifyio/goadverts/internal/salary"
)

func TestSaveRecords_UpsertByFilename(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "adverts.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	first := record.Record{
		Filename: "ABC123",
		Title:    field.Found("data scientist"),
		Year:     field.Found("2022"),
		Salary:   salary.Result{Value: 40000, Found: true, Raw: "£40,000", Currency: "GBP", Marker: "£"},
	}
	if n, err := db.SaveRecords(ctx, "run-1", []record.Record{first, record.Sparse("notes.txt")}); err != nil || n != 2 {
		t.Fatalf("save: n=%d err=%v", n, err)
	}

	first.Title = field.Found("senior data scientist")
	if _, err := db.SaveRecords(ctx, "run-2", []record.Record{first}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	n, err := db.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("count: n=%d err=%v, want 2", n, err)
	}
	got, err := getAdvert(ctx, db, "ABC123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title.String != "senior data scientist" || got.RunID != "run-2" {
		t.Fatalf("upsert did not update: %+v", got)
	}
	if !got.Salary.Valid || got.Salary.Float64 != 40000 || got.Currency.String != "GBP" {
		t.Fatalf("salary provenance lost: %+v", got)
	}

	sparse, err := getAdvert(ctx, db, "notes.txt")
	if err != nil {
		t.Fatalf("get sparse: %v", err)
	}
	if sparse.Title.Valid || sparse.Salary.Valid || sparse.Year.Valid {
		t.Fatalf("sparse record should store NULLs: %+v", sparse)
	}
}

type storedAdvert struct {
	Filename string
	Title    sql.NullString
	Year     sql.NullString
	Salary   sql.NullFloat64
	Currency sql.NullString
	RunID    string
}

func getAdvert(ctx context.Context, d *DB, filename string) (storedAdvert, error) {
	var a storedAdvert
	err := d.Pool.QueryRowContext(ctx, `
SELECT filename, title, year, salary, salary_currency, run_id
FROM adverts WHERE filename = ?;`, filename).
		Scan(&a.Filename, &a.Title, &a.Year, &a.Salary, &a.Currency, &a.RunID)
	return a, err
}
