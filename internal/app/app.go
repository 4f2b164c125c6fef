package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goadverts/internal/assemble"
	"github.com/hyperifyio/goadverts/internal/loader"
	"github.com/hyperifyio/goadverts/internal/record"
	"github.com/hyperifyio/goadverts/internal/store"
)

// ErrDatastoreMissing is returned when the datastore directory is absent.
var ErrDatastoreMissing = loader.ErrDatastoreMissing

// App is one converter run over a datastore. It holds the results
// directory lock from New until Close.
type App struct {
	cfg  Config
	lock *flock.Flock
	db   *store.DB
}

// Result describes what a converter run wrote.
type Result struct {
	RunID    string
	Stats    assemble.Stats
	CSV      string
	XLSX     string
	Log      string
	Manifest string
	SHA256   string
	Stored   int // adverts in the SQLite file after the run; 0 without one
}

// New validates cfg, checks the datastore, and locks the results
// directory, creating it if needed.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := validateConverter(cfg); err != nil {
		return nil, err
	}
	if fi, err := os.Stat(cfg.DatastoreDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDatastoreMissing, cfg.DatastoreDir)
	}
	fl, err := lockResults(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, lock: fl}
	if cfg.SQLitePath != "" {
		db, err := store.Open(cfg.SQLitePath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		a.db = db
	}
	log.Debug().Str("version", BuildVersion).Str("commit", BuildCommit).Str("datastore", cfg.DatastoreDir).Str("results", cfg.ResultsDir).Msg("converter ready")
	return a, nil
}

// Close releases the database and the results lock.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("close sqlite")
		}
		a.db = nil
	}
	if a.lock != nil {
		_ = a.lock.Unlock()
		a.lock = nil
	}
}

// Run converts every file in the datastore into one row of the processed
// table and writes the table, its run log and its manifest.
func (a *App) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	at := a.cfg.now()
	res := Result{RunID: uuid.NewString()}

	entries, err := loader.List(a.cfg.DatastoreDir)
	if err != nil {
		return res, err
	}
	log.Info().Int("files", len(entries)).Str("datastore", a.cfg.DatastoreDir).Msg("processing adverts")

	asm := assemble.Assembler{Currencies: a.cfg.currencies(), Workers: a.cfg.Workers}
	recs, st, err := asm.Run(ctx, entries)
	if err != nil {
		return res, fmt.Errorf("assemble: %w", err)
	}
	res.Stats = st

	out := converterOutputs(a.cfg.ResultsDir, at)
	tbl := record.ToTable(recs, a.cfg.Missing)
	data, err := record.WriteCSVFile(out.CSV, tbl)
	if err != nil {
		return res, err
	}
	res.CSV = out.CSV
	res.SHA256 = computeSHA256Hex(data)

	if a.cfg.XLSX {
		if err := record.WriteXLSX(out.XLSX, tbl); err != nil {
			return res, err
		}
		res.XLSX = out.XLSX
	}
	if a.db != nil {
		n, err := a.db.SaveRecords(ctx, res.RunID, recs)
		if err != nil {
			return res, fmt.Errorf("sqlite: %w", err)
		}
		if res.Stored, err = a.db.Count(ctx); err != nil {
			return res, fmt.Errorf("sqlite: %w", err)
		}
		log.Info().Int("records", n).Int("total", res.Stored).Str("path", a.cfg.SQLitePath).Msg("records stored")
	}

	rl := newRunLog(at)
	rl.printf("There were %d job adverts reviewed in the sample\n\n", st.Scanned)
	rl.printf("There were %d job adverts parsed into the data file\n", st.Records)
	rl.printf(" - %d were missing date and title data\n", st.Failed)
	rl.printf(" - %d could not be read\n\n", st.Unreadable)
	rl.elapsed(start)
	rl.printf("Run id: %s\n", res.RunID)
	if err := rl.save(out.Log); err != nil {
		return res, err
	}
	res.Log = out.Log

	m := Manifest{
		RunID:       res.RunID,
		Version:     BuildVersion,
		Datastore:   a.cfg.DatastoreDir,
		Output:      out.CSV,
		SHA256:      res.SHA256,
		Bytes:       len(data),
		Scanned:     st.Scanned,
		Records:     st.Records,
		Failed:      st.Failed,
		Unreadable:  st.Unreadable,
		Sparse:      st.Sparse,
		Workers:     a.cfg.Workers,
		GeneratedAt: at.UTC(),
	}
	if err := writeManifest(out.Manifest, m); err != nil {
		return res, fmt.Errorf("write manifest: %w", err)
	}
	res.Manifest = out.Manifest

	log.Info().
		Int("scanned", st.Scanned).
		Int("records", st.Records).
		Int("failed", st.Failed).
		Int("unreadable", st.Unreadable).
		Str("csv", out.CSV).
		Str("sha256", res.SHA256).
		Dur("took", time.Since(start)).
		Msg("processed jobs written")
	return res, nil
}
