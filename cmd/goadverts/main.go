package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goadverts/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Dotenv files seed the environment the flag defaults read from.
	if err := app.LoadEnvFiles(".env", ".env.local"); err != nil {
		log.Warn().Err(err).Msg("dotenv")
	}

	var (
		datastore  string
		results    string
		workers    int
		missing    string
		xlsx       bool
		sqlitePath string
		configPath string
		verbose    bool
		version    bool
	)

	flag.StringVar(&datastore, "datastore", envOr(app.EnvDatastore, app.DefaultDatastore), "Directory of saved advert HTML files")
	flag.StringVar(&results, "results", envOr(app.EnvResults, app.DefaultResults), "Directory for the processed table, log and manifest")
	flag.IntVar(&workers, "workers", envInt(app.EnvWorkers), "Parallel extraction workers (0 or 1 runs sequentially)")
	flag.StringVar(&missing, "missing", os.Getenv(app.EnvMissing), "Cell text written for missing values")
	flag.BoolVar(&xlsx, "xlsx", false, "Also write the table as an XLSX workbook")
	flag.StringVar(&sqlitePath, "sqlite", os.Getenv(app.EnvSQLite), "Upsert records into this SQLite database")
	flag.StringVar(&configPath, "config", os.Getenv(app.EnvConfig), "Optional YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&version, "version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [DATASTORE RESULTS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if version {
		fmt.Printf("goadverts %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	// A positional pair overrides both directories.
	if args := flag.Args(); len(args) >= 2 {
		datastore, results = args[0], args[1]
	}

	cfg := app.Config{
		DatastoreDir: datastore,
		ResultsDir:   results,
		Workers:      workers,
		Missing:      missing,
		XLSX:         xlsx,
		SQLitePath:   sqlitePath,
		Verbose:      verbose,
	}
	if err := app.Prepare(&cfg, configPath); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	_, err = a.Run(ctx)
	return err
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string) int {
	n, _ := strconv.Atoi(os.Getenv(key))
	return n
}
