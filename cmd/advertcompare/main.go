package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goadverts/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(".env", ".env.local"); err != nil {
		log.Warn().Err(err).Msg("dotenv")
	}

	var (
		results    string
		missing    string
		configPath string
		verbose    bool
	)
	flag.StringVar(&results, "results", envOr(app.EnvResults, app.DefaultResults), "Directory for the comparer log and charts")
	flag.StringVar(&missing, "missing", os.Getenv(app.EnvMissing), "Cell text that marks missing values in the inputs")
	flag.StringVar(&configPath, "config", os.Getenv(app.EnvConfig), "Optional YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] FILE1 FILE2\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := app.Config{ResultsDir: results, Missing: missing, Verbose: verbose}
	if err := app.Prepare(&cfg, configPath); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg, flag.Arg(0), flag.Arg(1)); err != nil {
		log.Error().Err(err).Msg("compare failed")
		os.Exit(1)
	}
}

func run(cfg app.Config, fileA, fileB string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	c, err := app.RunCompare(ctx, cfg, fileA, fileB)
	if err != nil {
		return err
	}
	fmt.Printf("Total jobs in %s missing from %s: %d\n", fileA, fileB, len(c.Diff.OnlyA))
	fmt.Printf("Total jobs in %s missing from %s: %d\n", fileB, fileA, len(c.Diff.OnlyB))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
