package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
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
		input      string
		missing    string
		interest   string
		avoid      string
		dropBad    bool
		configPath string
		verbose    bool
	)
	flag.StringVar(&results, "results", envOr(app.EnvResults, app.DefaultResults), "Results directory holding processed tables")
	flag.StringVar(&input, "input", "", "Processed table to summarise (default: newest in -results)")
	flag.StringVar(&missing, "missing", os.Getenv(app.EnvMissing), "Cell text that marks missing values in the input")
	flag.StringVar(&interest, "interest", "", "Comma-separated title terms of interest (default: built-in list)")
	flag.StringVar(&avoid, "avoid", "", "Comma-separated title terms to exclude (default: built-in list)")
	flag.BoolVar(&dropBad, "drop-bad", false, "Also drop rows without a date or with a year not starting with 2")
	flag.StringVar(&configPath, "config", os.Getenv(app.EnvConfig), "Optional YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		ResultsDir:   results,
		SummaryInput: input,
		Missing:      missing,
		DropBadRows:  dropBad,
		Verbose:      verbose,
	}
	cfg.Terms.Interest = splitList(interest)
	cfg.Terms.Avoid = splitList(avoid)
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
		log.Error().Err(err).Msg("summary failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	s, err := app.RunSummary(ctx, cfg)
	if err != nil {
		return err
	}
	for _, y := range s.Years {
		fmt.Printf("%s\t%d/%d\t%.3f%%\n", y.Year, y.Matched, y.All, y.Percent)
	}
	return nil
}

// splitList returns nil for an empty flag so the config file or the
// defaults apply.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
