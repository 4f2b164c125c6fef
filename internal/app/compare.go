package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goadverts/internal/chart"
	"github.com/hyperifyio/goadverts/internal/dataset"
	"github.com/hyperifyio/goadverts/internal/record"
)

// Comparison is the outcome of comparing two processed tables.
type Comparison struct {
	A, B   *record.Table // usable rows only
	Diff   dataset.Diff
	ByYear []dataset.YearDiff
}

// Compare loads two processed tables, drops rows without filename, title
// or year, and counts the adverts only one of them has, overall and per
// year.
func Compare(cfg Config, fileA, fileB string) (Comparison, error) {
	var c Comparison
	var err error
	if c.A, err = loadUsable(fileA, cfg.Missing); err != nil {
		return c, err
	}
	if c.B, err = loadUsable(fileB, cfg.Missing); err != nil {
		return c, err
	}
	if c.Diff, err = dataset.Differences(c.A, c.B); err != nil {
		return c, err
	}
	if c.ByYear, err = dataset.ByYear(c.A, c.B); err != nil {
		return c, err
	}
	return c, nil
}

func loadUsable(path, missing string) (*record.Table, error) {
	warnIfEdited(path)
	t, err := record.ReadCSVFile(path, missing)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	u, err := dataset.Usable(t)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debug().Str("file", path).Int("rows", len(t.Rows)).Int("usable", len(u.Rows)).Msg("table loaded")
	return u, nil
}

// warnIfEdited logs tables that changed after the converter wrote them.
// Edited tables are still used.
func warnIfEdited(path string) {
	if err := verifyManifest(path); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("manifest check failed")
	}
}

// RunCompare writes the comparer log and difference charts for two tables.
func RunCompare(ctx context.Context, cfg Config, fileA, fileB string) (Comparison, error) {
	fl, err := lockResults(cfg.ResultsDir)
	if err != nil {
		return Comparison{}, err
	}
	defer fl.Unlock()

	start := time.Now()
	rl := newRunLog(cfg.now())
	c, err := Compare(cfg, fileA, fileB)
	if err != nil {
		return c, err
	}
	logComparison(rl, c, fileA, fileB)
	if err := ctx.Err(); err != nil {
		return c, err
	}
	if err := writeDiffCharts(filepath.Join(cfg.ResultsDir, ComparePDFName), c, fileA, fileB); err != nil {
		return c, err
	}
	rl.elapsed(start)
	if err := rl.save(filepath.Join(cfg.ResultsDir, CompareLogName)); err != nil {
		return c, err
	}
	log.Info().Int("only_a", len(c.Diff.OnlyA)).Int("only_b", len(c.Diff.OnlyB)).Msg("comparison written")
	return c, nil
}

// RunMerge compares two tables like RunCompare, then writes their merge:
// every usable row of fileA plus the usable rows of fileB not in fileA.
func RunMerge(ctx context.Context, cfg Config, fileA, fileB string) (*record.Table, error) {
	fl, err := lockResults(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	start := time.Now()
	rl := newRunLog(cfg.now())
	c, err := Compare(cfg, fileA, fileB)
	if err != nil {
		return nil, err
	}
	logComparison(rl, c, fileA, fileB)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeDiffCharts(filepath.Join(cfg.ResultsDir, MergerPDFName), c, fileA, fileB); err != nil {
		return nil, err
	}

	merged, err := dataset.Merge(c.A, c.B)
	if err != nil {
		return nil, err
	}
	rl.printf("Merged jobs list has a length of %d\n", len(merged.Rows))
	out := filepath.Join(cfg.ResultsDir, MergedName)
	if _, err := record.WriteCSVFile(out, merged); err != nil {
		return nil, err
	}
	rl.printf("Merged file saved to %s\n\n", out)
	rl.elapsed(start)
	if err := rl.save(filepath.Join(cfg.ResultsDir, MergerLogName)); err != nil {
		return nil, err
	}
	log.Info().Int("rows", len(merged.Rows)).Str("csv", out).Msg("merged dataset written")
	return merged, nil
}

func logComparison(rl *runLog, c Comparison, fileA, fileB string) {
	rl.printf("Finding difference between jobs listed in %q and %q\n\n", fileA, fileB)
	rl.printf("Jobs present in %q but absent from %q: %d\n", fileA, fileB, len(c.Diff.OnlyA))
	rl.printf("Jobs present in %q but absent from %q: %d\n\n", fileB, fileA, len(c.Diff.OnlyB))
	if len(c.ByYear) == 0 {
		rl.printf("No years to compare.\n\n")
		return
	}
	rl.printf("Calculating difference by year between %d and %d.\n\n", c.ByYear[0].Year, c.ByYear[len(c.ByYear)-1].Year)
	for _, y := range c.ByYear {
		rl.printf("%d:\n", y.Year)
		rl.printf("In file 1 but not in 2: %d\n", y.OnlyA)
		rl.printf("In file 2 but not in 1: %d\n\n", y.OnlyB)
	}
}

func writeDiffCharts(path string, c Comparison, fileA, fileB string) error {
	labels := make([]string, len(c.ByYear))
	onlyA := make([]int, len(c.ByYear))
	onlyB := make([]int, len(c.ByYear))
	for i, y := range c.ByYear {
		labels[i] = strconv.Itoa(y.Year)
		onlyA[i] = y.OnlyA
		onlyB[i] = y.OnlyB
	}
	return chart.WriteFile(path,
		chart.Chart{
			Title:  fmt.Sprintf("Jobs in %s but not in %s", filepath.Base(fileA), filepath.Base(fileB)),
			XLabel: "year", YLabel: "jobs",
			Labels: labels, Values: chart.Counts(onlyA),
		},
		chart.Chart{
			Title:  fmt.Sprintf("Jobs in %s but not in %s", filepath.Base(fileB), filepath.Base(fileA)),
			XLabel: "year", YLabel: "jobs",
			Labels: labels, Values: chart.Counts(onlyB),
		},
	)
}
