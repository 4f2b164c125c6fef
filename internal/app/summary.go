package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goadverts/internal/analysis"
	"github.com/hyperifyio/goadverts/internal/chart"
	"github.com/hyperifyio/goadverts/internal/record"
)

// Summary is the outcome of a summary run.
type Summary struct {
	Input      string
	Parsed     int // rows in the input table
	Titled     int // rows left after dropping rows without a title
	Identified int
	Years      []analysis.SummaryRow
}

// RunSummary finds the adverts of interest in a processed table and
// writes the flagged table, the identified rows, the per-year summary, a
// log and the per-year charts. The input is cfg.SummaryInput, or else the
// newest processed table in the results directory.
func RunSummary(ctx context.Context, cfg Config) (Summary, error) {
	var s Summary
	fl, err := lockResults(cfg.ResultsDir)
	if err != nil {
		return s, err
	}
	defer fl.Unlock()

	start := time.Now()
	at := cfg.now()
	s.Input = cfg.SummaryInput
	if s.Input == "" {
		if s.Input, err = LatestProcessed(cfg.ResultsDir); err != nil {
			return s, err
		}
	}
	date := processedDate(s.Input, at.Format(DateLayout))
	log.Info().Str("file", s.Input).Str("date", date).Msg("summarising job data")

	rl := newRunLog(at)
	rl.printf("Analysing job list in %q\n", s.Input)
	warnIfEdited(s.Input)
	tbl, err := record.ReadCSVFile(s.Input, cfg.Missing)
	if err != nil {
		return s, fmt.Errorf("load %s: %w", s.Input, err)
	}
	s.Parsed = len(tbl.Rows)
	rl.printf("There were %d parsed job adverts\n\n", s.Parsed)

	if cfg.DropBadRows {
		if tbl, err = analysis.DropBadRows(tbl); err != nil {
			return s, err
		}
		rl.printf("There are %d jobs with a title, a date and a usable year\n\n", len(tbl.Rows))
	}
	if tbl, err = analysis.DropMissingTitles(tbl); err != nil {
		return s, err
	}
	s.Titled = len(tbl.Rows)
	rl.printf("There are %d jobs with job titles\n\n", s.Titled)

	terms := cfg.terms()
	named, err := analysis.FlagInterest(tbl, terms.Interest)
	if err != nil {
		return s, err
	}
	ident, err := analysis.Identify(named, terms)
	if err != nil {
		return s, err
	}
	s.Identified = len(ident.Rows)
	if s.Years, err = analysis.Summarise(named, ident); err != nil {
		return s, err
	}
	if err := ctx.Err(); err != nil {
		return s, err
	}

	out := summaryFiles(cfg.ResultsDir, date)
	if _, err := record.WriteCSVFile(out.Named, named); err != nil {
		return s, err
	}
	rl.printf("There are %d jobs with the job title of interest\n\n", s.Identified)
	if _, err := record.WriteCSVFile(out.Identified, ident); err != nil {
		return s, err
	}
	if _, err := record.WriteCSVFile(out.Summary, analysis.SummaryTable(s.Years)); err != nil {
		return s, err
	}
	if err := writeSummaryCharts(out.PDF, s.Years); err != nil {
		return s, err
	}
	rl.elapsed(start)
	if err := rl.save(out.Log); err != nil {
		return s, err
	}
	log.Info().
		Int("parsed", s.Parsed).
		Int("titled", s.Titled).
		Int("identified", s.Identified).
		Int("years", len(s.Years)).
		Msg("summary written")
	return s, nil
}

func writeSummaryCharts(path string, rows []analysis.SummaryRow) error {
	labels := make([]string, len(rows))
	matched := make([]int, len(rows))
	all := make([]int, len(rows))
	for i, r := range rows {
		labels[i] = r.Year
		matched[i] = r.Matched
		all[i] = r.All
	}
	return chart.WriteFile(path,
		chart.Chart{Title: "Jobs of interest per year", XLabel: "year", YLabel: "jobs", Labels: labels, Values: chart.Counts(matched)},
		chart.Chart{Title: "All jobs per year", XLabel: "year", YLabel: "jobs", Labels: labels, Values: chart.Counts(all)},
		chart.Chart{Title: "Share of jobs of interest per year (%)", XLabel: "year", YLabel: "%", Kind: chart.Bar, Labels: labels, Values: percents(rows)},
	)
}

func percents(rows []analysis.SummaryRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Percent
	}
	return out
}
