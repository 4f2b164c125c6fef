package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DateLayout stamps output filenames.
const DateLayout = "2006-01-02"

// logStamp is the human timestamp written at the top of run logs.
const logStamp = "02/01/2006 15.04.05"

const (
	processedPrefix = "1_processed_jobs_"
	namedPrefix     = "2_named_processed_jobs_"
	identPrefix     = "3_identified_jobs_"
	summaryPrefix   = "4_summary_identified_jobs_"

	MergedName     = "0_merged_processed_joblist.csv"
	MergerLogName  = "merger_log.txt"
	MergerPDFName  = "merger_differences.pdf"
	CompareLogName = "comparer_log.txt"
	ComparePDFName = "comparer_differences.pdf"
	SummaryLogName = "find_jobs_log.txt"
)

// ErrNoProcessed is returned when the results directory holds no processed
// table to summarise.
var ErrNoProcessed = errors.New("no processed jobs table found")

// outputs names every file one converter run writes.
type outputs struct {
	CSV      string
	XLSX     string
	Log      string
	Manifest string
}

func converterOutputs(results string, at time.Time) outputs {
	stamp := at.Format(DateLayout)
	csv := filepath.Join(results, processedPrefix+stamp+".csv")
	return outputs{
		CSV:      csv,
		XLSX:     filepath.Join(results, processedPrefix+stamp+".xlsx"),
		Log:      filepath.Join(results, "job_parser_log_"+stamp+".txt"),
		Manifest: deriveManifestSidecarPath(csv),
	}
}

// summaryOutputs names the files of a summary run over the table stamped
// with date.
type summaryOutputs struct {
	Named, Identified, Summary, Log, PDF string
}

func summaryFiles(results, date string) summaryOutputs {
	return summaryOutputs{
		Named:      filepath.Join(results, namedPrefix+date+".csv"),
		Identified: filepath.Join(results, identPrefix+date+".csv"),
		Summary:    filepath.Join(results, summaryPrefix+date+".csv"),
		Log:        filepath.Join(results, SummaryLogName),
		PDF:        filepath.Join(results, "jobs_per_year_"+date+".pdf"),
	}
}

// LatestProcessed returns the newest processed table in dir. The date
// stamp sorts lexically, so the last name is the newest.
func LatestProcessed(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, processedPrefix+"*.csv"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoProcessed, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// processedDate returns the date stamp of a processed table name, or
// fallback when the name does not carry one.
func processedDate(path, fallback string) string {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, processedPrefix) || !strings.HasSuffix(base, ".csv") {
		return fallback
	}
	d := strings.TrimSuffix(strings.TrimPrefix(base, processedPrefix), ".csv")
	if _, err := time.Parse(DateLayout, d); err != nil {
		return fallback
	}
	return d
}
