package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/goadverts/internal/analysis"
	"github.com/hyperifyio/goadverts/internal/salary"
)

// Flag defaults. A file config only replaces a value that still equals
// its default.
const (
	DefaultDatastore = "./job_ads"
	DefaultResults   = "./results"
)

// Config holds runtime configuration for all tools.
type Config struct {
	DatastoreDir string
	ResultsDir   string

	// Extraction
	Workers    int
	Missing    string       // token for absent cells
	Currencies salary.Table // nil means the built-in table

	// Optional sinks
	XLSX       bool
	SQLitePath string

	// Summary
	Terms        analysis.Terms
	SummaryInput string // explicit processed CSV; newest in ResultsDir otherwise
	DropBadRows  bool   // also drop rows without a date or with a mangled year

	Verbose bool

	// Now is the clock used for output names and logs; time.Now when nil.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// currencies returns the configured table or the built-in one.
func (c Config) currencies() salary.Table {
	if len(c.Currencies) == 0 {
		return salary.DefaultTable()
	}
	return c.Currencies
}

// terms returns normalized keyword lists, falling back to defaults for an
// unset list.
func (c Config) terms() analysis.Terms {
	t := c.Terms
	def := analysis.DefaultTerms()
	if t.Interest == nil {
		t.Interest = def.Interest
	}
	if t.Avoid == nil {
		t.Avoid = def.Avoid
	}
	return t.Normalized()
}

// ValidateConfig performs minimal validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.ResultsDir) == "" {
		return errors.New("config: results directory is required")
	}
	if cfg.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	if len(cfg.Currencies) > 0 {
		if err := cfg.Currencies.Validate(); err != nil {
			return fmt.Errorf("config: currencies: %w", err)
		}
	}
	if cfg.Terms.Interest != nil && len(cfg.Terms.Normalized().Interest) == 0 {
		return errors.New("config: summary.interest must list at least one term")
	}
	return nil
}

// validateConverter adds the checks only the converter needs.
func validateConverter(cfg Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.DatastoreDir) == "" {
		return errors.New("config: datastore directory is required")
	}
	return nil
}
