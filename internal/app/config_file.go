package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goadverts/internal/salary"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Datastore string `yaml:"datastore" json:"datastore"`
	Results   string `yaml:"results" json:"results"`
	Workers   int    `yaml:"workers" json:"workers"`
	// Missing is a pointer so that an explicit empty token can be told
	// apart from an absent key.
	Missing *string `yaml:"missing" json:"missing"`

	XLSX    bool   `yaml:"xlsx" json:"xlsx"`
	SQLite  string `yaml:"sqlite" json:"sqlite"`
	Verbose bool   `yaml:"verbose" json:"verbose"`

	// Currencies replaces the built-in table; list order is scan order.
	Currencies salary.Table `yaml:"currencies" json:"currencies"`

	Summary struct {
		Input       string   `yaml:"input" json:"input"`
		DropBadRows bool     `yaml:"dropBadRows" json:"dropBadRows"`
		Interest    []string `yaml:"interest" json:"interest"`
		Avoid       []string `yaml:"avoid" json:"avoid"`
	} `yaml:"summary" json:"summary"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// YAML is a superset of JSON for our schema; try it first.
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any fields that are
// unset or still at their flag default, so explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.DatastoreDir == "" || cfg.DatastoreDir == DefaultDatastore) && fc.Datastore != "" {
		cfg.DatastoreDir = fc.Datastore
	}
	if (cfg.ResultsDir == "" || cfg.ResultsDir == DefaultResults) && fc.Results != "" {
		cfg.ResultsDir = fc.Results
	}
	if cfg.Workers == 0 && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if cfg.Missing == "" && fc.Missing != nil {
		cfg.Missing = *fc.Missing
	}
	if !cfg.XLSX && fc.XLSX {
		cfg.XLSX = true
	}
	if cfg.SQLitePath == "" && fc.SQLite != "" {
		cfg.SQLitePath = fc.SQLite
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if len(cfg.Currencies) == 0 && len(fc.Currencies) > 0 {
		cfg.Currencies = append(salary.Table(nil), fc.Currencies...)
	}
	if cfg.SummaryInput == "" && fc.Summary.Input != "" {
		cfg.SummaryInput = fc.Summary.Input
	}
	if !cfg.DropBadRows && fc.Summary.DropBadRows {
		cfg.DropBadRows = true
	}
	if cfg.Terms.Interest == nil && fc.Summary.Interest != nil {
		cfg.Terms.Interest = append([]string{}, fc.Summary.Interest...)
	}
	if cfg.Terms.Avoid == nil && fc.Summary.Avoid != nil {
		cfg.Terms.Avoid = append([]string{}, fc.Summary.Avoid...)
	}
}

// Prepare layers configuration under the values already in cfg (flags and
// their env defaults): the file at path when given, then any env var still
// needed for an unset field. The result is validated.
func Prepare(cfg *Config, path string) error {
	if path != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		ApplyFileConfig(cfg, fc)
	}
	ApplyEnvToConfig(cfg)
	return ValidateConfig(*cfg)
}
