package app

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvDatastore = "ADVERTS_DATASTORE"
	EnvResults   = "ADVERTS_RESULTS"
	EnvWorkers   = "ADVERTS_WORKERS"
	EnvConfig    = "ADVERTS_CONFIG"
	EnvXLSX      = "ADVERTS_XLSX"
	EnvSQLite    = "ADVERTS_SQLITE"
	EnvMissing   = "ADVERTS_MISSING"
	EnvVerbose   = "VERBOSE"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.DatastoreDir == "" {
		cfg.DatastoreDir = os.Getenv(EnvDatastore)
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = os.Getenv(EnvResults)
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = os.Getenv(EnvSQLite)
	}
	if cfg.Missing == "" {
		cfg.Missing = os.Getenv(EnvMissing)
	}
	if cfg.Workers == 0 {
		if n, ok := envInt(EnvWorkers); ok && n > 0 {
			cfg.Workers = n
		}
	}
	if !cfg.XLSX {
		cfg.XLSX = envTruthy(EnvXLSX)
	}
	if !cfg.Verbose {
		cfg.Verbose = envTruthy(EnvVerbose)
	}
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envTruthy(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
