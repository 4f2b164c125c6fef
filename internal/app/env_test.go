package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
}

// Later files override earlier ones; missing files are skipped.
func TestLoadEnvFiles_OverrideOrderAndMissing(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, filepath.Join(dir, "absent"), b, ""); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestApplyEnvToConfig_FillsUnsetOnly(t *testing.T) {
	t.Setenv(EnvDatastore, "/data/ads")
	t.Setenv(EnvResults, "/data/results")
	t.Setenv(EnvWorkers, "6")
	t.Setenv(EnvXLSX, "yes")
	t.Setenv(EnvSQLite, "")
	t.Setenv(EnvMissing, "NA")
	t.Setenv(EnvVerbose, "0")

	cfg := Config{ResultsDir: "explicit"}
	ApplyEnvToConfig(&cfg)
	if cfg.DatastoreDir != "/data/ads" {
		t.Fatalf("DatastoreDir=%q, want env value", cfg.DatastoreDir)
	}
	if cfg.ResultsDir != "explicit" {
		t.Fatalf("ResultsDir=%q, explicit value must win", cfg.ResultsDir)
	}
	if cfg.Workers != 6 || !cfg.XLSX || cfg.Missing != "NA" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Verbose {
		t.Fatalf("VERBOSE=0 must not enable verbose")
	}
}

func TestApplyEnvToConfig_IgnoresBadWorkers(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.Workers != 0 {
		t.Fatalf("Workers=%d, want 0", cfg.Workers)
	}
}
