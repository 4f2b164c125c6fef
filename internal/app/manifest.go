package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrManifestMismatch means a table no longer matches the digest recorded
// in its sidecar manifest.
var ErrManifestMismatch = errors.New("table does not match its manifest")

// Manifest is the machine-readable sidecar written next to a processed
// table. Two runs over the same datastore produce the same SHA256.
type Manifest struct {
	RunID       string    `json:"run_id"`
	Version     string    `json:"version"`
	Datastore   string    `json:"datastore"`
	Output      string    `json:"output"`
	SHA256      string    `json:"sha256"`
	Bytes       int       `json:"bytes"`
	Scanned     int       `json:"scanned"`
	Records     int       `json:"records"`
	Failed      int       `json:"failed"`
	Unreadable  int       `json:"unreadable"`
	Sparse      int       `json:"sparse"`
	Workers     int       `json:"workers"`
	GeneratedAt time.Time `json:"generated_at"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of b.
func computeSHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func marshalManifestJSON(m Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func writeManifest(path string, m Manifest) error {
	b, err := marshalManifestJSON(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// ReadManifest loads a sidecar written by a converter run.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(b, &m)
	return m, err
}

// verifyManifest checks table against its sidecar manifest. A table with
// no sidecar passes.
func verifyManifest(table string) error {
	m, err := ReadManifest(deriveManifestSidecarPath(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	b, err := os.ReadFile(table)
	if err != nil {
		return err
	}
	if got := computeSHA256Hex(b); got != m.SHA256 {
		return fmt.Errorf("%w: %s sha256 %s, manifest %s", ErrManifestMismatch, table, got, m.SHA256)
	}
	return nil
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the output.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}
