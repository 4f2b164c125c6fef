package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// runLog accumulates the plain-text log a tool leaves in the results
// directory next to its outputs.
type runLog struct {
	b strings.Builder
}

func newRunLog(at time.Time) *runLog {
	l := &runLog{}
	l.printf("Date and time: %s\n\n", at.Format(logStamp))
	return l
}

func (l *runLog) printf(format string, args ...any) {
	fmt.Fprintf(&l.b, format, args...)
}

func (l *runLog) elapsed(start time.Time) {
	l.printf("Processing took %.1fs\n", time.Since(start).Seconds())
}

func (l *runLog) save(path string) error {
	if err := os.WriteFile(path, []byte(l.b.String()), 0o644); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// ErrResultsLocked is returned when another run holds the results directory.
var ErrResultsLocked = errors.New("results directory is locked by another run")

const lockName = ".goadverts.lock"

// lockResults takes the exclusive lock on dir, creating dir if needed.
func lockResults(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	fl := flock.New(filepath.Join(dir, lockName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock results dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResultsLocked, dir)
	}
	return fl, nil
}
