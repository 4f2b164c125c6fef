// Package loader enumerates saved advert files in a datastore directory.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/net/html/charset"
)

// ErrDatastoreMissing is returned when the datastore directory does not exist
// or is not a directory.
var ErrDatastoreMissing = errors.New("datastore not found")

// advertName matches the fixed advert filename prefix: three letters then
// three digits. Anything may follow.
var advertName = regexp.MustCompile(`^\pL{3}[0-9]{3}`)

// IsAdvertName reports whether a base filename follows the advert pattern.
func IsAdvertName(name string) bool {
	return advertName.MatchString(name)
}

// Entry is one file found in the datastore.
type Entry struct {
	Name   string // base name, the record key
	Path   string
	Advert bool // Name matches the advert pattern
}

// List returns every regular file in dir, sorted by name. Subdirectories
// are ignored. Non-advert names are returned too; callers decide what to do
// with them.
func List(dir string) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatastoreMissing, dir)
		}
		return nil, fmt.Errorf("stat datastore: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDatastoreMissing, dir)
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read datastore: %w", err)
	}
	out := make([]Entry, 0, len(des))
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		out = append(out, Entry{
			Name:   name,
			Path:   filepath.Join(dir, name),
			Advert: IsAdvertName(name),
		})
	}
	return out, nil
}

// Read loads one advert and converts it to UTF-8, honouring a BOM or a
// <meta charset> declaration. Saved pages are not always UTF-8.
func Read(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := charset.NewReader(bytes.NewReader(raw), "text/html")
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	return io.ReadAll(r)
}
