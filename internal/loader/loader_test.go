package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsAdvertName(t *testing.T) {
	cases := map[string]bool{
		"ABC123":      true,
		"abc123.html": true,
		"XYZ999_copy": true,
		"AB1234":      false,
		"ABCD12":      false,
		"123ABC":      false,
		"index.html":  false,
		"":            false,
		"ab_123":      false,
	}
	for name, want := range cases {
		if got := IsAdvertName(name); got != want {
			t.Fatalf("IsAdvertName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestList_SortedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"ZZZ001", "AAA001", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "BBB002"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	entries, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	if strings.Join(names, ",") != "AAA001,ZZZ001,notes.txt" {
		t.Fatalf("unexpected order: %v", names)
	}
	if !entries[0].Advert || entries[2].Advert {
		t.Fatalf("advert classification wrong: %+v", entries)
	}
}

func TestList_MissingDatastore(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrDatastoreMissing) {
		t.Fatalf("expected ErrDatastoreMissing, got %v", err)
	}
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := List(f); !errors.Is(err, ErrDatastoreMissing) {
		t.Fatalf("expected ErrDatastoreMissing for a file, got %v", err)
	}
}

func TestRead_DecodesLatin1(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ABC123")
	// 0xA3 is the pound sign in windows-1252.
	body := []byte("<html><head><meta charset=\"windows-1252\"></head><body><td>\xa330000</td></body></html>")
	if err := os.WriteFile(p, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(string(got), "£30000") {
		t.Fatalf("expected decoded pound sign, got %q", got)
	}
}
