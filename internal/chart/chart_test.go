package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWrite_ProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf,
		Chart{Title: "Jobs per year", XLabel: "year", YLabel: "jobs", Labels: []string{"2020", "2021", "2022"}, Values: []float64{3, 7, 2}},
		Chart{Title: "Bars", Kind: Bar, Labels: []string{"2020"}, Values: []float64{12}},
		Chart{Title: "Empty"},
	)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", buf.Bytes()[:8])
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.pdf")
	if err := WriteFile(path, Chart{Title: "x", Labels: []string{"a"}, Values: []float64{1}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a PDF")
	}
}

func TestWrite_Errors(t *testing.T) {
	if err := Write(&bytes.Buffer{}); !errors.Is(err, ErrNoCharts) {
		t.Fatalf("expected ErrNoCharts, got %v", err)
	}
	if err := Write(&bytes.Buffer{}, Chart{Labels: []string{"a"}}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestNiceCeil(t *testing.T) {
	cases := map[float64]float64{0: 1, 1: 1, 3: 5, 7: 10, 12: 20, 45: 50, 100: 100, 101: 200}
	for in, want := range cases {
		if got := niceCeil(in); got != want {
			t.Fatalf("niceCeil(%v) = %v, want %v", in, got, want)
		}
	}
}
