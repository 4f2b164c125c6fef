// Package dataset compares and merges processed advert tables from
// separate runs. Rows are identified by their filename.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperifyio/goadverts/internal/record"
)

// ErrMissingColumn is returned when an input table lacks a required column.
var ErrMissingColumn = record.ErrMissingColumn

// Required are the columns a row must have to take part in a comparison.
var Required = []string{record.ColFilename, record.ColTitle, record.ColYear}

// Usable drops rows that miss any Required column.
func Usable(t *record.Table) (*record.Table, error) {
	cols := make([]int, len(Required))
	for i, name := range Required {
		c, err := t.Col(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return t.Filter(func(row []string) bool {
		for _, c := range cols {
			if t.IsMissing(row, c) {
				return false
			}
		}
		return true
	}), nil
}

// Diff holds the filenames present in one table but not the other, sorted.
type Diff struct {
	OnlyA []string
	OnlyB []string
}

// Differences compares the filename sets of a and b.
func Differences(a, b *record.Table) (Diff, error) {
	sa, err := filenames(a)
	if err != nil {
		return Diff{}, err
	}
	sb, err := filenames(b)
	if err != nil {
		return Diff{}, err
	}
	return Diff{OnlyA: minus(sa, sb), OnlyB: minus(sb, sa)}, nil
}

// YearDiff is the per-year count of filenames only in one table.
type YearDiff struct {
	Year  int
	OnlyA int
	OnlyB int
}

// ByYear repeats Differences within each year, for every year from the
// earliest to the latest seen in either table, gaps included. Rows whose
// year is not a number are ignored. Returns nil when neither table has a
// numeric year.
func ByYear(a, b *record.Table) ([]YearDiff, error) {
	ya, err := byYear(a)
	if err != nil {
		return nil, err
	}
	yb, err := byYear(b)
	if err != nil {
		return nil, err
	}
	lo, hi, ok := span(ya, yb)
	if !ok {
		return nil, nil
	}
	out := make([]YearDiff, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, YearDiff{
			Year:  y,
			OnlyA: len(minus(ya[y], yb[y])),
			OnlyB: len(minus(yb[y], ya[y])),
		})
	}
	return out, nil
}

// Merge returns every row of a followed by the rows of b whose filename
// is not in a, in b's order. On a collision a's row wins. The header is a's
// header plus any columns only b has; cells a table lacks are left empty.
func Merge(a, b *record.Table) (*record.Table, error) {
	fa, err := a.Col(record.ColFilename)
	if err != nil {
		return nil, err
	}
	fb, err := b.Col(record.ColFilename)
	if err != nil {
		return nil, err
	}

	header := append([]string(nil), a.Header...)
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	for _, h := range b.Header {
		if _, ok := pos[h]; !ok {
			pos[h] = len(header)
			header = append(header, h)
		}
	}

	out := &record.Table{Header: header, Missing: a.Missing}
	seen := make(map[string]struct{}, len(a.Rows))
	for _, row := range a.Rows {
		seen[cell(row, fa)] = struct{}{}
		out.Rows = append(out.Rows, widen(row, len(header)))
	}
	for _, row := range b.Rows {
		if _, dup := seen[cell(row, fb)]; dup {
			continue
		}
		r := make([]string, len(header))
		for i, h := range b.Header {
			if i < len(row) {
				r[pos[h]] = row[i]
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// ParseYear reads a year cell. Integral floats such as "2021.0", which
// spreadsheet round trips produce, are accepted and rounded.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

type set map[string]struct{}

func filenames(t *record.Table) (set, error) {
	c, err := t.Col(record.ColFilename)
	if err != nil {
		return nil, fmt.Errorf("filenames: %w", err)
	}
	s := make(set, len(t.Rows))
	for _, row := range t.Rows {
		if !t.IsMissing(row, c) {
			s[row[c]] = struct{}{}
		}
	}
	return s, nil
}

func byYear(t *record.Table) (map[int]set, error) {
	fc, err := t.Col(record.ColFilename)
	if err != nil {
		return nil, err
	}
	yc, err := t.Col(record.ColYear)
	if err != nil {
		return nil, err
	}
	out := map[int]set{}
	for _, row := range t.Rows {
		if t.IsMissing(row, fc) || t.IsMissing(row, yc) {
			continue
		}
		y, ok := ParseYear(row[yc])
		if !ok {
			continue
		}
		if out[y] == nil {
			out[y] = set{}
		}
		out[y][row[fc]] = struct{}{}
	}
	return out, nil
}

func span(ms ...map[int]set) (lo, hi int, ok bool) {
	for _, m := range ms {
		for y := range m {
			if !ok || y < lo {
				lo = y
			}
			if !ok || y > hi {
				hi = y
			}
			ok = true
		}
	}
	return lo, hi, ok
}

// minus returns the sorted members of a not in b.
func minus(a, b set) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func cell(row []string, c int) string {
	if c < len(row) {
		return row[c]
	}
	return ""
}

func widen(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	r := make([]string, n)
	copy(r, row)
	return r
}
