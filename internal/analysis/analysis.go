// Package analysis picks out adverts of interest by title keywords and
// summarises them per year.
package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperifyio/goadverts/internal/dataset"
	"github.com/hyperifyio/goadverts/internal/field"
	"github.com/hyperifyio/goadverts/internal/record"
)

// Title stems matched as substrings, so "data scien" catches both science
// and scientist.
var (
	DefaultInterest = []string{"data scien", "data engineer", "software developer", "software engineer", "research engineer", "bioinformatic"}
	DefaultAvoid    = []string{"lectur", "fellow", "student", "tutor"}
)

// Terms is a keyword configuration.
type Terms struct {
	Interest []string `yaml:"interest" json:"interest"`
	Avoid    []string `yaml:"avoid" json:"avoid"`
}

// DefaultTerms returns copies of the default keyword lists.
func DefaultTerms() Terms {
	return Terms{
		Interest: append([]string(nil), DefaultInterest...),
		Avoid:    append([]string(nil), DefaultAvoid...),
	}
}

// Normalized lower-cases and trims every term and drops blanks.
func (t Terms) Normalized() Terms {
	clean := func(in []string) []string {
		var out []string
		for _, s := range in {
			if s = field.Lower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return Terms{Interest: clean(t.Interest), Avoid: clean(t.Avoid)}
}

// DropMissingTitles keeps rows that have a title.
func DropMissingTitles(t *record.Table) (*record.Table, error) {
	c, err := t.Col(record.ColTitle)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(row []string) bool { return !t.IsMissing(row, c) }), nil
}

// DropBadRows keeps rows with a title and a date whose year starts with
// "2", which rules out years mangled by unusual date formats.
func DropBadRows(t *record.Table) (*record.Table, error) {
	tc, err := t.Col(record.ColTitle)
	if err != nil {
		return nil, err
	}
	dc, err := t.Col(record.ColDate)
	if err != nil {
		return nil, err
	}
	yc, err := t.Col(record.ColYear)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(row []string) bool {
		if t.IsMissing(row, tc) || t.IsMissing(row, dc) || t.IsMissing(row, yc) {
			return false
		}
		return strings.HasPrefix(strings.TrimSpace(row[yc]), "2")
	}), nil
}

// Flag values written into term columns.
const (
	True  = "True"
	False = "False"
)

// FlagInterest returns a copy of t with one column per interest term,
// holding True where the title contains the term. A column that already
// exists is overwritten.
func FlagInterest(t *record.Table, interest []string) (*record.Table, error) {
	tc, err := t.Col(record.ColTitle)
	if err != nil {
		return nil, err
	}
	header := append([]string(nil), t.Header...)
	cols := make([]int, len(interest))
	for i, term := range interest {
		c, err := t.Col(term)
		if err != nil {
			c = len(header)
			header = append(header, term)
		}
		cols[i] = c
	}
	out := &record.Table{Header: header, Missing: t.Missing, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		r := make([]string, len(header))
		copy(r, row)
		title := titleOf(t, row, tc)
		for i, term := range interest {
			r[cols[i]] = flag(strings.Contains(title, term))
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// Identify keeps rows whose title contains at least one interest term and
// none of the avoid terms.
func Identify(t *record.Table, terms Terms) (*record.Table, error) {
	tc, err := t.Col(record.ColTitle)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(row []string) bool {
		return Matches(titleOf(t, row, tc), terms)
	}), nil
}

// Matches applies the interest and avoid rules to one title. Terms are
// expected in lower case.
func Matches(title string, terms Terms) bool {
	title = field.Lower(title)
	if !containsAny(title, terms.Interest) {
		return false
	}
	return !containsAny(title, terms.Avoid)
}

// SummaryRow is one year of the summary.
type SummaryRow struct {
	Year    string
	All     int
	Matched int
	Percent float64 // Matched/All*100, rounded to 3 places
}

// Summarise counts all rows and identified rows per year. Only years with
// at least one identified row are reported, in ascending year order.
func Summarise(all, identified *record.Table) ([]SummaryRow, error) {
	total, err := perYear(all)
	if err != nil {
		return nil, err
	}
	matched, err := perYear(identified)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryRow, 0, len(matched))
	for y, m := range matched {
		n := total[y]
		var pct float64
		if n > 0 {
			pct = math.Round(float64(m)/float64(n)*100*1000) / 1000
		}
		out = append(out, SummaryRow{Year: y, All: n, Matched: m, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool { return yearLess(out[i].Year, out[j].Year) })
	return out, nil
}

// Summary table column names.
const (
	ColAll     = "number all jobs"
	ColMatched = "number identified jobs"
	ColPercent = "percentage identified jobs"
)

// SummaryTable renders rows as a table.
func SummaryTable(rows []SummaryRow) *record.Table {
	t := &record.Table{Header: []string{record.ColYear, ColAll, ColMatched, ColPercent}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Year,
			strconv.Itoa(r.All),
			strconv.Itoa(r.Matched),
			strconv.FormatFloat(r.Percent, 'f', -1, 64),
		})
	}
	return t
}

func perYear(t *record.Table) (map[string]int, error) {
	yc, err := t.Col(record.ColYear)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, row := range t.Rows {
		if t.IsMissing(row, yc) {
			continue
		}
		out[strings.TrimSpace(row[yc])]++
	}
	return out, nil
}

// yearLess orders numeric years numerically and anything else after them.
func yearLess(a, b string) bool {
	ya, okA := dataset.ParseYear(a)
	yb, okB := dataset.ParseYear(b)
	switch {
	case okA && okB:
		if ya != yb {
			return ya < yb
		}
		return a < b
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

func titleOf(t *record.Table, row []string, c int) string {
	if t.IsMissing(row, c) {
		return ""
	}
	return field.Lower(row[c])
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func flag(b bool) string {
	if b {
		return True
	}
	return False
}
