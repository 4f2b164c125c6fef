// Package salary turns the free-text salary field of an advert into one
// annual figure in the reference currency.
package salary

import (
	"math"
	"strconv"
	"strings"

	"github.com/hyperifyio/goadverts/internal/field"
)

// Plausibility bounds in the reference currency. Values at or below the
// floor are hourly rates or grade numbers; values above the ceiling are
// data-entry errors.
const (
	Floor   = 12000.0
	Ceiling = 500000.0
)

// Result is a normalised salary with the provenance of the figure.
type Result struct {
	Value      float64
	Found      bool
	Raw        string    // salary text as found in the advert
	Currency   string    // rule name that produced Value
	Marker     string    // marker within that rule
	Candidates []float64 // converted values averaged into Value
}

// Cell renders the value for a table, or token when no salary was found.
func (r Result) Cell(token string) string {
	if !r.Found {
		return token
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// Normalize extracts a salary from text using the rules in t. A missing
// text, or one where no marker yields a plausible value, gives a Result
// with Found false.
func Normalize(text field.Value, t Table) Result {
	raw, ok := text.Get()
	if !ok {
		return Result{}
	}
	res := Result{Raw: raw}
	cleaned := Clean(raw)
	for _, rule := range t {
		for _, marker := range rule.Markers {
			vals := scan(cleaned, marker, rule.Rate)
			if len(vals) == 0 {
				continue
			}
			res.Value = mean(vals)
			res.Found = true
			res.Currency = rule.Name
			res.Marker = marker
			res.Candidates = vals
			return res
		}
	}
	return res
}

var blanker = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ", "(", " ", ")", " ", ",", "")

// rangeJoins are applied one after another: slashes become hyphens first,
// then "a - b" loses the space after the hyphen and then the one before it.
var rangeJoins = [][2]string{{" /", "-"}, {"/ ", "-"}, {"/", "-"}, {"- ", "-"}, {" -", "-"}}

// Clean prepares salary text for scanning: line breaks, tabs and brackets
// become spaces, thousands separators go, whitespace is collapsed, and
// ranges written with padded hyphens or slashes become plain hyphens.
func Clean(s string) string {
	s = field.Clean(blanker.Replace(s))
	for _, j := range rangeJoins {
		s = strings.ReplaceAll(s, j[0], j[1])
	}
	return s
}

// noise is removed from each token in order.
var noise = []string{"pa", "PA", "p.a.", "per", "+", "*", ";"}

// scan returns every plausible converted value that follows an occurrence
// of marker in s. The high end of a range is queued and scanned in turn.
func scan(s, marker string, rate float64) []float64 {
	parts := strings.Split(s, marker)
	if len(parts) < 2 {
		return nil
	}
	queue := parts[1:]
	var out []float64
	for i := 0; i < len(queue); i++ {
		tok := strings.TrimSpace(queue[i])
		if j := strings.IndexByte(tok, ' '); j >= 0 {
			tok = tok[:j]
		}
		for _, n := range noise {
			tok = strings.ReplaceAll(tok, n, "")
		}
		tok = strings.Trim(tok, "-")
		tok = strings.ReplaceAll(tok, "k", "000")
		tok = strings.ReplaceAll(tok, "K", "000")
		if lo, hi, ok := strings.Cut(tok, "-"); ok {
			tok = lo
			if h, _, _ := strings.Cut(hi, "-"); h != "" {
				queue = append(queue, h)
			}
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v *= rate
		if v <= Floor || v > Ceiling {
			continue
		}
		out = append(out, v)
	}
	return out
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
