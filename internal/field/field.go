// Package field holds the found-or-missing value type shared by the
// extractors and the text cleaning applied to extracted fields.
package field

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Value is the result of extracting one field from an advert. The zero Value
// is missing, which is distinct from any text that was actually found.
type Value struct {
	text  string
	found bool
}

// Found wraps extracted text. Blank text is treated as not found so that a
// found Value always carries something printable.
func Found(text string) Value {
	if strings.TrimSpace(text) == "" {
		return Value{}
	}
	return Value{text: text, found: true}
}

// Missing returns the not-found variant.
func Missing() Value { return Value{} }

// Get returns the text and whether it was found.
func (v Value) Get() (string, bool) { return v.text, v.found }

// IsMissing reports whether the field was not found.
func (v Value) IsMissing() bool { return !v.found }

// Or returns the text, or token when the field is missing.
func (v Value) Or(token string) string {
	if !v.found {
		return token
	}
	return v.text
}

// Map applies fn to found text. The result goes through Found again, so a
// transform that empties the text yields Missing.
func (v Value) Map(fn func(string) string) Value {
	if !v.found {
		return v
	}
	return Found(fn(v.text))
}

// Clean collapses whitespace runs (unicode.IsSpace, so newlines and
// non-breaking spaces too) into single spaces and trims the ends.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lower lower-cases s using Unicode case rules.
func Lower(s string) string {
	// Casers are stateful; one per call keeps this safe across workers.
	return cases.Lower(language.Und).String(s)
}

// Normalize is the standard treatment for free-text fields: newlines
// dropped, whitespace collapsed, lower-cased.
func Normalize(s string) string {
	return Lower(Clean(s))
}
