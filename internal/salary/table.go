package salary

import (
	"errors"
	"fmt"
	"strings"
)

// Rule maps a set of currency markers to a fixed conversion rate into the
// reference currency (GBP). Markers are tried in slice order.
type Rule struct {
	Name    string   `yaml:"name" json:"name"`
	Markers []string `yaml:"markers" json:"markers"`
	Rate    float64  `yaml:"rate" json:"rate"`
}

// Table is an ordered list of rules. Iteration order is slice order and is
// significant: generic symbols such as a bare "$" must come after the
// specific codes that contain them, or they would claim those matches.
type Table []Rule

// Rates as of September 2023.
var defaultTable = Table{
	{Name: "GBP", Markers: []string{"£", "GBP"}, Rate: 1},
	{Name: "EUR", Markers: []string{"€", "EUR"}, Rate: 0.85},
	{Name: "SEK", Markers: []string{"SEK"}, Rate: 0.07},
	{Name: "DKK", Markers: []string{"DKK"}, Rate: 0.11},
	{Name: "CHF", Markers: []string{"CHF"}, Rate: 0.90},
	{Name: "MOP", Markers: []string{"MOP"}, Rate: 0.098},
	{Name: "RMB", Markers: []string{"RMB"}, Rate: 0.11},
	{Name: "JPY", Markers: []string{"JPY"}, Rate: 0.0054},
	{Name: "AUD", Markers: []string{"A$", "AUD$", "AUD $", "AUD"}, Rate: 0.51},
	{Name: "CAD", Markers: []string{"CAD$", "CAD $", "CAD"}, Rate: 0.58},
	{Name: "HKD", Markers: []string{"HKD$", "HK $", "HKD"}, Rate: 0.10},
	{Name: "NZD", Markers: []string{"NZD$", "NZD $", "NZD"}, Rate: 0.47},
	{Name: "SGD", Markers: []string{"S$", "SGD$", "SGD $", "SGD"}, Rate: 0.58},
	{Name: "COP", Markers: []string{"Col$", "COP"}, Rate: 0.00019},
	{Name: "USD", Markers: []string{"USD$", "USD", "$"}, Rate: 0.79},
}

// DefaultTable returns a copy of the built-in currency table.
func DefaultTable() Table {
	out := make(Table, len(defaultTable))
	for i, r := range defaultTable {
		out[i] = Rule{Name: r.Name, Markers: append([]string(nil), r.Markers...), Rate: r.Rate}
	}
	return out
}

// Validate checks that the table can be scanned: at least one rule, every
// rule with a name, a positive rate and non-blank markers.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("currency table is empty")
	}
	seen := map[string]struct{}{}
	for i, r := range t {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("currency rule %d: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("currency rule %q: duplicate name", name)
		}
		seen[name] = struct{}{}
		if r.Rate <= 0 {
			return fmt.Errorf("currency rule %q: rate must be positive", name)
		}
		if len(r.Markers) == 0 {
			return fmt.Errorf("currency rule %q: no markers", name)
		}
		for _, m := range r.Markers {
			if strings.TrimSpace(m) == "" {
				return fmt.Errorf("currency rule %q: blank marker", name)
			}
		}
	}
	return nil
}
