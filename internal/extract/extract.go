// Package extract pulls advert fields out of a parsed document. Each field
// has an ordered list of strategies; the first that finds something wins.
// Advert templates vary, so a miss is normal and never an error.
package extract

import (
	"strings"

	"github.com/hyperifyio/goadverts/internal/field"
	"github.com/hyperifyio/goadverts/internal/query"
)

// Strategy is one way of locating a field.
type Strategy func(*query.Document) field.Value

// FirstOf applies strategies in order and returns the first found value.
func FirstOf(doc *query.Document, strategies ...Strategy) field.Value {
	for _, s := range strategies {
		if v := s(doc); !v.IsMissing() {
			return v
		}
	}
	return field.Missing()
}

const (
	roleLabel     = "Type / Role:"
	roleFormClass = "j-form-input ie-11-width"
)

var (
	titleStrategies = []Strategy{
		elementText("h1"),
	}
	dateStrategies = []Strategy{
		labelledCell("td", "Placed on:"),
		labelledCell("th", "Placed On:"),
	}
	roleStrategies = []Strategy{
		labelledNextSibling("p", roleLabel, "p"),
		labelledNext("p", roleLabel, "a"),
		labelledFormInput("b", roleLabel),
		labelledFormInput("p", roleLabel),
	}
	organisationStrategies = []Strategy{
		elementText("h3"),
	}
	locationStrategies = []Strategy{
		labelledCell("td", "Location:"),
		labelledCell("th", "Location:"),
	}
	salaryStrategies = []Strategy{
		labelledCell("th", "Salary:"),
		labelledCell("td", "Salary:"),
	}
)

// Title is the first level-one heading, normalised.
func Title(doc *query.Document) field.Value {
	return FirstOf(doc, titleStrategies...).Map(field.Normalize)
}

// Date is the cell next to the "Placed on" label, trimmed but otherwise as
// written. Two shapes occur: locale (01/05/2023) and ISO-like (2023-05-01).
func Date(doc *query.Document) field.Value {
	return FirstOf(doc, dateStrategies...).Map(strings.TrimSpace)
}

// Role is the job family.
func Role(doc *query.Document) field.Value {
	return FirstOf(doc, roleStrategies...).Map(field.Normalize)
}

// Organisation is the part of the first level-three heading before the
// first hyphen.
func Organisation(doc *query.Document) field.Value {
	return FirstOf(doc, organisationStrategies...).Map(func(s string) string {
		left, _, _ := strings.Cut(s, "-")
		return field.Normalize(left)
	})
}

// Location is the cell next to the "Location:" label.
func Location(doc *query.Document) field.Value {
	return FirstOf(doc, locationStrategies...).Map(field.Normalize)
}

// SalaryText is the raw salary cell; see package salary for parsing it.
func SalaryText(doc *query.Document) field.Value {
	return FirstOf(doc, salaryStrategies...)
}

// DeriveYear takes the year from a date: the first four characters of an
// ISO-like date (contains a hyphen), otherwise the last four.
func DeriveYear(date field.Value) field.Value {
	d, ok := date.Get()
	if !ok {
		return field.Missing()
	}
	r := []rune(d)
	if len(r) < 4 {
		return field.Missing()
	}
	if strings.Contains(d, "-") {
		return field.Found(string(r[:4]))
	}
	return field.Found(string(r[len(r)-4:]))
}

func elementText(tag string) Strategy {
	return func(doc *query.Document) field.Value {
		return field.Found(doc.First(tag).Text())
	}
}

// labelledCell finds a labelTag whose text is exactly label and returns the
// text of the next td alongside it.
func labelledCell(labelTag, label string) Strategy {
	return labelledNextSibling(labelTag, label, "td")
}

func labelledNextSibling(labelTag, label, valueTag string) Strategy {
	return func(doc *query.Document) field.Value {
		return field.Found(doc.First(labelTag, query.TextIs(label)).NextSibling(valueTag).Text())
	}
}

func labelledNext(labelTag, label, valueTag string) Strategy {
	return func(doc *query.Document) field.Value {
		return field.Found(doc.First(labelTag, query.TextIs(label)).Next(valueTag).Text())
	}
}

// labelledFormInput reads the value of the first input inside the form
// wrapper that follows the label. Some templates render the role as a
// read-only form field.
func labelledFormInput(labelTag, label string) Strategy {
	return func(doc *query.Document) field.Value {
		v, ok := doc.First(labelTag, query.TextIs(label)).
			Next("div", query.AttrIs("class", roleFormClass)).
			Next("input").
			Attr("value")
		if !ok {
			return field.Missing()
		}
		return field.Found(v)
	}
}
