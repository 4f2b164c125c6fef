// Package record defines the extracted advert row and the table it is
// written into.
package record

import (
	"github.com/hyperifyio/goadverts/internal/field"
	"github.com/hyperifyio/goadverts/internal/salary"
)

// Column names of the processed table, in output order.
const (
	ColFilename     = "filename"
	ColTitle        = "title"
	ColDate         = "date"
	ColYear         = "year"
	ColSalary       = "salary"
	ColRole         = "role"
	ColOrganisation = "organisation"
	ColLocation     = "location"
)

// Columns is the header of a processed table.
var Columns = []string{ColFilename, ColTitle, ColDate, ColYear, ColSalary, ColRole, ColOrganisation, ColLocation}

// Record is one advert. Filename is always set; it is the natural key.
type Record struct {
	Filename     string
	Title        field.Value
	Date         field.Value
	Year         field.Value
	Salary       salary.Result
	Role         field.Value
	Organisation field.Value
	Location     field.Value
}

// Sparse is the record for a file that is not an advert, or that could not
// be read: only the filename is set.
func Sparse(filename string) Record {
	return Record{Filename: filename}
}

// LikelyFailed reports whether neither title nor date was found, which is
// the usual sign that the page did not parse as an advert.
func (r Record) LikelyFailed() bool {
	return r.Title.IsMissing() && r.Date.IsMissing()
}

// Row renders the record in Columns order, writing missing for absent
// fields.
func (r Record) Row(missing string) []string {
	return []string{
		r.Filename,
		r.Title.Or(missing),
		r.Date.Or(missing),
		r.Year.Or(missing),
		r.Salary.Cell(missing),
		r.Role.Or(missing),
		r.Organisation.Or(missing),
		r.Location.Or(missing),
	}
}

// ToTable renders records into a table with the standard header.
func ToTable(recs []Record, missing string) *Table {
	t := &Table{Header: append([]string(nil), Columns...), Missing: missing}
	t.Rows = make([][]string, 0, len(recs))
	for _, r := range recs {
		t.Rows = append(t.Rows, r.Row(missing))
	}
	return t
}
