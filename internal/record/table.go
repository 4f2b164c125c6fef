package record

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when a table lacks a column an operation
// needs.
var ErrMissingColumn = errors.New("missing column")

// Table is a header plus string rows. Missing is the token that marks an
// absent cell; an empty cell is always treated as absent too.
type Table struct {
	Header  []string
	Rows    [][]string
	Missing string
}

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// IsMissing reports whether row[col] is absent.
func (t *Table) IsMissing(row []string, col int) bool {
	if col < 0 || col >= len(row) {
		return true
	}
	return row[col] == "" || row[col] == t.Missing
}

// Filter returns a table with the same header holding the rows for which
// keep is true. Rows are shared, not copied.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Header: t.Header, Missing: t.Missing}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// ReadCSV loads a table whose first row is the header. Short rows are
// padded so every row has len(Header) cells.
func ReadCSV(r io.Reader, missing string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, errors.New("read csv: no header row")
	}
	t := &Table{Header: all[0], Missing: missing}
	t.Rows = make([][]string, 0, len(all)-1)
	for _, row := range all[1:] {
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadCSVFile is ReadCSV over a file.
func ReadCSVFile(path, missing string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, missing)
}

// WriteCSV writes the header and rows with no index column.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile writes t to path and returns the bytes written, so callers
// can digest exactly what landed on disk.
func WriteCSVFile(path string, t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetName is the worksheet used for XLSX output.
const SheetName = "Adverts"

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	write := func(rowNum int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		vals := make([]any, len(cells))
		for i, c := range cells {
			vals[i] = c
		}
		return f.SetSheetRow(SheetName, cell, &vals)
	}
	if err := write(1, t.Header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 14)
	_ = f.SetColWidth(SheetName, "B", "B", 48)
	_ = f.SetColWidth(SheetName, "F", "H", 28)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
