package model

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Column is one named column of a long-format table. Numeric columns store
// values in Floats with NaN marking a missing cell; label columns store
// values in Strings with "" marking a missing cell.
type Column struct {
	Name    string
	Numeric bool
	Floats  []float64
	Strings []string
}

// Len returns the row count of the column.
func (c *Column) Len() int {
	if c.Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsMissing returns true when the cell at row i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return len(c.Strings[i]) < 1
}

// Label returns the cell at row i as a label suitable for index mapping.
// Numeric cells use the shortest round-trip float formatting.
func (c *Column) Label(i int) string {
	if c.Numeric {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// Table is a column-oriented long-format dataset. Columns are addressed by
// name and every column has the same row count.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		index: make(map[string]int),
	}
}

// Rows returns the row count shared by all columns.
func (t *Table) Rows() int {
	return t.rows
}

// Column resolves a column by name. A missing name fails with
// ErrUnresolvedColumn.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedColumn, "no column %q in table", name)
	}
	return t.cols[i], nil
}

func (t *Table) add(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return errors.Errorf("duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.rows {
		return errors.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}

	t.rows = c.Len()
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AddNumeric appends a numeric column. Use NaN for missing cells.
func (t *Table) AddNumeric(name string, vals []float64) error {
	return t.add(&Column{Name: name, Numeric: true, Floats: vals})
}

// AddString appends a label column. Use "" for missing cells.
func (t *Table) AddString(name string, vals []string) error {
	return t.add(&Column{Name: name, Numeric: false, Strings: vals})
}

// TableReader implementors instantiate a table from a byte stream.
type TableReader interface {
	ReadTable(data []byte) (*Table, error)
}

// NewTableFromFile reads and parses the named file with the given reader.
func NewTableFromFile(r TableReader, filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not READ table from %s", filename)
	}

	t, err := r.ReadTable(data)
	if err != nil {
		return nil, errors.Wrapf(err, "could not PARSE table from %s", filename)
	}

	return t, nil
}

// CSVReader reads comma-separated data with a header row. A column is
// numeric when every non-empty cell parses as a float; otherwise it is kept
// as a label column. Empty cells and the conventional "NA" marker are
// missing values in either kind of column.
type CSVReader struct {
	Comma rune // field delimiter - 0 means comma
}

// csvMissing is true for cell encodings that mean "no value"
func csvMissing(cell string) bool {
	return len(cell) < 1 || cell == "NA"
}

// ReadTable implements the TableReader interface.
func (r CSVReader) ReadTable(data []byte) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse CSV")
	}
	if len(recs) < 2 {
		return nil, errors.Errorf("CSV needs a header row and at least one data row, found %d lines", len(recs))
	}

	header := recs[0]
	body := recs[1:]

	t := NewTable()
	for ci, name := range header {
		numeric := true
		for _, rec := range body {
			cell := rec[ci]
			if csvMissing(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}

		if numeric {
			vals := make([]float64, len(body))
			for ri, rec := range body {
				if csvMissing(rec[ci]) {
					vals[ri] = math.NaN()
					continue
				}
				vals[ri], _ = strconv.ParseFloat(rec[ci], 64)
			}
			err = t.AddNumeric(name, vals)
		} else {
			vals := make([]string, len(body))
			for ri, rec := range body {
				if csvMissing(rec[ci]) {
					continue
				}
				vals[ri] = rec[ci]
			}
			err = t.AddString(name, vals)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not add CSV column %q", name)
		}
	}

	return t, nil
}
