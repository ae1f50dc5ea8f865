// Package dataset provides a small in-memory tabular dataset with
// ordered columns, CSV/JSON codecs, and the relational helpers the
// zone pipelines need (derive, join, group-by, sort).
package dataset

import (
	"fmt"
)

// Value is a single cell value. Supported types are int64, float64,
// bool, string, time.Time, and nil for missing values.
type Value = any

// Dataset is a table with an ordered set of named columns.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty dataset with the given column order.
func New(columns ...string) *Dataset {
	d := &Dataset{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		d.index[c] = i
	}
	return d
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// HasColumn reports whether the dataset has a column with this name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	return len(d.rows)
}

// AppendRow adds a row. The number of values must match the number of
// columns.
func (d *Dataset) AppendRow(values ...Value) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("row has %d values, dataset has %d columns", len(values), len(d.columns))
	}
	d.rows = append(d.rows, append([]Value(nil), values...))
	return nil
}

// Column returns all values of a column in row order.
func (d *Dataset) Column(name string) ([]Value, bool) {
	idx, ok := d.index[name]
	if !ok {
		return nil, false
	}
	values := make([]Value, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idx]
	}
	return values, true
}

// Row is a view of a single row.
type Row struct {
	d *Dataset
	i int
}

// Row returns a view of row i.
func (d *Dataset) Row(i int) Row {
	return Row{d: d, i: i}
}

// Get returns the value of the named column, or nil if the column
// does not exist.
func (r Row) Get(column string) Value {
	idx, ok := r.d.index[column]
	if !ok {
		return nil
	}
	return r.d.rows[r.i][idx]
}

// AddColumn appends a column derived from each row.
func (d *Dataset) AddColumn(name string, derive func(Row) Value) {
	d.columns = append(d.columns, name)
	d.index[name] = len(d.columns) - 1
	for i := range d.rows {
		d.rows[i] = append(d.rows[i], derive(Row{d: d, i: i}))
	}
}

// MapColumn replaces each value of a column with fn(value).
func (d *Dataset) MapColumn(name string, fn func(Value) Value) error {
	idx, ok := d.index[name]
	if !ok {
		return fmt.Errorf("column %q does not exist", name)
	}
	for i := range d.rows {
		d.rows[i][idx] = fn(d.rows[i][idx])
	}
	return nil
}

// RenameColumn changes the name of a column in place.
func (d *Dataset) RenameColumn(old, name string) error {
	idx, ok := d.index[old]
	if !ok {
		return fmt.Errorf("column %q does not exist", old)
	}
	if d.HasColumn(name) {
		return fmt.Errorf("column %q already exists", name)
	}
	d.columns[idx] = name
	delete(d.index, old)
	d.index[name] = idx
	return nil
}

// Select returns a new dataset with only the given columns, in the
// given order.
func (d *Dataset) Select(columns ...string) (*Dataset, error) {
	indices := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := d.index[c]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist", c)
		}
		indices[i] = idx
	}

	out := New(columns...)
	for _, row := range d.rows {
		values := make([]Value, len(indices))
		for i, idx := range indices {
			values[i] = row[idx]
		}
		out.rows = append(out.rows, values)
	}
	return out, nil
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := New(d.columns...)
	out.rows = make([][]Value, len(d.rows))
	for i, row := range d.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}
