// Package table provides an immutable in-memory table of optional string cells
// with the handful of dataframe operations the dashboard needs.
package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Cell is a single table value. An absent cell has Valid == false.
type Cell struct {
	Raw   string
	Valid bool
}

// Value returns a present cell holding s.
func Value(s string) Cell {
	return Cell{Raw: s, Valid: true}
}

// Null is the absent cell.
var Null = Cell{}

// Float parses the cell as a number. Absent, non-numeric, NaN and infinite
// cells report false.
func (c Cell) Float() (float64, bool) {
	if !c.Valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns the raw text, or "" for an absent cell.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Raw
}

// Table is an ordered set of named columns over rows of cells. Tables are
// never mutated once built; every operation returns a new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New builds a table from a header and rows. Rows shorter than the header are
// padded with absent cells; longer rows are an error.
func New(columns []string, rows [][]Cell) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, eris.Errorf("table: duplicate column %q", col)
		}
		index[col] = i
	}

	out := make([][]Cell, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, eris.Errorf("table: row %d has %d fields, header has %d", i+1, len(row), len(columns))
		}
		r := make([]Cell, len(columns))
		copy(r, row)
		out[i] = r
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    out,
	}, nil
}

// FromStrings builds a table from string records, treating empty fields as absent.
func FromStrings(columns []string, records [][]string) (*Table, error) {
	rows := make([][]Cell, len(records))
	for i, rec := range records {
		row := make([]Cell, len(rec))
		for j, v := range rec {
			if v != "" {
				row[j] = Value(v)
			}
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Has reports whether every named column exists.
func (t *Table) Has(cols ...string) bool {
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Cell returns the value at row i of column col. Unknown columns are absent.
func (t *Table) Cell(i int, col string) Cell {
	j, ok := t.index[col]
	if !ok {
		return Null
	}
	return t.rows[i][j]
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Cell {
	return append([]Cell(nil), t.rows[i]...)
}

// Records returns every row as strings, absent cells as "".
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.String()
		}
		out[i] = rec
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return t.Filter(func(int) bool { return true })
}

// Filter returns the rows for which keep returns true, in order.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var rows [][]Cell
	for i, row := range t.rows {
		if keep(i) {
			rows = append(rows, append([]Cell(nil), row...))
		}
	}
	return &Table{columns: t.Columns(), index: t.cloneIndex(), rows: rows}
}

// WithColumn returns a copy with col appended (or replaced when it already
// exists), its values produced by fn for each row.
func (t *Table) WithColumn(col string, fn func(i int) Cell) *Table {
	cols := t.Columns()
	idx := t.cloneIndex()
	j, exists := idx[col]
	if !exists {
		j = len(cols)
		cols = append(cols, col)
		idx[col] = j
	}

	rows := make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		r := make([]Cell, len(cols))
		copy(r, row)
		r[j] = fn(i)
		rows[i] = r
	}
	return &Table{columns: cols, index: idx, rows: rows}
}

// Distinct returns the present values of col in first-appearance order.
func (t *Table) Distinct(col string) []string {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.rows {
		c := row[j]
		if !c.Valid || seen[c.Raw] {
			continue
		}
		seen[c.Raw] = true
		out = append(out, c.Raw)
	}
	return out
}

// Equal reports whether two tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i, c := range t.columns {
		if o.columns[i] != c {
			return false
		}
	}
	for i, row := range t.rows {
		for j, c := range row {
			if o.rows[i][j] != c {
				return false
			}
		}
	}
	return true
}

func (t *Table) cloneIndex() map[string]int {
	idx := make(map[string]int, len(t.index))
	for k, v := range t.index {
		idx[k] = v
	}
	return idx
}
