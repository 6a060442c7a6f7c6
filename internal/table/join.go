package table

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Suffixes applied to overlapping non-key columns in LeftJoin.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// LeftJoin joins right onto t by key. Every row of t survives in its original
// order. A left row matching several right rows is repeated once per match,
// in right-table order. Absent keys never match. Keys compare after trimming
// surrounding whitespace.
func (t *Table) LeftJoin(right *Table, key string) (*Table, error) {
	lk, ok := t.index[key]
	if !ok {
		return nil, eris.Errorf("table: left table missing join key %q", key)
	}
	rk, ok := right.index[key]
	if !ok {
		return nil, eris.Errorf("table: right table missing join key %q", key)
	}

	cols, rightCols := joinColumns(t.columns, right.columns, key)

	matches := make(map[string][]int)
	for i, row := range right.rows {
		c := row[rk]
		if !c.Valid {
			continue
		}
		k := strings.TrimSpace(c.Raw)
		matches[k] = append(matches[k], i)
	}

	width := len(cols)
	var rows [][]Cell
	for _, lrow := range t.rows {
		var hits []int
		if c := lrow[lk]; c.Valid {
			hits = matches[strings.TrimSpace(c.Raw)]
		}
		if len(hits) == 0 {
			r := make([]Cell, width)
			copy(r, lrow)
			rows = append(rows, r)
			continue
		}
		for _, ri := range hits {
			r := make([]Cell, width)
			copy(r, lrow)
			for n, rj := range rightCols {
				r[len(t.columns)+n] = right.rows[ri][rj]
			}
			rows = append(rows, r)
		}
	}

	return New(cols, rows)
}

// DuplicateKeys returns the values of key that occur more than once, in
// first-appearance order.
func (t *Table) DuplicateKeys(key string) []string {
	j, ok := t.index[key]
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, row := range t.rows {
		c := row[j]
		if !c.Valid {
			continue
		}
		k := strings.TrimSpace(c.Raw)
		counts[k]++
		if counts[k] == 2 {
			order = append(order, k)
		}
	}
	return order
}

// joinColumns returns the output header and the right-table column indexes
// appended after the left columns.
func joinColumns(left, right []string, key string) ([]string, []int) {
	inRight := make(map[string]bool, len(right))
	for _, c := range right {
		inRight[c] = true
	}
	inLeft := make(map[string]bool, len(left))
	for _, c := range left {
		inLeft[c] = true
	}

	cols := make([]string, 0, len(left)+len(right)-1)
	for _, c := range left {
		if c != key && inRight[c] {
			cols = append(cols, c+LeftSuffix)
			continue
		}
		cols = append(cols, c)
	}

	var idx []int
	for j, c := range right {
		if c == key {
			continue
		}
		if inLeft[c] {
			cols = append(cols, c+RightSuffix)
		} else {
			cols = append(cols, c)
		}
		idx = append(idx, j)
	}
	return cols, idx
}
