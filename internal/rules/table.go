package rules

import (
	"strings"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// NormalizeHeader folds a header for lookup: case, accents and spacing are
// ignored.
func NormalizeHeader(s string) string {
	return ir.FoldKey(s)
}

// Table is a sheet whose first row is a header.
type Table struct {
	index map[string]int
	rows  [][]string
}

// NewTable builds a table from raw rows. The first row becomes the header;
// empty header cells are not addressable. Later duplicates of a header
// are ignored.
func NewTable(rows [][]string) *Table {
	t := &Table{index: make(map[string]int)}
	if len(rows) == 0 {
		return t
	}
	for i, h := range rows[0] {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	t.rows = rows[1:]
	return t
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Column returns the index of the first header matching any of names.
func (t *Table) Column(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := t.index[NormalizeHeader(n)]; ok {
			return i, true
		}
	}
	return 0, false
}

// Has reports whether any of names is a header.
func (t *Table) Has(names ...string) bool {
	_, ok := t.Column(names...)
	return ok
}

// Cell returns the trimmed cell of row under the first matching header,
// or "" when the header or cell is missing.
func (t *Table) Cell(row int, names ...string) string {
	col, ok := t.Column(names...)
	if !ok || row < 0 || row >= len(t.rows) || col >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][col])
}
