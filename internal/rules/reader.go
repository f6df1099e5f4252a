package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader reads ranges of cells from a spreadsheet.
type SheetReader interface {
	// ReadRange returns the rows of rangeSpec in sheet. rangeSpec is an
	// A1 range ("A1:F200"), a column range ("A:F") or empty for the whole
	// sheet. Cells are returned as text.
	ReadRange(ctx context.Context, sheet, rangeSpec string) ([][]string, error)
}

// cellRange is a parsed A1 range. Zero bounds are open.
type cellRange struct {
	col1, row1, col2, row2 int
}

func parseRange(ref string) (cellRange, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return cellRange{}, nil
	}
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		to = from
	}
	c1, r1, err := parseCorner(from)
	if err != nil {
		return cellRange{}, err
	}
	c2, r2, err := parseCorner(to)
	if err != nil {
		return cellRange{}, err
	}
	return cellRange{col1: c1, row1: r1, col2: c2, row2: r2}, nil
}

// parseCorner accepts "B3" or "B".
func parseCorner(s string) (col, row int, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, 0, fmt.Errorf("empty range corner")
	}
	if strings.IndexAny(s, "0123456789") < 0 {
		col, err = excelize.ColumnNameToNumber(s)
		return col, 0, err
	}
	return excelize.CellNameToCoordinates(s)
}

// crop cuts rows down to r. Rows keep their trailing cells trimmed the way
// spreadsheet APIs return them.
func (r cellRange) crop(rows [][]string) [][]string {
	first, last := 1, len(rows)
	if r.row1 > 0 {
		first = r.row1
	}
	if r.row2 > 0 && r.row2 < last {
		last = r.row2
	}
	var out [][]string
	for i := first; i <= last; i++ {
		row := rows[i-1]
		c1, c2 := 1, len(row)
		if r.col1 > 0 {
			c1 = r.col1
		}
		if r.col2 > 0 && r.col2 < c2 {
			c2 = r.col2
		}
		var cells []string
		if c1 <= c2 {
			cells = append([]string(nil), row[c1-1:c2]...)
		}
		out = append(out, cells)
	}
	return out
}

// StaticReader serves rows from memory, keyed by sheet name.
type StaticReader map[string][][]string

func (s StaticReader) ReadRange(ctx context.Context, sheet, rangeSpec string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, ok := s[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	r, err := parseRange(rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", rangeSpec, err)
	}
	return r.crop(rows), nil
}
