package rules

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads rule sheets from a local workbook.
type XLSXReader struct {
	f *excelize.File
}

// OpenXLSX opens a workbook file.
func OpenXLSX(path string) (*XLSXReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &XLSXReader{f: f}, nil
}

// NewXLSXReader reads a workbook from r.
func NewXLSXReader(r io.Reader) (*XLSXReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &XLSXReader{f: f}, nil
}

// Sheets lists the worksheet names.
func (x *XLSXReader) Sheets() []string {
	return x.f.GetSheetList()
}

func (x *XLSXReader) ReadRange(ctx context.Context, sheet, rangeSpec string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := parseRange(rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", rangeSpec, err)
	}
	rows, err := x.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return r.crop(rows), nil
}

// Close releases the workbook.
func (x *XLSXReader) Close() error {
	return x.f.Close()
}
