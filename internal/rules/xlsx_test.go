package rules

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}
	return f
}

func TestXLSXReaderFromFile(t *testing.T) {
	f := writeWorkbook(t, map[string][][]any{
		"MATRIZ": {
			{"Código", "Origen del metrado", "Auditoría"},
			{"C.01.02", "AUTOMATICO", "✓"},
			{"C.03.04", "MANUAL", ""},
		},
	})
	path := filepath.Join(t.TempDir(), "rules.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	r, err := OpenXLSX(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"MATRIZ"}, r.Sheets())

	rows, err := r.ReadRange(context.Background(), "MATRIZ", "A1:B2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Código", "Origen del metrado"}, {"C.01.02", "AUTOMATICO"}}, rows)

	_, err = r.ReadRange(context.Background(), "NOPE", "")
	assert.Error(t, err)
}

func TestXLSXReaderFromBuffer(t *testing.T) {
	f := writeWorkbook(t, map[string][][]any{
		"PALABRAS": {{"Lista", "Palabra"}, {"WIP", "JPEREZ"}},
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	r, err := NewXLSXReader(buf)
	require.NoError(t, err)
	defer r.Close()

	rows, err := r.ReadRange(context.Background(), "PALABRAS", "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Lista", "Palabra"}, {"WIP", "JPEREZ"}}, rows)
}

func TestOpenXLSXMissingFile(t *testing.T) {
	_, err := OpenXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
