package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

func TestTableHeaderFolding(t *testing.T) {
	tbl := NewTable([][]string{
		{" Código ", "Origen  del Metrado", "", "codigo"},
		{"C.01.02", " MANUAL ", "x", "dup"},
		{"C.03.04"},
	})

	assert.Equal(t, 2, tbl.Len())
	col, ok := tbl.Column("CODIGO")
	require.True(t, ok)
	assert.Equal(t, 0, col)

	assert.Equal(t, "MANUAL", tbl.Cell(0, "origen del metrado"))
	assert.Equal(t, "", tbl.Cell(1, "ORIGEN DEL METRADO"))
	assert.Equal(t, "", tbl.Cell(0, "MISSING"))
	assert.Equal(t, "", tbl.Cell(9, "CODIGO"))
	assert.Equal(t, "C.03.04", tbl.Cell(1, "missing", "codigo"))
}

func TestEmptyTable(t *testing.T) {
	tbl := NewTable(nil)
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Has("CODIGO"))
}

func TestParseMatrix(t *testing.T) {
	tbl := NewTable([][]string{
		{"CODIGO", "ORIGEN DEL METRADO", "AUDITORIA", "NUMERO 1", "DESCRIPCION 1", "NUMERO 2", "DESCRIPCION 2"},
		{"C.01.02", "", "✓", "01", "Estructuras", "02", "Muros de concreto"},
		{"C.01.02", "MANUAL", "", "", "dup", "", ""},
		{"no code", "", "", "", "", "", ""},
		{"C.03.04", "MANUAL", "", "03", "Acabados", "", ""},
	})

	entries, err := ParseMatrix(tbl)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ir.AssemblyCode("C.01.02"), entries[0].Code)
	assert.Equal(t, "Muros de concreto", entries[0].Description())
	assert.Equal(t, "01", entries[0].Classifications[0].Number)
	assert.Equal(t, "Acabados", entries[1].Description())
	assert.Equal(t, "MANUAL", entries[1].Origin)
}

func TestParseMatrixWithoutCodeColumn(t *testing.T) {
	_, err := ParseMatrix(NewTable([][]string{{"A", "B"}}))
	assert.Error(t, err)
}
