package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAssemblyCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  AssemblyCode
	}{
		{"two groups", "C.01.02", "C.01.02"},
		{"with description", "C.01.02 - Muros - RNG", "C.01.02"},
		{"no separator", "C.01.02desc-RNG", "C.01.02"},
		{"three groups", "C.05.10.120 - Losas", "C.05.10.120"},
		{"three digit groups", "C.100.200", "C.100.200"},
		{"leading space", "  C.09.09 - x", "C.09.09"},
		{"single group", "C.01 - Muros", InvalidAssemblyCode},
		{"one digit group", "C.1.02", InvalidAssemblyCode},
		{"not prefix", "Muros C.01.02", InvalidAssemblyCode},
		{"lower case", "c.01.02", InvalidAssemblyCode},
		{"empty", "", InvalidAssemblyCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAssemblyCode(tt.input))
		})
	}
}

func TestExtractAssemblyCodeDeterministic(t *testing.T) {
	for _, s := range []string{"C.01.02 - a", "C.01.02.03x", "nope"} {
		first := ExtractAssemblyCode(s)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, ExtractAssemblyCode(s))
		}
	}
}

func TestAssemblyCodeValid(t *testing.T) {
	assert.True(t, AssemblyCode("C.01.02").Valid())
	assert.False(t, InvalidAssemblyCode.Valid())
	assert.False(t, AssemblyCode("").Valid())
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "DESCRIPCION DE PARTIDA", FoldKey("  Descripción  de  partida "))
	assert.Equal(t, "SUBPARTICION", FoldKey("Subpartición"))
	assert.True(t, EqualFold("Código", "CODIGO"))
	assert.False(t, EqualFold("EJES", "EJE"))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("C.01.02 - Muros WIP", "wip"))
	assert.True(t, ContainsWord("PRY-ARQ-01", "ARQ"))
	assert.False(t, ContainsWord("SWIPE", "WIP"))
	assert.False(t, ContainsWord("anything", ""))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Muros (Copia 1)", "COPIA"))
	assert.True(t, ContainsFold("MUROSCOPY", "copy"))
	assert.False(t, ContainsFold("Muros", "COPY"))
}
