package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedColumnsResolvesDynamicIndex(t *testing.T) {
	p := DefaultProfile()

	axis := p.ExpectedColumns(false)
	room := p.ExpectedColumns(true)

	assert.Len(t, axis, 9)
	assert.Equal(t, "EJES", axis[3])
	assert.Equal(t, "AMBIENTE", room[3])
	assert.Equal(t, "EJES", p.Columns.Expected[3], "profile must not be mutated")
}

func TestHeadingMatches(t *testing.T) {
	p := DefaultProfile()

	assert.True(t, p.HeadingMatches("DESCRIPCION", "Descripción"))
	assert.True(t, p.HeadingMatches("CODIGO", "assembly code"))
	assert.False(t, p.HeadingMatches("CODIGO", "NIVEL"))
	assert.True(t, p.IsAlias("PARCIAL", "Subtotal"))
	assert.False(t, p.IsAlias("PARCIAL", "PARCIAL"))
}

func TestProfileCategoryLookups(t *testing.T) {
	p := DefaultProfile()

	assert.True(t, p.IsProtectedGroup("06 cobie"))
	assert.False(t, p.IsProtectedGroup("02 ENTREGABLES"))
	assert.True(t, p.IsIgnoredCategory("sheet list"))
	assert.True(t, p.IsElementCategory("Walls"))
	assert.True(t, p.IsTakeoffCategory("Floors"))
	assert.False(t, p.IsTakeoffCategory("Doors"))
}
