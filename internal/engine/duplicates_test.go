package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

func filtered(id ir.ElementID, code ir.AssemblyCode, takeoff bool, category string) ir.ElementRecord {
	return ir.ElementRecord{
		ID: id, Name: "view", Code: code, IsMaterialTakeoff: takeoff, Category: category,
		Items: []ir.AuditItem{ir.Correct(ir.KindFilter, "", "")},
	}
}

func TestMarkDuplicates(t *testing.T) {
	records := []ir.ElementRecord{
		filtered(1, "C.01.02", false, "Walls"),
		filtered(2, "C.01.02", false, "Walls"),
		filtered(3, "C.01.02", true, "Walls"),
		filtered(4, "C.01.02", false, "Floors"),
		filtered(5, "C.05.20", false, "Walls"),
		filtered(6, "C.05.20", false, "Walls"),
		filtered(7, "C.05.20", false, "Walls"),
		{ID: 8, Code: "C.01.02", Category: "Walls", Items: []ir.AuditItem{ir.Correct(ir.KindViewName, "", "")}},
	}

	assert.Equal(t, 2, MarkDuplicates(records))

	for _, r := range records {
		dup, has := r.Item(ir.KindDuplicate)
		switch r.ID {
		case 1, 2, 5, 6, 7:
			require.True(t, has, "record %d", r.ID)
			assert.Equal(t, ir.StatusWarning, dup.Status)
			assert.False(t, dup.Correctable())
		default:
			assert.False(t, has, "record %d", r.ID)
		}
	}
	d, _ := records[0].Item(ir.KindDuplicate)
	assert.Contains(t, d.Message, "view (#2)")
	assert.NotContains(t, d.Message, "#1")
}

func TestMarkDuplicates_IgnoresInvalidCodes(t *testing.T) {
	records := []ir.ElementRecord{
		filtered(1, ir.InvalidAssemblyCode, false, "Walls"),
		filtered(2, ir.InvalidAssemblyCode, false, "Walls"),
	}
	records[0].Name, records[1].Name = "C.1 Muros", "C.X Losas"

	assert.Zero(t, MarkDuplicates(records))
	for _, r := range records {
		assert.False(t, r.Has(ir.KindDuplicate), "record %d", r.ID)
	}
}

func TestMarkDuplicates_AfterAudit(t *testing.T) {
	a := testAuditors()
	var records []ir.ElementRecord
	for i, name := range []string{"C.1 Muros", "C.X Losas"} {
		v := scheduleView(name)
		v.ID = ir.ElementID(i + 1)
		code := ir.ExtractAssemblyCode(name)
		rec := ir.ElementRecord{ID: v.ID, Name: v.Name, Code: code, Category: v.Category}
		for _, it := range a.AuditView(v, code, "PRY-EST-01") {
			rec.Add(it)
		}
		require.True(t, rec.Has(ir.KindFilter))
		records = append(records, rec)
	}

	assert.Zero(t, MarkDuplicates(records))
	assert.False(t, records[0].Has(ir.KindDuplicate))
	assert.False(t, records[1].Has(ir.KindDuplicate))
}

func TestMarkDuplicates_Empty(t *testing.T) {
	assert.Zero(t, MarkDuplicates(nil))
}
