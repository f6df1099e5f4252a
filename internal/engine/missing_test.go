package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

func TestMissingAuditor_ScansWhitelistedLinks(t *testing.T) {
	m := NewMissingAuditor(testRules(), zaptest.NewLogger(t))

	rec, observed, err := m.Audit(context.Background(), projectDoc(), map[ir.AssemblyCode]bool{"C.01.02": true})
	require.NoError(t, err)

	// The unloaded ARQ instance is skipped; MEP belongs to another group.
	assert.Equal(t, []ir.AssemblyCode{"C.01.02", "C.05.20", "C.03.04", "C.07.01"}, observed)
	assert.NotContains(t, observed, ir.AssemblyCode("C.09.09"))

	require.NotNil(t, rec)
	assert.True(t, rec.System)
	require.Len(t, rec.Items, 1)
	item := rec.Items[0]
	assert.Equal(t, ir.KindMissingSchedule, item.Kind)
	assert.Equal(t, ir.StatusWarning, item.Status)
	assert.Equal(t, "C.05.20", item.Expected)
	assert.Contains(t, item.Message, "Vigas")
	assert.False(t, item.Correctable())
}

func TestMissingAuditor_OnlyAutomaticCodes(t *testing.T) {
	m := NewMissingAuditor(testRules(), zaptest.NewLogger(t))

	rec, _, err := m.Audit(context.Background(), projectDoc(), nil)
	require.NoError(t, err)
	require.NotNil(t, rec)

	var codes []string
	for _, it := range rec.Items {
		codes = append(codes, it.Expected)
	}
	// C.03.04 is manual and C.07.01 is not in the matrix.
	assert.Equal(t, []string{"C.01.02", "C.05.20"}, codes)
}

func TestMissingAuditor_AllCovered(t *testing.T) {
	m := NewMissingAuditor(testRules(), zaptest.NewLogger(t))

	rec, observed, err := m.Audit(context.Background(), projectDoc(),
		map[ir.AssemblyCode]bool{"C.01.02": true, "C.05.20": true})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Len(t, observed, 4)
}

func TestMissingAuditor_WhitelistFollowsModelGroups(t *testing.T) {
	rs := rules.NewRuleSet(ir.DefaultProfile(), rules.Data{
		Matrix: []rules.MatrixEntry{
			{Code: "C.09.09", Origin: "AUTOMATICO", AuditMarker: "✓"},
		},
		Models: []rules.ModelGroup{
			{Group: "TORRE B", Model: "PRY-EST-01"},
			{Group: "TORRE B", Model: "PRY-MEP-01"},
		},
	})
	m := NewMissingAuditor(rs, zaptest.NewLogger(t))

	rec, observed, err := m.Audit(context.Background(), projectDoc(), nil)
	require.NoError(t, err)
	assert.Contains(t, observed, ir.AssemblyCode("C.09.09"))
	assert.NotContains(t, observed, ir.AssemblyCode("C.07.01"))
	require.NotNil(t, rec)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "C.09.09", rec.Items[0].Expected)
}

func TestMissingAuditor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMissingAuditor(testRules(), zaptest.NewLogger(t)).Audit(ctx, projectDoc(), nil)
	require.ErrorIs(t, err, context.Canceled)
}
