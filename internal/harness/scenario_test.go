package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

const minimalScenario = `
name: minimal
description: one view
model:
  title: PRY-EST-01
  views:
    - {id: 1, name: Metrado, category: Walls}
rules:
  matrix:
    - {code: C.01.02, origin: AUTOMATICO, marker: "✓", description: Muros}
assertions:
  - type: summary
    expect: {views: "1"}
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "PRY-EST-01", s.Model.Title)
	require.Len(t, s.Model.Views, 1)
	assert.Equal(t, int64(1), s.Model.Views[0].ID)
	require.Len(t, s.Rules.Matrix, 1)
	assert.Equal(t, "✓", s.Rules.Matrix[0].Marker)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, AssertSummary, s.Assertions[0].Type)
	assert.Equal(t, "1", s.Assertions[0].Expect["views"])
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "flow_token: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow_token")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: `
description: d
model: {title: T}
assertions: [{type: trace_count, op: Rename}]
`,
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: `
name: n
model: {title: T}
assertions: [{type: trace_count, op: Rename}]
`,
			want: "description is required",
		},
		{
			name: "missing title",
			yaml: `
name: n
description: d
assertions: [{type: trace_count, op: Rename}]
`,
			want: "model.title is required",
		},
		{
			name: "no assertions",
			yaml: `
name: n
description: d
model: {title: T}
`,
			want: "assertions list is required",
		},
		{
			name: "unknown kind",
			yaml: `
name: n
description: d
model: {title: T}
kinds: [VIEW_NAME, COLOUR]
assertions: [{type: trace_count, op: Rename}]
`,
			want: `kinds[1]: unknown kind "COLOUR"`,
		},
		{
			name: "unknown assertion type",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: state_equals}]
`,
			want: `unknown assertion type "state_equals"`,
		},
		{
			name: "unknown phase",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: summary, phase: later, expect: {views: "1"}}]
`,
			want: `unknown phase "later"`,
		},
		{
			name: "audit item without status",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: audit_item, view: 1, kind: FILTER}]
`,
			want: "view, kind and status are required",
		},
		{
			name: "summary without expect",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: summary}]
`,
			want: "expect is required for summary",
		},
		{
			name: "missing code without code",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: missing_code}]
`,
			want: "code is required",
		},
		{
			name: "trace order without ops",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: trace_order}]
`,
			want: "ops list is required",
		},
		{
			name: "negative trace count",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: trace_count, op: Rename, count: -1}]
`,
			want: "count must be non-negative",
		},
		{
			name: "final state without view",
			yaml: `
name: n
description: d
model: {title: T}
assertions: [{type: final_state, expect: {name: x}}]
`,
			want: "view is required for final_state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestRuleData_RuleSet(t *testing.T) {
	d := RuleData{
		Matrix: []MatrixRow{
			{Code: "C.01.02", Origin: "AUTOMATICO", Marker: "✓", Description: "Muros"},
			{Code: "C.03.04", Origin: "MANUAL", Marker: "✓", Description: "Pisos"},
			{Code: "C.05.10"},
		},
		Models:   []ModelRow{{Group: "TORRE A", Model: "PRY-EST-01"}, {Group: "TORRE A", Model: "PRY-ARQ-01"}},
		Keywords: []KeywordRow{{List: rules.ListWIP, Token: "JPEREZ"}},
	}
	rs := d.RuleSet(ir.DefaultProfile())

	assert.Equal(t, rules.TypeAutomatic, rs.ClassificationType("C.01.02"))
	assert.Equal(t, rules.TypeManual, rs.ClassificationType("C.03.04"))
	assert.Equal(t, rules.TypeUnknown, rs.ClassificationType("C.05.10"))
	assert.Equal(t, "Muros", rs.Description("C.01.02"))
	assert.Contains(t, rs.WIPTokens(), "JPEREZ")
	assert.Equal(t, map[string]bool{"PRY-ARQ-01": true}, rs.Whitelist("PRY-EST-01"))
}
