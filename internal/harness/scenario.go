package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

// Scenario is an audit → fix → re-audit run over a model fixture.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Model is the building model the scenario runs on.
	Model host.Model `yaml:"model"`

	// Rules is the rule data served in place of the spreadsheets.
	Rules RuleData `yaml:"rules"`

	// Kinds restricts the fix pass; empty applies every kind.
	Kinds []string `yaml:"kinds,omitempty"`

	// Assertions validate the reports, the write trace and the final
	// state.
	Assertions []Assertion `yaml:"assertions"`
}

// RuleData is the scenario form of the rule sheets.
type RuleData struct {
	Matrix   []MatrixRow  `yaml:"matrix"`
	Models   []ModelRow   `yaml:"models,omitempty"`
	Keywords []KeywordRow `yaml:"keywords,omitempty"`
}

// MatrixRow is one matrix entry.
type MatrixRow struct {
	Code        string `yaml:"code"`
	Origin      string `yaml:"origin,omitempty"`
	Marker      string `yaml:"marker,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ModelRow places a model in a group.
type ModelRow struct {
	Group string `yaml:"group"`
	Model string `yaml:"model"`
}

// KeywordRow adds a token to a keyword list.
type KeywordRow struct {
	List  string `yaml:"list"`
	Token string `yaml:"token"`
}

// RuleSet builds the rule set for p.
func (d RuleData) RuleSet(p ir.Profile) *rules.RuleSet {
	var data rules.Data
	for _, m := range d.Matrix {
		e := rules.MatrixEntry{Code: ir.AssemblyCode(m.Code), Origin: m.Origin, AuditMarker: m.Marker}
		e.Classifications[0].Description = m.Description
		data.Matrix = append(data.Matrix, e)
	}
	for _, m := range d.Models {
		data.Models = append(data.Models, rules.ModelGroup{Group: m.Group, Model: m.Model})
	}
	for _, k := range d.Keywords {
		data.Keywords = append(data.Keywords, rules.Keyword{List: k.List, Token: k.Token})
	}
	return rules.NewRuleSet(p, data)
}

// Assertion validates one aspect of a scenario run.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Phase selects the report for audit_item and summary: "audit"
	// (default) or "reaudit".
	Phase string `yaml:"phase,omitempty"`

	// View is the target view id.
	View int64 `yaml:"view,omitempty"`

	// Kind and Status select an audit item.
	Kind   string `yaml:"kind,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Op is a transaction method name (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Ops is the expected write order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of writes (trace_count).
	Count int `yaml:"count,omitempty"`

	// Code is an assembly code reported as missing (missing_code).
	Code string `yaml:"code,omitempty"`

	// Expect holds expected values. summary and fix_result read integer
	// counters by JSON name; final_state reads name, filters, itemize,
	// include_links and "param:<name>".
	Expect map[string]string `yaml:"expect,omitempty"`
}

// Assertion types.
const (
	AssertAuditItem     = "audit_item"
	AssertSummary       = "summary"
	AssertMissingCode   = "missing_code"
	AssertFixResult     = "fix_result"
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// Phases.
const (
	PhaseAudit   = "audit"
	PhaseReaudit = "reaudit"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Model.Title == "" {
		return fmt.Errorf("model.title is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, k := range s.Kinds {
		if !ir.AuditKind(k).Valid() {
			return fmt.Errorf("kinds[%d]: unknown kind %q", i, k)
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	switch a.Phase {
	case "", PhaseAudit, PhaseReaudit:
	default:
		return fmt.Errorf("assertions[%d]: unknown phase %q", index, a.Phase)
	}

	switch a.Type {
	case AssertAuditItem:
		if a.View == 0 || a.Kind == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: view, kind and status are required for audit_item", index)
		}
	case AssertSummary, AssertFixResult:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
	case AssertMissingCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for missing_code", index)
		}
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.View == 0 {
			return fmt.Errorf("assertions[%d]: view is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
