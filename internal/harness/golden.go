package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Snapshot is the golden form of a scenario run: both summaries, the fix
// outcome and the write trace.
type Snapshot struct {
	ScenarioName string
	Audit        engine.Summary
	Fix          ir.ProcessingResult
	Reaudit      engine.Summary
	Trace        []TraceEvent
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// handles maps, slices and primitives.
func (s *Snapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		m := map[string]any{
			"op":   event.Op,
			"view": int64(event.View),
			"seq":  event.Seq,
		}
		if event.Error != "" {
			m["error"] = event.Error
		}
		trace[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"audit":         intMap(summaryCounters(s.Audit)),
		"fix": map[string]any{
			"success": s.Fix.Success,
			"fatal":   s.Fix.Fatal,
			"applied": s.Fix.Counts.Total(),
			"errors":  len(s.Fix.Errors),
		},
		"reaudit": intMap(summaryCounters(s.Reaudit)),
		"trace":   trace,
	}
}

func intMap(m map[string]int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// SnapshotJSON renders the golden file contents for a result: canonical
// JSON followed by a newline.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Fix:          result.Fix,
	}
	if result.Audit != nil {
		snapshot.Audit = result.Audit.Summary
	}
	if result.Reaudit != nil {
		snapshot.Reaudit = result.Reaudit.Summary
	}
	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
