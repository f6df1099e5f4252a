package engine

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/testutil"
)

func testRules() *rules.RuleSet {
	return testutil.ProjectRules()
}

func projectDoc() *testutil.MemDocument {
	return testutil.MustLoadModel(testutil.ProjectModel)
}

func testProcessor(t *testing.T) *Processor {
	return NewProcessor(testRules(), zaptest.NewLogger(t), WithRunIDGenerator(testutil.NewFixedRunIDGenerator()))
}

// viewByID fetches a view from the committed state of doc.
func viewByID(t *testing.T, doc *testutil.MemDocument, id ir.ElementID) host.ScheduleView {
	t.Helper()
	v, ok := doc.View(id)
	if !ok {
		t.Fatalf("view #%d not found", id)
	}
	return v
}

func recordByID(t *testing.T, records []ir.ElementRecord, id ir.ElementID) ir.ElementRecord {
	t.Helper()
	for _, r := range records {
		if r.ID == id && !r.System {
			return r
		}
	}
	t.Fatalf("record #%d not found", id)
	return ir.ElementRecord{}
}
