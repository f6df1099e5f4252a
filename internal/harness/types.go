package harness

import (
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// TraceEvent is one write issued inside the correction transaction.
type TraceEvent struct {
	Op    string       `json:"op"`
	View  ir.ElementID `json:"view"`
	Seq   int64        `json:"seq"`
	Error string       `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace lists the writes of the fix pass in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Audit   *engine.Report      `json:"audit"`
	Fix     ir.ProcessingResult `json:"fix"`
	Reaudit *engine.Report      `json:"reaudit"`

	// Final is the committed state of every view after the fix pass,
	// keyed by view id.
	Final map[ir.ElementID]host.ScheduleView `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Final:  make(map[ir.ElementID]host.ScheduleView),
	}
}

// AddError records an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a write to the trace.
func (r *Result) AddTrace(op string, view ir.ElementID, err error) {
	ev := TraceEvent{Op: op, View: view, Seq: int64(len(r.Trace) + 1)}
	if err != nil {
		ev.Error = err.Error()
	}
	r.Trace = append(r.Trace, ev)
}

// report returns the report of a phase: "audit" (default) or "reaudit".
func (r *Result) report(phase string) *engine.Report {
	if phase == PhaseReaudit {
		return r.Reaudit
	}
	return r.Audit
}
