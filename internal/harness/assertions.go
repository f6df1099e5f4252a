package harness

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Write trace for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nWrite trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s #%d", event.Seq, event.Op, event.View)
			if event.Error != "" {
				fmt.Fprintf(&buf, " (%s)", event.Error)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// assertAuditItem checks that a view record carries an item of the given
// kind and status.
func assertAuditItem(rep *engine.Report, a Assertion) error {
	id := ir.ElementID(a.View)
	for _, r := range rep.Records {
		if r.ID != id || r.System {
			continue
		}
		var seen []string
		for _, it := range r.Items {
			if string(it.Kind) == a.Kind {
				if string(it.Status) == a.Status {
					return nil
				}
				seen = append(seen, string(it.Status))
			}
		}
		return &AssertionError{
			Type:     AssertAuditItem,
			Expected: fmt.Sprintf("view #%d %s item with status %s", id, a.Kind, a.Status),
			Actual:   fmt.Sprintf("statuses %v", seen),
		}
	}
	return &AssertionError{
		Type:     AssertAuditItem,
		Expected: fmt.Sprintf("record for view #%d", id),
		Actual:   "view not audited",
	}
}

// assertCounters compares expected counters by name, subset semantics.
func assertCounters(kind string, actual map[string]int, expect map[string]string) error {
	keys := make([]string, 0, len(expect))
	for k := range expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, ok := actual[k]
		if !ok {
			return fmt.Errorf("%s: unknown counter %q", kind, k)
		}
		want, err := strconv.Atoi(expect[k])
		if err != nil {
			return fmt.Errorf("%s: counter %q: %w", kind, k, err)
		}
		if got != want {
			return &AssertionError{
				Type:     kind,
				Expected: fmt.Sprintf("%s = %d", k, want),
				Actual:   fmt.Sprintf("%s = %d", k, got),
			}
		}
	}
	return nil
}

// assertMissingCode checks that the missing-schedule record reports code.
func assertMissingCode(rep *engine.Report, a Assertion) error {
	for _, r := range rep.Records {
		if !r.System {
			continue
		}
		for _, it := range r.Items {
			if it.Kind == ir.KindMissingSchedule && it.Expected == a.Code {
				return nil
			}
		}
	}
	return &AssertionError{
		Type:     AssertMissingCode,
		Expected: fmt.Sprintf("code %s reported as missing", a.Code),
		Actual:   fmt.Sprintf("%d missing codes reported", rep.Summary.Missing),
	}
}

// assertFixResult checks the write pass outcome. "success" and "fatal"
// compare booleans; every other key is a correction counter or "total".
func assertFixResult(res ir.ProcessingResult, trace []TraceEvent, a Assertion) error {
	counters := fixCounters(res)
	ints := map[string]string{}
	for k, v := range a.Expect {
		switch k {
		case "success", "fatal":
			want, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("fix_result: %s: %w", k, err)
			}
			got := res.Success
			if k == "fatal" {
				got = res.Fatal
			}
			if got != want {
				return &AssertionError{
					Type:     AssertFixResult,
					Expected: fmt.Sprintf("%s = %t", k, want),
					Actual:   fmt.Sprintf("%s = %t (errors: %v)", k, got, res.Errors),
					Trace:    trace,
				}
			}
		default:
			ints[k] = v
		}
	}
	return assertCounters(AssertFixResult, counters, ints)
}

// assertTraceContains checks that op was applied to the view. A zero
// view matches any view.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Op == a.Op && (a.View == 0 || event.View == ir.ElementID(a.View)) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s on view #%d", a.Op, a.View),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops first appear in the given order.
// Intervening writes are allowed.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if positions[event.Op] == 0 {
			positions[event.Op] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}
	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that op appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == a.Op && (a.View == 0 || event.View == ir.ElementID(a.View)) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks the committed state of a view.
func assertFinalState(final map[ir.ElementID]host.ScheduleView, a Assertion) error {
	v, ok := final[ir.ElementID(a.View)]
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("view #%d", a.View),
			Actual:   "view not found",
		}
	}

	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, err := stateValue(v, k)
		if err != nil {
			return err
		}
		if got != a.Expect[k] {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("view #%d %s = %q", a.View, k, a.Expect[k]),
				Actual:   fmt.Sprintf("%q", got),
			}
		}
	}
	return nil
}

func stateValue(v host.ScheduleView, key string) (string, error) {
	switch key {
	case "name":
		return v.Name, nil
	case "filters":
		return ir.DescribeFilters(v.Definition.Filters), nil
	case "itemize":
		return strconv.FormatBool(v.Definition.Itemize), nil
	case "include_links":
		return strconv.FormatBool(v.Definition.IncludeLinks), nil
	}
	if name, ok := strings.CutPrefix(key, "param:"); ok {
		return v.Parameters.StringOr(name, ""), nil
	}
	return "", fmt.Errorf("final_state: unknown key %q", key)
}

func summaryCounters(s engine.Summary) map[string]int {
	return map[string]int{
		"views":             s.Views,
		"skipped":           s.Skipped,
		"reclassified":      s.Reclassified,
		"processed":         s.Processed,
		"duplicate_groups":  s.Duplicates,
		"missing_schedules": s.Missing,
		"correct":           s.Correct,
		"warnings":          s.Warnings,
		"to_fix":            s.ToFix,
		"errors":            s.Errors,
	}
}

func fixCounters(res ir.ProcessingResult) map[string]int {
	c := res.Counts
	return map[string]int{
		"names":             c.Names,
		"reclassifications": c.Reclassifications,
		"filters":           c.Filters,
		"formats":           c.Formats,
		"content":           c.Content,
		"links":             c.Links,
		"column_renames":    c.ColumnRenames,
		"column_hides":      c.ColumnHides,
		"company_params":    c.CompanyParams,
		"total":             c.Total(),
		"errors":            len(res.Errors),
	}
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertAuditItem:
			err = assertAuditItem(result.report(a.Phase), a)
		case AssertSummary:
			err = assertCounters(AssertSummary, summaryCounters(result.report(a.Phase).Summary), a.Expect)
		case AssertMissingCode:
			err = assertMissingCode(result.report(a.Phase), a)
		case AssertFixResult:
			err = assertFixResult(result.Fix, result.Trace, a)
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(result.Final, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}
