// Package harness runs end-to-end scenarios against the audit engine.
//
// A scenario imports a model fixture into an in-memory store, audits it,
// applies the correctable items in one transaction, audits again and
// checks the outcome.
//
// # Scenario Format
//
//	name: name_fix
//	description: "A coded view with a free-form name is renamed"
//	model:
//	  title: PRY-EST-01
//	  views:
//	    - id: 1
//	      name: C.01.02 muros
//	      category: Walls
//	      ...
//	rules:
//	  matrix:
//	    - {code: C.01.02, origin: AUTOMATICO, marker: "✓", description: Muros}
//	kinds: [VIEW_NAME]          # optional subset of kinds to fix
//	assertions:
//	  - type: audit_item
//	    view: 1
//	    kind: VIEW_NAME
//	    status: ToFix
//	  - type: trace_contains
//	    op: Rename
//	    view: 1
//	  - type: final_state
//	    view: 1
//	    expect: {name: "C.01.02 - muros - RNG"}
//	  - type: summary
//	    phase: reaudit
//	    expect: {to_fix: 0}
//
// # Assertion Types
//
//   - audit_item: a view record holds an item of kind with status
//   - summary: report counters by JSON name (phase audit or reaudit)
//   - missing_code: the missing-schedule record reports code
//   - fix_result: success, fatal and correction counters of the fix pass
//   - trace_contains: a write op hit a view
//   - trace_order: write ops first appear in order
//   - trace_count: a write op appears exactly count times
//   - final_state: committed name, filters, itemize, include_links or
//     param:<name> of a view
//
// # Golden Files
//
// RunWithGolden compares the summaries, the fix outcome and the write
// trace against testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
