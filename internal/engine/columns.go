package engine

import (
	"sort"
	"strings"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// RoomLayout reports whether the dynamic column should be the room heading.
// It is when the document title or the view name carries a room keyword.
func (a *Auditors) RoomLayout(docTitle, viewName string) bool {
	for _, kw := range a.profile.Columns.RoomKeywords {
		if ir.ContainsWord(docTitle, kw) || ir.ContainsWord(viewName, kw) {
			return true
		}
	}
	return false
}

// AuditColumns checks the visible headings against the expected sequence.
func (a *Auditors) AuditColumns(v host.ScheduleView, docTitle string) ir.AuditItem {
	expected := a.profile.ExpectedColumns(a.RoomLayout(docTitle, v.Name))
	visible := v.Definition.VisibleFields()
	current := headings(visible)
	want := strings.Join(expected, ", ")

	switch {
	case len(visible) == len(expected):
		return a.auditExactColumns(visible, expected, current, want)
	case len(visible) > len(expected):
		return a.auditExtraColumns(visible, expected, current, want)
	default:
		return ir.Warn(ir.KindColumns, current, want, "schedule has fewer visible columns than expected")
	}
}

func (a *Auditors) auditExactColumns(visible []host.Field, expected []string, current, want string) ir.AuditItem {
	renames := map[ir.FieldID]string{}
	for i, f := range visible {
		if f.Heading == expected[i] {
			continue
		}
		if !a.profile.HeadingMatches(expected[i], f.Heading) {
			return ir.Warn(ir.KindColumns, current, want, "column "+f.Heading+" cannot be mapped to "+expected[i])
		}
		renames[f.ID] = expected[i]
	}
	if len(renames) == 0 {
		return ir.Correct(ir.KindColumns, current, "columns match the expected headings")
	}
	return ir.Fix(ir.FixColumns{Headings: renames}, current, want, "column headings differ from the expected headings")
}

// auditExtraColumns matches expected headings in order over the visible
// fields; every unmatched field is hidden.
func (a *Auditors) auditExtraColumns(visible []host.Field, expected []string, current, want string) ir.AuditItem {
	renames := map[ir.FieldID]string{}
	var hide []ir.FieldID
	next := 0
	for _, f := range visible {
		if next < len(expected) && a.profile.HeadingMatches(expected[next], f.Heading) {
			if f.Heading != expected[next] {
				renames[f.ID] = expected[next]
			}
			next++
			continue
		}
		hide = append(hide, f.ID)
	}
	if next < len(expected) {
		return ir.Warn(ir.KindColumns, current, want, "expected column "+expected[next]+" not found")
	}
	fix := ir.FixColumns{Hide: hide}
	if len(renames) > 0 {
		fix.Headings = renames
	}
	return ir.Fix(fix, current, want, "schedule has extra visible columns")
}

func headings(fields []host.Field) string {
	hs := make([]string, len(fields))
	for i, f := range fields {
		hs[i] = f.Heading
	}
	return strings.Join(hs, ", ")
}

// sortedHeadings returns the heading changes ordered by field id.
func sortedHeadings(m map[ir.FieldID]string) []ir.FieldID {
	ids := make([]ir.FieldID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
