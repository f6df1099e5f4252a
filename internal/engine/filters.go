package engine

import (
	"fmt"
	"strings"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// codeField picks the code field of a schedule: the material variant when
// present, else the plain one.
func (a *Auditors) codeField(idx *host.FieldIndex) (string, bool) {
	cf := a.profile.CodeFields
	if cf.MaterialName != "" && idx.Has(cf.MaterialName) {
		return cf.MaterialName, true
	}
	if idx.Has(cf.Name) {
		return cf.Name, true
	}
	return "", false
}

// ExpectedFilters computes the filter list a schedule must carry: the code
// clause, the company clause, then every other clause in its original
// order.
func (a *Auditors) ExpectedFilters(v host.ScheduleView, code ir.AssemblyCode) ([]ir.FilterClause, error) {
	if !code.Valid() {
		return nil, fmt.Errorf("view name has no valid assembly code")
	}
	idx := host.NewFieldIndex(v.Definition.Fields, a.profile.FieldPrefixes)
	codeName, ok := a.codeField(idx)
	if !ok {
		return nil, fmt.Errorf("schedule has no %q field", a.profile.CodeFields.Name)
	}
	company, ok := idx.FindByName(a.profile.Company.FilterField, true)
	if !ok {
		return nil, fmt.Errorf("schedule has no %q field", a.profile.Company.FilterField)
	}

	var codeClauses int
	var rest []ir.FilterClause
	for _, c := range v.Definition.Filters {
		if a.isCodeClause(c) {
			codeClauses++
			continue
		}
		if f, ok := idx.FindByName(c.Field, true); ok && f.ID == company.ID {
			continue
		}
		rest = append(rest, c)
	}
	if codeClauses > 1 {
		return nil, fmt.Errorf("schedule has %d assembly code filters", codeClauses)
	}

	expected := make([]ir.FilterClause, 0, len(rest)+2)
	expected = append(expected,
		ir.FilterClause{Field: codeName, Operator: ir.OpEqual, Value: ir.StringValue(code)},
		ir.FilterClause{Field: company.Name, Operator: ir.OpEqual, Value: ir.StringValue(a.profile.Company.Value)},
	)
	expected = append(expected, rest...)
	if limit := a.profile.MaxFilters; limit > 0 && len(expected) > limit {
		return nil, fmt.Errorf("schedule needs %d filters, the limit is %d", len(expected), limit)
	}
	return expected, nil
}

// isCodeClause reports whether c is an equality filter on an assembly code
// value.
func (a *Auditors) isCodeClause(c ir.FilterClause) bool {
	if c.Operator != ir.OpEqual {
		return false
	}
	s, ok := c.Value.(ir.StringValue)
	return ok && strings.HasPrefix(strings.TrimSpace(string(s)), a.profile.CodePrefix)
}

// AuditFilters compares the filter list with ExpectedFilters.
func (a *Auditors) AuditFilters(v host.ScheduleView, code ir.AssemblyCode) ir.AuditItem {
	current := ir.DescribeFilters(v.Definition.Filters)
	expected, err := a.ExpectedFilters(v, code)
	if err != nil {
		return ir.Fail(ir.KindFilter, current, "", err.Error())
	}
	want := ir.DescribeFilters(expected)
	if ir.FiltersEqual(v.Definition.Filters, expected) {
		return ir.Correct(ir.KindFilter, current, "filters match code and company")
	}
	return ir.Fix(ir.ReplaceFilters{Filters: expected}, current, want, "filters do not match code and company")
}
