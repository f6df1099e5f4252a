package engine

import (
	"github.com/shopspring/decimal"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// partialField finds the designated partial field by heading or alias.
func (a *Auditors) partialField(v host.ScheduleView) (host.Field, bool) {
	rule := a.profile.PartialFormat
	for _, f := range v.Definition.Fields {
		if ir.EqualFold(f.Heading, rule.Heading) {
			return f, true
		}
	}
	for _, f := range v.Definition.Fields {
		for _, alias := range rule.Aliases {
			if ir.EqualFold(f.Heading, alias) {
				return f, true
			}
		}
	}
	return host.Field{}, false
}

// PartialAccuracy returns the required accuracy of the partial field.
func (a *Auditors) PartialAccuracy() decimal.Decimal {
	return requiredAccuracy(a.profile)
}

func requiredAccuracy(p ir.Profile) decimal.Decimal {
	d, err := decimal.NewFromString(p.PartialFormat.Accuracy)
	if err != nil {
		return decimal.New(1, -2)
	}
	return d
}

// AuditPartialFormat checks the numeric format of the partial field.
func (a *Auditors) AuditPartialFormat(v host.ScheduleView) ir.AuditItem {
	want := a.PartialAccuracy()
	f, ok := a.partialField(v)
	if !ok {
		return ir.Warn(ir.KindPartialFormat, "", want.String(), "schedule has no "+a.profile.PartialFormat.Heading+" column")
	}
	if f.Kind == host.FieldCount {
		return ir.Correct(ir.KindPartialFormat, "count", "count fields carry no format")
	}
	fix := ir.FixFormat{Field: f.ID}
	if f.Format.UseDefault {
		return ir.Fix(fix, "project default", want.String(), "field "+f.Heading+" uses the project default format")
	}
	got := decimal.NewFromFloat(f.Format.Accuracy)
	current := got.String()
	if f.Format.Symbol != "" {
		current += " " + f.Format.Symbol
	}
	if !got.Equal(want) || f.Format.Symbol != "" {
		return ir.Fix(fix, current, want.String(), "field "+f.Heading+" format differs")
	}
	return ir.Correct(ir.KindPartialFormat, current, "field "+f.Heading+" format is correct")
}
