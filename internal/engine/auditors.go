package engine

import (
	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

// Auditors runs the per-field checks of a processed view. Each check
// returns exactly one item and never mutates the view.
type Auditors struct {
	rules   *rules.RuleSet
	profile ir.Profile
	logger  *zap.Logger
}

// NewAuditors creates the field auditors over a read-only rule set.
func NewAuditors(rs *rules.RuleSet, logger *zap.Logger) *Auditors {
	return &Auditors{rules: rs, profile: rs.Profile, logger: logger}
}

// AuditView runs every field check in report order. docTitle feeds the
// dynamic column heading.
func (a *Auditors) AuditView(v host.ScheduleView, code ir.AssemblyCode, docTitle string) []ir.AuditItem {
	items := []ir.AuditItem{
		a.AuditName(v, code),
		a.AuditFilters(v, code),
		a.AuditColumns(v, docTitle),
		a.AuditContent(v),
		a.AuditLinks(v),
		a.AuditPartialFormat(v),
		a.AuditCompany(v),
	}
	for _, it := range items {
		if it.Status == ir.StatusError {
			a.logger.Warn("audit error",
				zap.Int64("view_id", int64(v.ID)),
				zap.String("view", v.Name),
				zap.String("kind", string(it.Kind)),
				zap.String("message", it.Message))
		}
	}
	return items
}

// AuditContent checks the itemize-every-instance flag.
func (a *Auditors) AuditContent(v host.ScheduleView) ir.AuditItem {
	if v.Definition.Itemize {
		return ir.Correct(ir.KindContent, "true", "every instance is itemized")
	}
	return ir.Fix(ir.SetItemize{Value: true}, "false", "true", "schedule does not itemize every instance")
}

// AuditLinks checks the include-linked-elements flag.
func (a *Auditors) AuditLinks(v host.ScheduleView) ir.AuditItem {
	if v.Definition.IncludeLinks {
		return ir.Correct(ir.KindLinks, "true", "linked elements are included")
	}
	return ir.Fix(ir.SetIncludeLinks{Value: true}, "false", "true", "schedule does not include linked elements")
}

// AuditCompany checks the company instance parameter.
func (a *Auditors) AuditCompany(v host.ScheduleView) ir.AuditItem {
	want := a.profile.Company.Value
	param := a.profile.Company.ViewParameter

	p, err := v.Parameters.Lookup(param)
	if err != nil {
		return ir.Fix(ir.SetCompany{Value: want}, "", want, "parameter "+param+" is missing")
	}
	got, err := p.AsString()
	if err != nil {
		return ir.Fix(ir.SetCompany{Value: want}, "", want, "parameter "+param+" is empty")
	}
	if got == want {
		return ir.Correct(ir.KindCompanyParam, got, "parameter "+param+" is set")
	}
	return ir.Fix(ir.SetCompany{Value: want}, got, want, "parameter "+param+" has another value")
}
