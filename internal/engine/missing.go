package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

// MissingAuditor reports automatic codes used by model elements that no
// processed schedule covers.
type MissingAuditor struct {
	rules  *rules.RuleSet
	logger *zap.Logger
}

// NewMissingAuditor creates the auditor.
func NewMissingAuditor(rs *rules.RuleSet, logger *zap.Logger) *MissingAuditor {
	return &MissingAuditor{rules: rs, logger: logger}
}

// codeSet keeps codes unique in first-seen order.
type codeSet struct {
	seen  map[ir.AssemblyCode]bool
	order []ir.AssemblyCode
}

func (s *codeSet) add(c ir.AssemblyCode) {
	if !c.Valid() || s.seen[c] {
		return
	}
	if s.seen == nil {
		s.seen = map[ir.AssemblyCode]bool{}
	}
	s.seen[c] = true
	s.order = append(s.order, c)
}

// Audit scans doc and its whitelisted links. It returns the system record
// with one MISSING_SCHEDULE warning per uncovered automatic code (nil when
// there are none) and every observed code.
func (m *MissingAuditor) Audit(ctx context.Context, doc host.Document, covered map[ir.AssemblyCode]bool) (*ir.ElementRecord, []ir.AssemblyCode, error) {
	var observed codeSet
	if err := m.scan(ctx, doc, &observed); err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", doc.Title(), err)
	}

	links, err := doc.Links(ctx)
	if err != nil {
		m.logger.Warn("links unreadable, scanning host only", zap.Error(err))
		links = nil
	}
	whitelist := m.rules.Whitelist(doc.Title())
	for _, l := range links {
		name := rules.NormalizeModelName(l.Name())
		if !whitelist[name] {
			m.logger.Debug("link not in model group", zap.String("link", l.Name()))
			continue
		}
		linked, err := l.Open(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			m.logger.Warn("link skipped", zap.String("link", l.Name()), zap.Error(err))
			continue
		}
		if err := m.scan(ctx, linked, &observed); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			m.logger.Warn("link skipped", zap.String("link", l.Name()), zap.Error(err))
		}
	}

	p := m.rules.Profile
	rec := &ir.ElementRecord{
		Name:     "Missing schedules",
		Category: p.SystemCategory,
		System:   true,
	}
	for _, c := range observed.order {
		if covered[c] || m.rules.ClassificationType(c) != rules.TypeAutomatic {
			continue
		}
		rec.Add(ir.Warn(ir.KindMissingSchedule, "", string(c),
			fmt.Sprintf("no schedule covers %s (%s)", c, m.rules.Description(c))))
	}
	if len(rec.Items) == 0 {
		rec = nil
	}
	return rec, observed.order, nil
}

func (m *MissingAuditor) scan(ctx context.Context, doc host.Document, out *codeSet) error {
	p := m.rules.Profile
	types, err := doc.ElementTypes(ctx, categories(p))
	if err != nil {
		return err
	}
	codeParam := p.CodeFields.Name
	for _, t := range types {
		if p.IsElementCategory(t.Category) {
			out.add(ir.ExtractAssemblyCode(t.Parameters.StringOr(codeParam, "")))
		}
		if !p.IsTakeoffCategory(t.Category) || len(t.MaterialIDs) == 0 {
			continue
		}
		mats, err := doc.Materials(ctx, t.MaterialIDs)
		if err != nil {
			return err
		}
		for _, mat := range mats {
			out.add(ir.ExtractAssemblyCode(mat.Parameters.StringOr(codeParam, "")))
		}
	}
	return nil
}

// categories merges element and takeoff categories without duplicates.
func categories(p ir.Profile) []string {
	var out []string
	seen := map[string]bool{}
	for _, list := range [][]string{p.ElementCategories, p.TakeoffCategories} {
		for _, c := range list {
			k := strings.ToLower(c)
			if !seen[k] {
				seen[k] = true
				out = append(out, c)
			}
		}
	}
	return out
}
