package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

// Decision is the classifier verdict for a view.
type Decision int

const (
	// DecisionSkip leaves the view alone.
	DecisionSkip Decision = iota
	// DecisionReclassify moves the view (and possibly renames it).
	DecisionReclassify
	// DecisionProcess audits the view field by field.
	DecisionProcess
)

func (d Decision) String() string {
	switch d {
	case DecisionReclassify:
		return "reclassify"
	case DecisionProcess:
		return "process"
	default:
		return "skip"
	}
}

// Outcome is the classification of one view.
type Outcome struct {
	Decision Decision
	Code     ir.AssemblyCode
	Job      ir.RenamingJob
	Reason   string
}

// Location is a view's current place in the project browser.
type Location struct {
	Group        string
	Subgroup     string
	Subpartition string
}

func (l Location) String() string {
	s := l.Group + " / " + l.Subgroup
	if l.Subpartition != "" {
		s += " / " + l.Subpartition
	}
	return s
}

// Classifier maps a view to exactly one Outcome. It only reads.
type Classifier struct {
	rules  *rules.RuleSet
	logger *zap.Logger
}

// NewClassifier creates a classifier over a read-only rule set.
func NewClassifier(rs *rules.RuleSet, logger *zap.Logger) *Classifier {
	return &Classifier{rules: rs, logger: logger}
}

// LocationOf reads the view's group parameters. Missing parameters read as
// empty.
func (c *Classifier) LocationOf(v host.ScheduleView) Location {
	gp := c.rules.Profile.GroupParams
	return Location{
		Group:        strings.TrimSpace(v.Parameters.StringOr(gp.Group, "")),
		Subgroup:     strings.TrimSpace(v.Parameters.StringOr(gp.Subgroup, "")),
		Subpartition: strings.TrimSpace(v.Parameters.StringOr(gp.Subpartition, "")),
	}
}

// Classify applies the rules in order; the first match wins.
func (c *Classifier) Classify(v host.ScheduleView) Outcome {
	out := c.classify(v)
	c.logger.Debug("view classified",
		zap.Int64("view_id", int64(v.ID)),
		zap.String("view", v.Name),
		zap.Stringer("decision", out.Decision),
		zap.String("reason", out.Reason))
	return out
}

func (c *Classifier) classify(v host.ScheduleView) Outcome {
	p := c.rules.Profile
	name := strings.TrimSpace(v.Name)
	loc := c.LocationOf(v)
	code := ir.ExtractAssemblyCode(name)

	if p.IsIgnoredCategory(v.Category) {
		return Outcome{Decision: DecisionSkip, Code: code, Reason: "ignored category " + v.Category}
	}

	for _, tok := range c.rules.CopyTokens() {
		if ir.ContainsFold(name, tok) {
			return c.moveTo(v, loc, code, p.Buckets.Review, "", "", "copy token "+tok)
		}
	}

	for _, tok := range c.rules.WIPTokens() {
		if ir.ContainsWord(name, tok) {
			return c.moveTo(v, loc, code, p.Buckets.WIP, "", "", "work in progress token "+tok)
		}
	}

	if code.Valid() && c.rules.ClassificationType(code) == rules.TypeManual {
		newName, _ := CanonicalName(name, code, p.Company.Value, c.rules.Description(code))
		return c.moveTo(v, loc, code, p.Buckets.Manual, newName, "", "manual takeoff code")
	}

	if strings.HasPrefix(name, p.CodePrefix) {
		if strings.HasPrefix(loc.Group, p.CodePrefix) {
			return Outcome{Decision: DecisionProcess, Code: code, Reason: "coded view in coded group"}
		}
		sub := ""
		if code.Valid() {
			sub = string(code)
		}
		return c.moveTo(v, loc, code, p.Buckets.Misclassified, "", sub, "coded view outside coded group")
	}

	if v.Placed() {
		for _, kb := range p.SheetClasses {
			for _, sheet := range v.Sheets {
				if ir.ContainsFold(sheet, kb.Keyword) {
					return c.moveTo(v, loc, code, kb.Bucket(), "", "", "sheet keyword "+kb.Keyword)
				}
			}
		}
		return c.moveTo(v, loc, code, p.Buckets.DefaultSheet, "", "", "placed on sheet")
	}

	for _, kb := range p.ViewClasses {
		if ir.ContainsFold(name, kb.Keyword) {
			return c.moveTo(v, loc, code, kb.Bucket(), "", "", "view keyword "+kb.Keyword)
		}
	}

	if p.IsProtectedGroup(loc.Group) {
		return Outcome{Decision: DecisionSkip, Code: code, Reason: "protected group " + loc.Group}
	}
	return c.moveTo(v, loc, code, p.Buckets.ManualReview, "", "", "no classification signal")
}

// moveTo builds a Reclassify outcome, or Skip when nothing would change.
// Empty newName and subpartition mean "leave unchanged".
func (c *Classifier) moveTo(v host.ScheduleView, cur Location, code ir.AssemblyCode, target ir.Bucket, newName, subpartition, reason string) Outcome {
	job := ir.RenamingJob{Group: target.Group, Subgroup: target.Subgroup}
	if newName != "" && newName != strings.TrimSpace(v.Name) {
		job.NewName = newName
	}
	if subpartition != "" && !ir.EqualFold(subpartition, cur.Subpartition) {
		job.Subpartition = subpartition
	}

	same := ir.EqualFold(cur.Group, target.Group) && ir.EqualFold(cur.Subgroup, target.Subgroup)
	if same && job.NewName == "" && job.Subpartition == "" {
		return Outcome{Decision: DecisionSkip, Code: code, Reason: "already in " + target.Group + " / " + target.Subgroup}
	}
	return Outcome{Decision: DecisionReclassify, Code: code, Job: job, Reason: reason}
}

// ReclassificationItem turns a Reclassify outcome into its audit item.
func ReclassificationItem(cur Location, out Outcome) ir.AuditItem {
	target := Location{Group: out.Job.Group, Subgroup: out.Job.Subgroup, Subpartition: cur.Subpartition}
	if out.Job.Subpartition != "" {
		target.Subpartition = out.Job.Subpartition
	}
	expected := target.String()
	if out.Job.NewName != "" {
		expected = fmt.Sprintf("%s (%s)", expected, out.Job.NewName)
	}
	return ir.Fix(ir.Reclassify{Job: out.Job}, cur.String(), expected, "reclassify: "+out.Reason)
}
