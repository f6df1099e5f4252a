package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

// Summary counts the outcome of an audit pass.
type Summary struct {
	Views        int `json:"views"`
	Skipped      int `json:"skipped"`
	Reclassified int `json:"reclassified"`
	Processed    int `json:"processed"`
	Duplicates   int `json:"duplicate_groups"`
	Missing      int `json:"missing_schedules"`
	Correct      int `json:"correct"`
	Warnings     int `json:"warnings"`
	ToFix        int `json:"to_fix"`
	Errors       int `json:"errors"`
}

// Report is the result of one audit pass.
type Report struct {
	RunID         string             `json:"run_id"`
	Document      string             `json:"document"`
	Records       []ir.ElementRecord `json:"records"`
	ObservedCodes []ir.AssemblyCode  `json:"observed_codes"`
	Summary       Summary            `json:"summary"`
	Hash          string             `json:"hash"`
}

// Correctable counts correctable items across the report.
func (r *Report) Correctable() int {
	return ir.CountCorrectable(r.Records)
}

// Processor runs audit passes over a document. It never writes.
type Processor struct {
	rules      *rules.RuleSet
	classifier *Classifier
	auditors   *Auditors
	missing    *MissingAuditor
	ids        RunIDGenerator
	logger     *zap.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRunIDGenerator overrides the UUIDv7 run ids.
func WithRunIDGenerator(g RunIDGenerator) ProcessorOption {
	return func(p *Processor) { p.ids = g }
}

// NewProcessor wires the classifier and auditors over rs.
func NewProcessor(rs *rules.RuleSet, logger *zap.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		rules:      rs,
		classifier: NewClassifier(rs, logger),
		auditors:   NewAuditors(rs, logger),
		missing:    NewMissingAuditor(rs, logger),
		ids:        UUIDv7Generator{},
		logger:     logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Audit classifies every schedule of doc, audits the processed ones, marks
// duplicates and appends the missing-schedule record.
func (p *Processor) Audit(ctx context.Context, doc host.Document) (*Report, error) {
	runID := p.ids.Generate()
	log := p.logger.With(zap.String("run_id", runID), zap.String("document", doc.Title()))
	log.Info("audit started")

	views, err := doc.Schedules(ctx, host.ViewQuery{})
	if err != nil {
		return nil, fmt.Errorf("enumerate schedules: %w", err)
	}

	rep := &Report{RunID: runID, Document: doc.Title()}
	covered := map[ir.AssemblyCode]bool{}
	for _, v := range views {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if v.IsTemplate {
			continue
		}
		rep.Summary.Views++

		out := p.classifier.Classify(v)
		rec := ir.ElementRecord{
			ID:                v.ID,
			Name:              v.Name,
			Category:          v.Category,
			Code:              out.Code,
			IsMaterialTakeoff: v.IsMaterialTakeoff,
		}
		switch out.Decision {
		case DecisionSkip:
			rep.Summary.Skipped++
			continue
		case DecisionReclassify:
			rep.Summary.Reclassified++
			rec.Add(ReclassificationItem(p.classifier.LocationOf(v), out))
		case DecisionProcess:
			rep.Summary.Processed++
			if out.Code.Valid() {
				covered[out.Code] = true
			}
			for _, it := range p.auditors.AuditView(v, out.Code, doc.Title()) {
				rec.Add(it)
			}
		}
		rep.Records = append(rep.Records, rec)
	}

	rep.Summary.Duplicates = MarkDuplicates(rep.Records)

	sys, observed, err := p.missing.Audit(ctx, doc, covered)
	if err != nil {
		return nil, fmt.Errorf("missing schedules: %w", err)
	}
	rep.ObservedCodes = observed
	if sys != nil {
		rep.Summary.Missing = len(sys.Items)
		rep.Records = append(rep.Records, *sys)
	}

	for _, r := range rep.Records {
		for _, it := range r.Items {
			switch it.Status {
			case ir.StatusCorrect:
				rep.Summary.Correct++
			case ir.StatusWarning:
				rep.Summary.Warnings++
			case ir.StatusToFix:
				rep.Summary.ToFix++
			case ir.StatusError:
				rep.Summary.Errors++
			}
		}
	}

	rep.Hash, err = ir.ReportHash(rep.Document, rep.Records)
	if err != nil {
		return nil, fmt.Errorf("hash report: %w", err)
	}

	log.Info("audit finished",
		zap.Int("views", rep.Summary.Views),
		zap.Int("processed", rep.Summary.Processed),
		zap.Int("reclassified", rep.Summary.Reclassified),
		zap.Int("to_fix", rep.Summary.ToFix),
		zap.Int("missing", rep.Summary.Missing))
	return rep, nil
}
