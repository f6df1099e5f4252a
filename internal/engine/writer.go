package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// TransactionName names the single transaction of a write pass.
const TransactionName = "Corregir tablas"

// writePhases is the order corrections are applied in, across all records.
var writePhases = []struct {
	name  string
	kinds []ir.AuditKind
}{
	{"rename", []ir.AuditKind{ir.KindReclassification, ir.KindViewName}},
	{"filters", []ir.AuditKind{ir.KindFilter}},
	{"flags", []ir.AuditKind{ir.KindContent, ir.KindLinks}},
	{"columns", []ir.AuditKind{ir.KindColumns}},
	{"format", []ir.AuditKind{ir.KindPartialFormat}},
	{"company", []ir.AuditKind{ir.KindCompanyParam}},
}

// Writer applies the corrections of audit records inside one transaction.
type Writer struct {
	profile ir.Profile
	kinds   map[ir.AuditKind]bool
	logger  *zap.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithKinds restricts the writer to the given kinds. No kinds means all.
func WithKinds(kinds ...ir.AuditKind) WriterOption {
	return func(w *Writer) {
		if len(kinds) == 0 {
			w.kinds = nil
			return
		}
		w.kinds = make(map[ir.AuditKind]bool, len(kinds))
		for _, k := range kinds {
			w.kinds[k] = true
		}
	}
}

// NewWriter creates a writer for profile p.
func NewWriter(p ir.Profile, logger *zap.Logger, opts ...WriterOption) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{profile: p, logger: logger}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Writer) selected(k ir.AuditKind) bool {
	return w.kinds == nil || w.kinds[k]
}

// Apply writes every selected correctable item of records. Per-item
// failures are collected and the pass continues; the transaction still
// commits. A panic, a closed transaction, a cancelled context or a failed
// commit rolls back everything and yields a fatal result with zero counts.
func (w *Writer) Apply(ctx context.Context, doc host.Document, records []ir.ElementRecord) (res ir.ProcessingResult) {
	tx, err := doc.Begin(ctx, TransactionName)
	if err != nil {
		return w.fatal(&FatalError{Phase: "begin", Err: err})
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			res = w.fatal(&FatalError{Phase: "apply", Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	pass := &writePass{w: w, tx: tx}
	for _, ph := range writePhases {
		for _, rec := range records {
			for _, it := range rec.Items {
				if !it.Correctable() || !w.selected(it.Kind) || !phaseHas(ph.kinds, it.Kind) {
					continue
				}
				if err := ctx.Err(); err != nil {
					_ = tx.Rollback()
					return w.fatal(&FatalError{Phase: ph.name, Err: err})
				}
				err := pass.apply(rec, it.Correction)
				if err == nil {
					continue
				}
				if errors.Is(err, host.ErrTxClosed) || ctx.Err() != nil {
					_ = tx.Rollback()
					if ctx.Err() != nil {
						err = ctx.Err()
					}
					return w.fatal(&FatalError{Phase: ph.name, Err: err})
				}
				we := &WriteError{View: rec.Name, ViewID: rec.ID, Kind: it.Kind, Err: err}
				w.logger.Error("correction failed",
					zap.Int64("view_id", int64(rec.ID)),
					zap.String("view", rec.Name),
					zap.String("kind", string(it.Kind)),
					zap.Error(err))
				pass.errs = append(pass.errs, we.Error())
			}
		}
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return w.fatal(&FatalError{Phase: "commit", Err: err})
	}

	w.logger.Info("corrections committed",
		zap.Int("applied", pass.counts.Total()),
		zap.Int("errors", len(pass.errs)))
	return ir.ProcessingResult{
		Success: len(pass.errs) == 0,
		Errors:  pass.errs,
		Counts:  pass.counts,
	}
}

func (w *Writer) fatal(err *FatalError) ir.ProcessingResult {
	w.logger.Error("write pass rolled back", zap.String("phase", err.Phase), zap.Error(err.Err))
	return ir.ProcessingResult{Fatal: true, Errors: []string{err.Error()}}
}

func phaseHas(kinds []ir.AuditKind, k ir.AuditKind) bool {
	for _, pk := range kinds {
		if pk == k {
			return true
		}
	}
	return false
}

// writePass carries the state of one Apply call.
type writePass struct {
	w      *Writer
	tx     host.Transaction
	counts ir.CorrectionCounts
	errs   []string
}

func (p *writePass) apply(rec ir.ElementRecord, c ir.Correction) error {
	id := rec.ID
	switch c := c.(type) {
	case ir.RenameView:
		if err := p.tx.Rename(id, c.Name); err != nil {
			return err
		}
		p.counts.Names++
	case ir.Reclassify:
		return p.reclassify(id, c.Job)
	case ir.ReplaceFilters:
		return p.filters(id, c.Filters)
	case ir.SetItemize:
		if err := p.tx.SetItemize(id, c.Value); err != nil {
			return err
		}
		p.counts.Content++
	case ir.SetIncludeLinks:
		if err := p.tx.SetIncludeLinks(id, c.Value); err != nil {
			return err
		}
		p.counts.Links++
	case ir.FixColumns:
		return p.columns(id, c)
	case ir.FixFormat:
		acc, _ := requiredAccuracy(p.w.profile).Float64()
		if err := p.tx.SetFieldFormat(id, c.Field, host.FieldFormat{Accuracy: acc}); err != nil {
			return err
		}
		p.counts.Formats++
	case ir.SetCompany:
		return p.company(id, c.Value)
	default:
		return fmt.Errorf("unsupported correction %T", c)
	}
	return nil
}

func (p *writePass) reclassify(id ir.ElementID, job ir.RenamingJob) error {
	gp := p.w.profile.GroupParams
	if job.NewName != "" {
		if err := p.tx.Rename(id, job.NewName); err != nil {
			return err
		}
	}
	if err := p.tx.SetParameter(id, gp.Group, job.Group); err != nil {
		return err
	}
	if err := p.tx.SetParameter(id, gp.Subgroup, job.Subgroup); err != nil {
		return err
	}
	if job.Subpartition != "" {
		if err := p.tx.SetParameter(id, gp.Subpartition, job.Subpartition); err != nil {
			return err
		}
	}
	p.counts.Reclassifications++
	return nil
}

// filters resolves every clause field against the schedule, tolerating the
// material prefix, then replaces the list.
func (p *writePass) filters(id ir.ElementID, clauses []ir.FilterClause) error {
	v, err := p.tx.View(id)
	if err != nil {
		return err
	}
	var idx host.FieldResolver = host.NewFieldIndex(v.Definition.Fields, p.w.profile.FieldPrefixes)
	resolved := make([]ir.FilterClause, len(clauses))
	for i, c := range clauses {
		f, ok := idx.FindByName(c.Field, true)
		if !ok {
			return fmt.Errorf("filter field %q: %w", c.Field, host.ErrFieldNotInSchedule)
		}
		c.Field = f.Name
		resolved[i] = c
	}
	if err := p.tx.SetFilters(id, resolved); err != nil {
		return err
	}
	p.counts.Filters++
	return nil
}

func (p *writePass) columns(id ir.ElementID, fix ir.FixColumns) error {
	for _, f := range fix.Hide {
		if err := p.tx.SetFieldHidden(id, f, true); err != nil {
			return err
		}
		p.counts.ColumnHides++
	}
	for _, f := range sortedHeadings(fix.Headings) {
		if err := p.tx.SetFieldHeading(id, f, fix.Headings[f]); err != nil {
			return err
		}
		p.counts.ColumnRenames++
	}
	return nil
}

func (p *writePass) company(id ir.ElementID, value string) error {
	name := p.w.profile.Company.ViewParameter
	v, err := p.tx.View(id)
	if err != nil {
		return err
	}
	param, err := v.Parameters.Lookup(name)
	if err != nil {
		return err
	}
	if param.ReadOnly {
		return fmt.Errorf("parameter %q: %w", name, host.ErrReadOnly)
	}
	if err := p.tx.SetParameter(id, name, value); err != nil {
		return err
	}
	p.counts.CompanyParams++
	return nil
}
