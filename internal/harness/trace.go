package harness

import (
	"context"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// tracingDocument records every write of its transactions into a result.
type tracingDocument struct {
	host.Document
	result *Result
}

func (d *tracingDocument) Begin(ctx context.Context, name string) (host.Transaction, error) {
	tx, err := d.Document.Begin(ctx, name)
	if err != nil {
		return nil, err
	}
	return &tracingTx{Transaction: tx, result: d.result}, nil
}

// tracingTx passes reads through and traces writes.
type tracingTx struct {
	host.Transaction
	result *Result
}

func (t *tracingTx) record(op string, id ir.ElementID, err error) error {
	t.result.AddTrace(op, id, err)
	return err
}

func (t *tracingTx) Rename(id ir.ElementID, name string) error {
	return t.record("Rename", id, t.Transaction.Rename(id, name))
}

func (t *tracingTx) SetParameter(id ir.ElementID, name, value string) error {
	return t.record("SetParameter", id, t.Transaction.SetParameter(id, name, value))
}

func (t *tracingTx) SetFilters(id ir.ElementID, filters []ir.FilterClause) error {
	return t.record("SetFilters", id, t.Transaction.SetFilters(id, filters))
}

func (t *tracingTx) SetItemize(id ir.ElementID, itemize bool) error {
	return t.record("SetItemize", id, t.Transaction.SetItemize(id, itemize))
}

func (t *tracingTx) SetIncludeLinks(id ir.ElementID, include bool) error {
	return t.record("SetIncludeLinks", id, t.Transaction.SetIncludeLinks(id, include))
}

func (t *tracingTx) SetFieldHeading(id ir.ElementID, field ir.FieldID, heading string) error {
	return t.record("SetFieldHeading", id, t.Transaction.SetFieldHeading(id, field, heading))
}

func (t *tracingTx) SetFieldHidden(id ir.ElementID, field ir.FieldID, hidden bool) error {
	return t.record("SetFieldHidden", id, t.Transaction.SetFieldHidden(id, field, hidden))
}

func (t *tracingTx) SetFieldFormat(id ir.ElementID, field ir.FieldID, format host.FieldFormat) error {
	return t.record("SetFieldFormat", id, t.Transaction.SetFieldFormat(id, field, format))
}
