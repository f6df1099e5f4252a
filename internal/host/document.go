package host

import (
	"context"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// ViewQuery selects schedule views.
type ViewQuery struct {
	// Categories restricts the result; empty means every category.
	Categories []string

	// IncludeTemplates includes view templates.
	IncludeTemplates bool
}

// Document is a readable building model.
type Document interface {
	// Title is the document name without extension.
	Title() string

	// Schedules enumerates schedule views in a stable order.
	Schedules(ctx context.Context, q ViewQuery) ([]ScheduleView, error)

	// ElementTypes enumerates element types of the given categories.
	ElementTypes(ctx context.Context, categories []string) ([]ElementType, error)

	// Materials returns the materials with the given ids; unknown ids are
	// skipped.
	Materials(ctx context.Context, ids []ir.ElementID) ([]Material, error)

	// Links enumerates linked-document instances.
	Links(ctx context.Context) ([]Link, error)

	// Begin opens a named transaction. Only one may be open at a time.
	Begin(ctx context.Context, name string) (Transaction, error)
}

// Link is a linked-document instance.
type Link interface {
	Name() string

	// Open resolves the linked document. It returns ErrNotLoaded when the
	// link is not accessible.
	Open(ctx context.Context) (Document, error)
}

// Transaction groups writes that commit or roll back together. After
// Commit or Rollback every method returns ErrTxClosed.
type Transaction interface {
	Name() string

	// View reads a view as seen inside the transaction.
	View(id ir.ElementID) (ScheduleView, error)

	Rename(id ir.ElementID, name string) error

	// SetParameter writes a text parameter. The parameter must exist and
	// be writable.
	SetParameter(id ir.ElementID, name, value string) error

	// SetFilters replaces the filter list. Every clause field must be a
	// field of the schedule.
	SetFilters(id ir.ElementID, filters []ir.FilterClause) error

	SetItemize(id ir.ElementID, itemize bool) error
	SetIncludeLinks(id ir.ElementID, include bool) error
	SetFieldHeading(id ir.ElementID, field ir.FieldID, heading string) error
	SetFieldHidden(id ir.ElementID, field ir.FieldID, hidden bool) error
	SetFieldFormat(id ir.ElementID, field ir.FieldID, format FieldFormat) error

	Commit() error
	Rollback() error
}
