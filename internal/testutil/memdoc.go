package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Hook runs before every transaction operation. op is the method name
// ("Begin", "Rename", "SetFilters", ...), id the target view (0 for Begin
// and Commit). A non-nil error is returned from the operation; a hook may
// also panic or block.
type Hook func(op string, id ir.ElementID) error

// MemDocument is an in-memory host.Document. Transactions work on a copy
// of the views that replaces the committed state on Commit.
type MemDocument struct {
	mu        sync.Mutex
	title     string
	views     []host.ScheduleView
	types     []host.ElementType
	materials []host.Material
	links     []host.Link
	open      bool
	hook      Hook
	commits   int
}

// NewMemDocument serves a built fixture.
func NewMemDocument(snap *host.Snapshot) *MemDocument {
	d := &MemDocument{
		title:     snap.Title,
		views:     cloneViews(snap.Views),
		types:     snap.Types,
		materials: snap.Materials,
	}
	for _, l := range snap.Links {
		ml := &MemLink{name: l.Name}
		if l.Document != nil {
			ml.doc = NewMemDocument(l.Document)
		}
		d.links = append(d.links, ml)
	}
	return d
}

// MustLoadModel builds a MemDocument from a YAML fixture and panics on
// error.
func MustLoadModel(yamlSrc string) *MemDocument {
	m, err := host.ParseModel([]byte(yamlSrc))
	if err != nil {
		panic(err)
	}
	snap, err := m.Build()
	if err != nil {
		panic(err)
	}
	return NewMemDocument(snap)
}

// SetHook installs a fault-injection hook.
func (d *MemDocument) SetHook(h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hook = h
}

// Commits returns the number of committed transactions.
func (d *MemDocument) Commits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

// View returns the committed state of a view.
func (d *MemDocument) View(id ir.ElementID) (host.ScheduleView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, v := range d.views {
		if v.ID == id {
			return cloneView(v), true
		}
	}
	return host.ScheduleView{}, false
}

func (d *MemDocument) Title() string { return d.title }

func (d *MemDocument) Schedules(ctx context.Context, q host.ViewQuery) ([]host.ScheduleView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []host.ScheduleView
	for _, v := range d.views {
		if v.IsTemplate && !q.IncludeTemplates {
			continue
		}
		if len(q.Categories) > 0 && !contains(q.Categories, v.Category) {
			continue
		}
		out = append(out, cloneView(v))
	}
	return out, nil
}

func (d *MemDocument) ElementTypes(ctx context.Context, categories []string) ([]host.ElementType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []host.ElementType
	for _, t := range d.types {
		if contains(categories, t.Category) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (d *MemDocument) Materials(ctx context.Context, ids []ir.ElementID) ([]host.Material, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []host.Material
	for _, id := range ids {
		for _, m := range d.materials {
			if m.ID == id {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (d *MemDocument) Links(ctx context.Context) ([]host.Link, error) {
	return d.links, ctx.Err()
}

func (d *MemDocument) Begin(ctx context.Context, name string) (host.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return nil, fmt.Errorf("begin %q: %w", name, host.ErrTxClosed)
	}
	if d.hook != nil {
		if err := d.hook("Begin", 0); err != nil {
			return nil, err
		}
	}
	d.open = true
	return &memTx{doc: d, name: name, views: cloneViews(d.views)}, nil
}

// MemLink is a link to another MemDocument. A nil document is unloaded.
type MemLink struct {
	name string
	doc  *MemDocument
}

// NewMemLink links doc under name.
func NewMemLink(name string, doc *MemDocument) *MemLink {
	return &MemLink{name: name, doc: doc}
}

func (l *MemLink) Name() string { return l.name }

func (l *MemLink) Open(ctx context.Context) (host.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.doc == nil {
		return nil, fmt.Errorf("link %q: %w", l.name, host.ErrNotLoaded)
	}
	return l.doc, nil
}

type memTx struct {
	doc    *MemDocument
	name   string
	views  []host.ScheduleView
	closed bool
}

func (t *memTx) Name() string { return t.name }

// enter runs the hook and resolves the target view.
func (t *memTx) enter(op string, id ir.ElementID) (*host.ScheduleView, error) {
	if t.closed {
		return nil, host.ErrTxClosed
	}
	t.doc.mu.Lock()
	h := t.doc.hook
	t.doc.mu.Unlock()
	if h != nil {
		if err := h(op, id); err != nil {
			return nil, err
		}
	}
	for i := range t.views {
		if t.views[i].ID == id {
			return &t.views[i], nil
		}
	}
	return nil, fmt.Errorf("view #%d: %w", id, host.ErrNotFound)
}

func (t *memTx) View(id ir.ElementID) (host.ScheduleView, error) {
	v, err := t.enter("View", id)
	if err != nil {
		return host.ScheduleView{}, err
	}
	return cloneView(*v), nil
}

func (t *memTx) Rename(id ir.ElementID, name string) error {
	v, err := t.enter("Rename", id)
	if err != nil {
		return err
	}
	for _, o := range t.views {
		if o.ID != id && o.Name == name {
			return fmt.Errorf("rename #%d to %q: %w", id, name, host.ErrNameInUse)
		}
	}
	v.Name = name
	return nil
}

func (t *memTx) SetParameter(id ir.ElementID, name, value string) error {
	v, err := t.enter("SetParameter", id)
	if err != nil {
		return err
	}
	for i := range v.Parameters {
		p := &v.Parameters[i]
		if p.Name != name {
			continue
		}
		if p.ReadOnly {
			return fmt.Errorf("parameter %q: %w", name, host.ErrReadOnly)
		}
		if p.Storage != host.StorageText {
			return fmt.Errorf("parameter %q: %w", name, host.ErrWrongType)
		}
		p.Text, p.HasValue = value, true
		return nil
	}
	return fmt.Errorf("parameter %q: %w", name, host.ErrNotFound)
}

func (t *memTx) SetFilters(id ir.ElementID, filters []ir.FilterClause) error {
	v, err := t.enter("SetFilters", id)
	if err != nil {
		return err
	}
	idx := host.NewFieldIndex(v.Definition.Fields, nil)
	for _, c := range filters {
		if !idx.Has(c.Field) {
			return fmt.Errorf("filter field %q: %w", c.Field, host.ErrFieldNotInSchedule)
		}
	}
	v.Definition.Filters = append([]ir.FilterClause(nil), filters...)
	return nil
}

func (t *memTx) SetItemize(id ir.ElementID, itemize bool) error {
	v, err := t.enter("SetItemize", id)
	if err != nil {
		return err
	}
	v.Definition.Itemize = itemize
	return nil
}

func (t *memTx) SetIncludeLinks(id ir.ElementID, include bool) error {
	v, err := t.enter("SetIncludeLinks", id)
	if err != nil {
		return err
	}
	v.Definition.IncludeLinks = include
	return nil
}

func (t *memTx) field(op string, id ir.ElementID, field ir.FieldID) (*host.Field, error) {
	v, err := t.enter(op, id)
	if err != nil {
		return nil, err
	}
	for i := range v.Definition.Fields {
		if v.Definition.Fields[i].ID == field {
			return &v.Definition.Fields[i], nil
		}
	}
	return nil, fmt.Errorf("field %d of view #%d: %w", field, id, host.ErrNotFound)
}

func (t *memTx) SetFieldHeading(id ir.ElementID, field ir.FieldID, heading string) error {
	f, err := t.field("SetFieldHeading", id, field)
	if err != nil {
		return err
	}
	f.Heading = heading
	return nil
}

func (t *memTx) SetFieldHidden(id ir.ElementID, field ir.FieldID, hidden bool) error {
	f, err := t.field("SetFieldHidden", id, field)
	if err != nil {
		return err
	}
	f.Hidden = hidden
	return nil
}

func (t *memTx) SetFieldFormat(id ir.ElementID, field ir.FieldID, format host.FieldFormat) error {
	f, err := t.field("SetFieldFormat", id, field)
	if err != nil {
		return err
	}
	f.Format = format
	return nil
}

func (t *memTx) Commit() error {
	if t.closed {
		return host.ErrTxClosed
	}
	t.doc.mu.Lock()
	h := t.doc.hook
	t.doc.mu.Unlock()
	if h != nil {
		if err := h("Commit", 0); err != nil {
			return err
		}
	}
	t.doc.mu.Lock()
	defer t.doc.mu.Unlock()
	t.doc.views = t.views
	t.doc.open = false
	t.doc.commits++
	t.closed = true
	return nil
}

func (t *memTx) Rollback() error {
	if t.closed {
		return host.ErrTxClosed
	}
	t.doc.mu.Lock()
	defer t.doc.mu.Unlock()
	t.doc.open = false
	t.closed = true
	t.views = nil
	return nil
}

func cloneViews(vs []host.ScheduleView) []host.ScheduleView {
	out := make([]host.ScheduleView, len(vs))
	for i, v := range vs {
		out[i] = cloneView(v)
	}
	return out
}

func cloneView(v host.ScheduleView) host.ScheduleView {
	v.Parameters = append(host.Parameters(nil), v.Parameters...)
	v.Definition.Fields = append([]host.Field(nil), v.Definition.Fields...)
	v.Definition.Filters = append([]ir.FilterClause(nil), v.Definition.Filters...)
	v.Sheets = append([]string(nil), v.Sheets...)
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
