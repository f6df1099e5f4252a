package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// DocumentInfo names a stored document.
type DocumentInfo struct {
	ID    int64
	Title string
}

// Documents lists stored documents in import order.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM documents ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.ID, &d.Title); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Document opens the stored document with the given title. An empty title
// selects the first imported document.
func (s *Store) Document(ctx context.Context, title string) (host.Document, error) {
	var (
		d   Document
		err error
	)
	if title == "" {
		err = s.db.QueryRowContext(ctx, `SELECT id, title FROM documents ORDER BY id ASC LIMIT 1`).Scan(&d.id, &d.title)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT id, title FROM documents WHERE title = ? ORDER BY id ASC LIMIT 1`, title).Scan(&d.id, &d.title)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %q: %w", title, host.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	d.s = s
	return &d, nil
}

// Document is a stored model served as a host.Document.
type Document struct {
	s     *Store
	id    int64
	title string
}

func (d *Document) Title() string { return d.title }

// Schedules enumerates views in import order.
func (d *Document) Schedules(ctx context.Context, q host.ViewQuery) ([]host.ScheduleView, error) {
	query := `SELECT id FROM views WHERE doc_id = ?`
	args := []any{d.id}
	if !q.IncludeTemplates {
		query += ` AND is_template = 0`
	}
	if len(q.Categories) > 0 {
		query += ` AND category IN (?` + strings.Repeat(", ?", len(q.Categories)-1) + `)`
		for _, c := range q.Categories {
			args = append(args, c)
		}
	}
	query += ` ORDER BY position ASC`

	ids, err := queryIDs(ctx, d.s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	out := make([]host.ScheduleView, 0, len(ids))
	for _, id := range ids {
		v, err := readView(ctx, d.s.db, d.id, ir.ElementID(id))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Document) ElementTypes(ctx context.Context, categories []string) ([]host.ElementType, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	args := []any{d.id}
	for _, c := range categories {
		args = append(args, c)
	}
	rows, err := d.s.db.QueryContext(ctx, `
		SELECT id, name, category FROM element_types
		WHERE doc_id = ? AND category IN (?`+strings.Repeat(", ?", len(categories)-1)+`)
		ORDER BY position ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query element types: %w", err)
	}
	var types []host.ElementType
	for rows.Next() {
		var t host.ElementType
		var id int64
		if err := rows.Scan(&id, &t.Name, &t.Category); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan element type: %w", err)
		}
		t.ID = ir.ElementID(id)
		types = append(types, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate element types: %w", err)
	}

	for i := range types {
		t := &types[i]
		t.Parameters, err = readTextParameters(ctx, d.s.db,
			`SELECT name, value FROM type_parameters WHERE doc_id = ? AND type_id = ? ORDER BY name ASC`, d.id, int64(t.ID))
		if err != nil {
			return nil, err
		}
		mids, err := queryIDs(ctx, d.s.db,
			`SELECT material_id FROM type_materials WHERE doc_id = ? AND type_id = ? ORDER BY position ASC`, d.id, int64(t.ID))
		if err != nil {
			return nil, fmt.Errorf("query type materials: %w", err)
		}
		for _, m := range mids {
			t.MaterialIDs = append(t.MaterialIDs, ir.ElementID(m))
		}
	}
	return types, nil
}

func (d *Document) Materials(ctx context.Context, ids []ir.ElementID) ([]host.Material, error) {
	var out []host.Material
	for _, id := range ids {
		m := host.Material{ID: id}
		err := d.s.db.QueryRowContext(ctx, `SELECT name FROM materials WHERE doc_id = ? AND id = ?`, d.id, int64(id)).Scan(&m.Name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("query material #%d: %w", id, err)
		}
		m.Parameters, err = readTextParameters(ctx, d.s.db,
			`SELECT name, value FROM material_parameters WHERE doc_id = ? AND material_id = ? ORDER BY name ASC`, d.id, int64(id))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (d *Document) Links(ctx context.Context) ([]host.Link, error) {
	rows, err := d.s.db.QueryContext(ctx, `
		SELECT l.name, l.target_doc_id, COALESCE(t.title, '')
		FROM links l LEFT JOIN documents t ON t.id = l.target_doc_id
		WHERE l.doc_id = ?
		ORDER BY l.position ASC
	`, d.id)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var out []host.Link
	for rows.Next() {
		l := &Link{s: d.s}
		if err := rows.Scan(&l.name, &l.target, &l.title); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Begin opens a SQLite transaction. A second Begin before Commit or
// Rollback fails with host.ErrTxClosed.
func (d *Document) Begin(ctx context.Context, name string) (host.Transaction, error) {
	d.s.txMu.Lock()
	defer d.s.txMu.Unlock()
	if d.s.txOpen {
		return nil, fmt.Errorf("begin %q: another transaction is open: %w", name, host.ErrTxClosed)
	}
	sqlTx, err := d.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin %q: %w", name, err)
	}
	d.s.txOpen = true
	return &Transaction{doc: d, name: name, tx: sqlTx, ctx: ctx}, nil
}

// Link is a stored link. An unloaded link has no target.
type Link struct {
	s      *Store
	name   string
	target sql.NullInt64
	title  string
}

func (l *Link) Name() string { return l.name }

func (l *Link) Open(ctx context.Context) (host.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.target.Valid {
		return nil, fmt.Errorf("link %q: %w", l.name, host.ErrNotLoaded)
	}
	return &Document{s: l.s, id: l.target.Int64, title: l.title}, nil
}

// readView loads one view with its parameters, fields, filters and sheets.
func readView(ctx context.Context, q querier, docID int64, id ir.ElementID) (host.ScheduleView, error) {
	v := host.ScheduleView{ID: id}
	var template, takeoff, itemize, links int
	err := q.QueryRowContext(ctx, `
		SELECT name, category, is_template, is_takeoff, itemize, include_links
		FROM views WHERE doc_id = ? AND id = ?
	`, docID, int64(id)).Scan(&v.Name, &v.Category, &template, &takeoff, &itemize, &links)
	if errors.Is(err, sql.ErrNoRows) {
		return host.ScheduleView{}, fmt.Errorf("view #%d: %w", id, host.ErrNotFound)
	}
	if err != nil {
		return host.ScheduleView{}, fmt.Errorf("query view #%d: %w", id, err)
	}
	v.IsTemplate, v.IsMaterialTakeoff = template == 1, takeoff == 1
	v.Definition.Itemize, v.Definition.IncludeLinks = itemize == 1, links == 1

	if v.Parameters, err = readViewParameters(ctx, q, docID, id); err != nil {
		return host.ScheduleView{}, err
	}
	if v.Definition.Fields, err = readFields(ctx, q, docID, id); err != nil {
		return host.ScheduleView{}, err
	}
	if v.Definition.Filters, err = readFilters(ctx, q, docID, id); err != nil {
		return host.ScheduleView{}, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT sheet FROM view_sheets WHERE doc_id = ? AND view_id = ? ORDER BY position ASC
	`, docID, int64(id))
	if err != nil {
		return host.ScheduleView{}, fmt.Errorf("query sheets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sh string
		if err := rows.Scan(&sh); err != nil {
			return host.ScheduleView{}, fmt.Errorf("scan sheet: %w", err)
		}
		v.Sheets = append(v.Sheets, sh)
	}
	return v, rows.Err()
}

func readViewParameters(ctx context.Context, q querier, docID int64, id ir.ElementID) (host.Parameters, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name, storage, text_val, int_val, real_val, elem_val, unit, has_value, read_only
		FROM view_parameters WHERE doc_id = ? AND view_id = ?
		ORDER BY position ASC
	`, docID, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query view parameters: %w", err)
	}
	defer rows.Close()

	var out host.Parameters
	for rows.Next() {
		var p host.Parameter
		var storage, unit string
		var elem int64
		var hasValue, readOnly int
		if err := rows.Scan(&p.Name, &storage, &p.Text, &p.Integer, &p.Double, &elem, &unit, &hasValue, &readOnly); err != nil {
			return nil, fmt.Errorf("scan view parameter: %w", err)
		}
		p.Storage, p.Unit, p.Element = host.StorageType(storage), host.Unit(unit), ir.ElementID(elem)
		p.HasValue, p.ReadOnly = hasValue == 1, readOnly == 1
		out = append(out, p)
	}
	return out, rows.Err()
}

func readFields(ctx context.Context, q querier, docID int64, id ir.ElementID) ([]host.Field, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, heading, hidden, kind, use_default, accuracy, symbol
		FROM view_fields WHERE doc_id = ? AND view_id = ?
		ORDER BY position ASC
	`, docID, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	var out []host.Field
	for rows.Next() {
		var f host.Field
		var fid int64
		var kind string
		var hidden, useDefault int
		if err := rows.Scan(&fid, &f.Name, &f.Heading, &hidden, &kind, &useDefault, &f.Format.Accuracy, &f.Format.Symbol); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		f.ID, f.Kind = ir.FieldID(fid), host.FieldKind(kind)
		f.Hidden, f.Format.UseDefault = hidden == 1, useDefault == 1
		out = append(out, f)
	}
	return out, rows.Err()
}

func readFilters(ctx context.Context, q querier, docID int64, id ir.ElementID) ([]ir.FilterClause, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT field, operator, value_kind, value
		FROM view_filters WHERE doc_id = ? AND view_id = ?
		ORDER BY position ASC
	`, docID, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	var out []ir.FilterClause
	for rows.Next() {
		var c ir.FilterClause
		var op string
		var kind, text sql.NullString
		if err := rows.Scan(&c.Field, &op, &kind, &text); err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		c.Operator = ir.FilterOperator(op)
		if c.Value, err = unmarshalFilterValue(kind, text); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func insertFilters(ctx context.Context, q querier, docID int64, id ir.ElementID, filters []ir.FilterClause) error {
	for i, c := range filters {
		kind, text := marshalFilterValue(c.Value)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO view_filters (doc_id, view_id, position, field, operator, value_kind, value)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, docID, int64(id), i, c.Field, string(c.Operator), kind, text); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}
	return nil
}

func readTextParameters(ctx context.Context, q querier, query string, args ...any) (host.Parameters, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	var out host.Parameters
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		out = append(out, host.TextParameter(name, value))
	}
	return out, rows.Err()
}

func queryIDs(ctx context.Context, q querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
