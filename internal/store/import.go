package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
)

// ErrDocumentExists is returned when importing a title already stored.
var ErrDocumentExists = errors.New("document already exists")

// Import stores snap and the documents of its loaded links in one
// transaction. It returns the id of the imported document.
func (s *Store) Import(ctx context.Context, snap *host.Snapshot) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("import: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	id, err := importDocument(ctx, tx, snap)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", snap.Title, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import: commit: %w", err)
	}
	return id, nil
}

func importDocument(ctx context.Context, tx *sql.Tx, snap *host.Snapshot) (int64, error) {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE title = ?`, snap.Title).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, ErrDocumentExists
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO documents (title) VALUES (?)`, snap.Title)
	if err != nil {
		return 0, err
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, v := range snap.Views {
		if err := insertView(ctx, tx, docID, i, v); err != nil {
			return 0, fmt.Errorf("view #%d: %w", v.ID, err)
		}
	}
	for i, t := range snap.Types {
		if err := insertType(ctx, tx, docID, i, t); err != nil {
			return 0, fmt.Errorf("type #%d: %w", t.ID, err)
		}
	}
	for _, m := range snap.Materials {
		if _, err := tx.ExecContext(ctx, `INSERT INTO materials (doc_id, id, name) VALUES (?, ?, ?)`,
			docID, int64(m.ID), m.Name); err != nil {
			return 0, fmt.Errorf("material #%d: %w", m.ID, err)
		}
		for _, p := range m.Parameters {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO material_parameters (doc_id, material_id, name, value) VALUES (?, ?, ?, ?)
			`, docID, int64(m.ID), p.Name, p.Text); err != nil {
				return 0, fmt.Errorf("material #%d: %w", m.ID, err)
			}
		}
	}
	for i, l := range snap.Links {
		var target sql.NullInt64
		if l.Document != nil {
			id, err := importDocument(ctx, tx, l.Document)
			if err != nil && !errors.Is(err, ErrDocumentExists) {
				return 0, fmt.Errorf("link %q: %w", l.Name, err)
			}
			if errors.Is(err, ErrDocumentExists) {
				if err := tx.QueryRowContext(ctx, `SELECT MIN(id) FROM documents WHERE title = ?`, l.Document.Title).Scan(&id); err != nil {
					return 0, err
				}
			}
			target = sql.NullInt64{Int64: id, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO links (doc_id, position, name, target_doc_id) VALUES (?, ?, ?, ?)
		`, docID, i, l.Name, target); err != nil {
			return 0, fmt.Errorf("link %q: %w", l.Name, err)
		}
	}
	return docID, nil
}

func insertView(ctx context.Context, tx *sql.Tx, docID int64, pos int, v host.ScheduleView) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO views
		(doc_id, id, position, name, category, is_template, is_takeoff, itemize, include_links)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		docID, int64(v.ID), pos, v.Name, v.Category,
		boolInt(v.IsTemplate), boolInt(v.IsMaterialTakeoff),
		boolInt(v.Definition.Itemize), boolInt(v.Definition.IncludeLinks),
	)
	if err != nil {
		return err
	}

	for i, p := range v.Parameters {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO view_parameters
			(doc_id, view_id, position, name, storage, text_val, int_val, real_val, elem_val, unit, has_value, read_only)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			docID, int64(v.ID), i, p.Name, string(p.Storage), p.Text, p.Integer, p.Double,
			int64(p.Element), string(p.Unit), boolInt(p.HasValue), boolInt(p.ReadOnly),
		)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
	}
	for i, f := range v.Definition.Fields {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO view_fields
			(doc_id, view_id, id, position, name, heading, hidden, kind, use_default, accuracy, symbol)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			docID, int64(v.ID), int64(f.ID), i, f.Name, f.Heading, boolInt(f.Hidden), string(f.Kind),
			boolInt(f.Format.UseDefault), f.Format.Accuracy, f.Format.Symbol,
		)
		if err != nil {
			return fmt.Errorf("field %d: %w", f.ID, err)
		}
	}
	if err := insertFilters(ctx, tx, docID, v.ID, v.Definition.Filters); err != nil {
		return err
	}
	for i, sh := range v.Sheets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO view_sheets (doc_id, view_id, position, sheet) VALUES (?, ?, ?, ?)
		`, docID, int64(v.ID), i, sh); err != nil {
			return fmt.Errorf("sheet %q: %w", sh, err)
		}
	}
	return nil
}

func insertType(ctx context.Context, tx *sql.Tx, docID int64, pos int, t host.ElementType) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO element_types (doc_id, id, position, name, category) VALUES (?, ?, ?, ?, ?)
	`, docID, int64(t.ID), pos, t.Name, t.Category); err != nil {
		return err
	}
	for _, p := range t.Parameters {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO type_parameters (doc_id, type_id, name, value) VALUES (?, ?, ?, ?)
		`, docID, int64(t.ID), p.Name, p.Text); err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
	}
	for i, m := range t.MaterialIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO type_materials (doc_id, type_id, position, material_id) VALUES (?, ?, ?, ?)
		`, docID, int64(t.ID), i, int64(m)); err != nil {
			return err
		}
	}
	return nil
}
