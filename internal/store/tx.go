package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Transaction is a host.Transaction backed by a SQLite transaction.
// Methods run under the context passed to Begin.
type Transaction struct {
	doc    *Document
	name   string
	tx     *sql.Tx
	ctx    context.Context
	closed bool
}

func (t *Transaction) Name() string { return t.name }

func (t *Transaction) View(id ir.ElementID) (host.ScheduleView, error) {
	if t.closed {
		return host.ScheduleView{}, host.ErrTxClosed
	}
	return readView(t.ctx, t.tx, t.doc.id, id)
}

func (t *Transaction) Rename(id ir.ElementID, name string) error {
	if err := t.requireView(id); err != nil {
		return err
	}
	var taken int
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT COUNT(*) FROM views WHERE doc_id = ? AND name = ? AND id != ?
	`, t.doc.id, name, int64(id)).Scan(&taken)
	if err != nil {
		return fmt.Errorf("rename #%d: %w", id, err)
	}
	if taken > 0 {
		return fmt.Errorf("rename #%d to %q: %w", id, name, host.ErrNameInUse)
	}
	return t.exec("rename", `UPDATE views SET name = ? WHERE doc_id = ? AND id = ?`, name, t.doc.id, int64(id))
}

func (t *Transaction) SetParameter(id ir.ElementID, name, value string) error {
	if err := t.requireView(id); err != nil {
		return err
	}
	var storage string
	var readOnly int
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT storage, read_only FROM view_parameters
		WHERE doc_id = ? AND view_id = ? AND name = ?
	`, t.doc.id, int64(id), name).Scan(&storage, &readOnly)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parameter %q: %w", name, host.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("parameter %q: %w", name, err)
	}
	if readOnly == 1 {
		return fmt.Errorf("parameter %q: %w", name, host.ErrReadOnly)
	}
	if host.StorageType(storage) != host.StorageText {
		return fmt.Errorf("parameter %q: %w", name, host.ErrWrongType)
	}
	return t.exec("set parameter", `
		UPDATE view_parameters SET text_val = ?, has_value = 1
		WHERE doc_id = ? AND view_id = ? AND name = ?
	`, value, t.doc.id, int64(id), name)
}

func (t *Transaction) SetFilters(id ir.ElementID, filters []ir.FilterClause) error {
	if err := t.requireView(id); err != nil {
		return err
	}
	fields, err := readFields(t.ctx, t.tx, t.doc.id, id)
	if err != nil {
		return err
	}
	idx := host.NewFieldIndex(fields, nil)
	for _, c := range filters {
		if !idx.Has(c.Field) {
			return fmt.Errorf("filter field %q: %w", c.Field, host.ErrFieldNotInSchedule)
		}
	}
	if err := t.exec("clear filters", `DELETE FROM view_filters WHERE doc_id = ? AND view_id = ?`, t.doc.id, int64(id)); err != nil {
		return err
	}
	if err := insertFilters(t.ctx, t.tx, t.doc.id, id, filters); err != nil {
		return fmt.Errorf("set filters #%d: %w", id, err)
	}
	return nil
}

func (t *Transaction) SetItemize(id ir.ElementID, itemize bool) error {
	if err := t.requireView(id); err != nil {
		return err
	}
	return t.exec("set itemize", `UPDATE views SET itemize = ? WHERE doc_id = ? AND id = ?`,
		boolInt(itemize), t.doc.id, int64(id))
}

func (t *Transaction) SetIncludeLinks(id ir.ElementID, include bool) error {
	if err := t.requireView(id); err != nil {
		return err
	}
	return t.exec("set include links", `UPDATE views SET include_links = ? WHERE doc_id = ? AND id = ?`,
		boolInt(include), t.doc.id, int64(id))
}

func (t *Transaction) SetFieldHeading(id ir.ElementID, field ir.FieldID, heading string) error {
	return t.updateField(id, field, `heading = ?`, heading)
}

func (t *Transaction) SetFieldHidden(id ir.ElementID, field ir.FieldID, hidden bool) error {
	return t.updateField(id, field, `hidden = ?`, boolInt(hidden))
}

func (t *Transaction) SetFieldFormat(id ir.ElementID, field ir.FieldID, format host.FieldFormat) error {
	return t.updateField(id, field, `use_default = ?, accuracy = ?, symbol = ?`,
		boolInt(format.UseDefault), format.Accuracy, format.Symbol)
}

// Commit commits the SQLite transaction and releases the store.
func (t *Transaction) Commit() error {
	if t.closed {
		return host.ErrTxClosed
	}
	t.release()
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit %q: %w", t.name, err)
	}
	return nil
}

func (t *Transaction) Rollback() error {
	if t.closed {
		return host.ErrTxClosed
	}
	t.release()
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback %q: %w", t.name, err)
	}
	return nil
}

func (t *Transaction) release() {
	t.closed = true
	t.doc.s.txMu.Lock()
	t.doc.s.txOpen = false
	t.doc.s.txMu.Unlock()
}

func (t *Transaction) requireView(id ir.ElementID) error {
	if t.closed {
		return host.ErrTxClosed
	}
	var n int
	if err := t.tx.QueryRowContext(t.ctx, `
		SELECT COUNT(*) FROM views WHERE doc_id = ? AND id = ?
	`, t.doc.id, int64(id)).Scan(&n); err != nil {
		return fmt.Errorf("view #%d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("view #%d: %w", id, host.ErrNotFound)
	}
	return nil
}

func (t *Transaction) updateField(id ir.ElementID, field ir.FieldID, set string, args ...any) error {
	if err := t.requireView(id); err != nil {
		return err
	}
	args = append(args, t.doc.id, int64(id), int64(field))
	res, err := t.tx.ExecContext(t.ctx, `UPDATE view_fields SET `+set+` WHERE doc_id = ? AND view_id = ? AND id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update field %d of view #%d: %w", field, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update field %d of view #%d: %w", field, id, err)
	}
	if n == 0 {
		return fmt.Errorf("field %d of view #%d: %w", field, id, host.ErrNotFound)
	}
	return nil
}

func (t *Transaction) exec(op, query string, args ...any) error {
	if _, err := t.tx.ExecContext(t.ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
