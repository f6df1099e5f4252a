package ir

import (
	"encoding/json"
	"fmt"
)

// AuditKind tags what aspect of a view an AuditItem describes.
type AuditKind string

const (
	KindViewName         AuditKind = "VIEW_NAME"
	KindFilter           AuditKind = "FILTER"
	KindColumns          AuditKind = "COLUMNS"
	KindContent          AuditKind = "CONTENT"
	KindLinks            AuditKind = "LINKS"
	KindPartialFormat    AuditKind = "PARTIAL_FORMAT"
	KindCompanyParam     AuditKind = "COMPANY_PARAM"
	KindMissingSchedule  AuditKind = "MISSING_SCHEDULE"
	KindDuplicate        AuditKind = "DUPLICATE"
	KindReclassification AuditKind = "RECLASSIFICATION"
)

// AuditKinds lists every kind in report order.
var AuditKinds = []AuditKind{
	KindReclassification,
	KindViewName,
	KindFilter,
	KindColumns,
	KindContent,
	KindLinks,
	KindPartialFormat,
	KindCompanyParam,
	KindMissingSchedule,
	KindDuplicate,
}

// Valid reports whether k is a known kind.
func (k AuditKind) Valid() bool {
	for _, known := range AuditKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseAuditKind validates s as an AuditKind.
func ParseAuditKind(s string) (AuditKind, error) {
	k := AuditKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown audit kind %q", s)
	}
	return k, nil
}

// Status is the verdict of a single check.
type Status string

const (
	StatusCorrect Status = "Correct"
	StatusWarning Status = "Warning"
	StatusToFix   Status = "ToFix"
	StatusError   Status = "Error"
)

// AuditItem is the result of one check on one entity.
//
// Correctability derives from Correction: an item is correctable exactly
// when it carries a payload, and only ToFix items carry one.
type AuditItem struct {
	Kind       AuditKind  `json:"kind"`
	Current    string     `json:"current"`
	Expected   string     `json:"expected"`
	Status     Status     `json:"status"`
	Message    string     `json:"message"`
	Correction Correction `json:"correction,omitempty"`
}

// Correctable reports whether the item carries a correction payload.
func (a AuditItem) Correctable() bool {
	return a.Correction != nil
}

// Validate checks the payload invariants of the item.
func (a AuditItem) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("audit item: unknown kind %q", a.Kind)
	}
	switch {
	case a.Status == StatusToFix && a.Correction == nil:
		return fmt.Errorf("audit item %s: ToFix without correction", a.Kind)
	case a.Status != StatusToFix && a.Correction != nil:
		return fmt.Errorf("audit item %s: %s item carries a correction", a.Kind, a.Status)
	case a.Correction != nil && a.Correction.Kind() != a.Kind:
		return fmt.Errorf("audit item %s: correction kind %s", a.Kind, a.Correction.Kind())
	}
	return nil
}

// MarshalJSON adds the derived "correctable" flag.
func (a AuditItem) MarshalJSON() ([]byte, error) {
	type plain AuditItem
	return json.Marshal(struct {
		plain
		Correctable bool `json:"correctable"`
	}{plain(a), a.Correctable()})
}

// Correct builds a Correct item.
func Correct(kind AuditKind, value, message string) AuditItem {
	return AuditItem{Kind: kind, Current: value, Expected: value, Status: StatusCorrect, Message: message}
}

// Warn builds a non-correctable Warning item.
func Warn(kind AuditKind, current, expected, message string) AuditItem {
	return AuditItem{Kind: kind, Current: current, Expected: expected, Status: StatusWarning, Message: message}
}

// Fail builds a non-correctable Error item.
func Fail(kind AuditKind, current, expected, message string) AuditItem {
	return AuditItem{Kind: kind, Current: current, Expected: expected, Status: StatusError, Message: message}
}

// Fix builds a correctable ToFix item. The item kind is taken from the
// correction.
func Fix(c Correction, current, expected, message string) AuditItem {
	return AuditItem{Kind: c.Kind(), Current: current, Expected: expected, Status: StatusToFix, Message: message, Correction: c}
}

// ElementRecord aggregates the audit items of one entity: a schedule view,
// or a synthetic system record for cross-cutting reports.
type ElementRecord struct {
	ID                ElementID    `json:"id"`
	Name              string       `json:"name"`
	Category          string       `json:"category"`
	Code              AssemblyCode `json:"code"`
	IsMaterialTakeoff bool         `json:"is_material_takeoff"`
	System            bool         `json:"system,omitempty"`
	Items             []AuditItem  `json:"items"`
}

// Add appends an item.
func (r *ElementRecord) Add(item AuditItem) {
	r.Items = append(r.Items, item)
}

// Complete reports whether every item is Correct.
func (r ElementRecord) Complete() bool {
	for _, it := range r.Items {
		if it.Status != StatusCorrect {
			return false
		}
	}
	return true
}

// Item returns the first item of the given kind.
func (r ElementRecord) Item(kind AuditKind) (AuditItem, bool) {
	for _, it := range r.Items {
		if it.Kind == kind {
			return it, true
		}
	}
	return AuditItem{}, false
}

// Has reports whether the record carries an item of the given kind.
func (r ElementRecord) Has(kind AuditKind) bool {
	_, ok := r.Item(kind)
	return ok
}

// Correctable returns the correctable items in record order.
func (r ElementRecord) Correctable() []AuditItem {
	var out []AuditItem
	for _, it := range r.Items {
		if it.Correctable() {
			out = append(out, it)
		}
	}
	return out
}

// CountCorrectable counts correctable items across records.
func CountCorrectable(records []ElementRecord) int {
	n := 0
	for _, r := range records {
		n += len(r.Correctable())
	}
	return n
}
