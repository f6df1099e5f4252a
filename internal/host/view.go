package host

import (
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// ScheduleView is a read snapshot of a schedule view.
type ScheduleView struct {
	ID                ir.ElementID
	Name              string
	Category          string
	IsTemplate        bool
	IsMaterialTakeoff bool
	Parameters        Parameters
	Definition        Definition

	// Sheets names the sheets the view is placed on.
	Sheets []string
}

// Placed reports whether the view sits on at least one sheet.
func (v ScheduleView) Placed() bool {
	return len(v.Sheets) > 0
}

// Definition is the structured schedule configuration.
type Definition struct {
	Fields       []Field
	Filters      []ir.FilterClause
	Itemize      bool
	IncludeLinks bool
}

// VisibleFields returns the non-hidden fields in order.
func (d Definition) VisibleFields() []Field {
	var out []Field
	for _, f := range d.Fields {
		if !f.Hidden {
			out = append(out, f)
		}
	}
	return out
}

// Field returns the field with the given id.
func (d Definition) Field(id ir.FieldID) (Field, bool) {
	for _, f := range d.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FieldKind distinguishes parameter fields from computed ones.
type FieldKind string

const (
	FieldParameter FieldKind = "parameter"
	FieldCount     FieldKind = "count"
	FieldFormula   FieldKind = "formula"
)

// FieldFormat holds the numeric display options of a field.
type FieldFormat struct {
	// UseDefault means the project default applies; Accuracy and Symbol
	// are then meaningless.
	UseDefault bool
	Accuracy   float64
	Symbol     string
}

// Field is one schedule column.
type Field struct {
	ID      ir.FieldID
	Name    string
	Heading string
	Hidden  bool
	Kind    FieldKind
	Format  FieldFormat
}

// ElementType is a model element type.
type ElementType struct {
	ID          ir.ElementID
	Name        string
	Category    string
	Parameters  Parameters
	MaterialIDs []ir.ElementID
}

// Material is a material record referenced by element types.
type Material struct {
	ID         ir.ElementID
	Name       string
	Parameters Parameters
}
