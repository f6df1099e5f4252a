package host

import (
	"fmt"
	"strconv"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// StorageType is how a parameter stores its value.
type StorageType string

const (
	StorageText    StorageType = "text"
	StorageInteger StorageType = "integer"
	StorageDouble  StorageType = "double"
	StorageElement StorageType = "element"
)

// Unit is the internal unit of a double parameter.
type Unit string

const (
	UnitNone   Unit = ""
	UnitFeet   Unit = "ft"
	UnitSqFeet Unit = "ft2"
)

const (
	metersPerFoot       = 0.3048
	squareMetersPerSqFt = 0.09290304
)

// Parameter is a named value on a view, type or material.
type Parameter struct {
	Name     string
	Storage  StorageType
	Text     string
	Integer  int64
	Double   float64
	Element  ir.ElementID
	Unit     Unit
	HasValue bool
	ReadOnly bool
}

// TextParameter builds a writable text parameter holding value.
func TextParameter(name, value string) Parameter {
	return Parameter{Name: name, Storage: StorageText, Text: value, HasValue: true}
}

// AsString renders the value as text. Doubles are converted to metric
// units first.
func (p Parameter) AsString() (string, error) {
	if !p.HasValue {
		return "", fmt.Errorf("%s: %w", p.Name, ErrNoValue)
	}
	switch p.Storage {
	case StorageText:
		return p.Text, nil
	case StorageInteger:
		return strconv.FormatInt(p.Integer, 10), nil
	case StorageDouble:
		d, _ := p.AsDouble()
		return strconv.FormatFloat(d, 'f', -1, 64), nil
	case StorageElement:
		return strconv.FormatInt(int64(p.Element), 10), nil
	default:
		return "", fmt.Errorf("%s: storage %q: %w", p.Name, p.Storage, ErrWrongType)
	}
}

// AsInt returns an integer value.
func (p Parameter) AsInt() (int64, error) {
	if !p.HasValue {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrNoValue)
	}
	if p.Storage != StorageInteger {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrWrongType)
	}
	return p.Integer, nil
}

// AsDouble returns a double value converted from internal units: feet to
// meters and square feet to square meters.
func (p Parameter) AsDouble() (float64, error) {
	if !p.HasValue {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrNoValue)
	}
	if p.Storage != StorageDouble {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrWrongType)
	}
	switch p.Unit {
	case UnitFeet:
		return p.Double * metersPerFoot, nil
	case UnitSqFeet:
		return p.Double * squareMetersPerSqFt, nil
	default:
		return p.Double, nil
	}
}

// AsElement returns an element reference.
func (p Parameter) AsElement() (ir.ElementID, error) {
	if !p.HasValue {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrNoValue)
	}
	if p.Storage != StorageElement {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrWrongType)
	}
	return p.Element, nil
}

// Parameters is an ordered parameter set.
type Parameters []Parameter

// Lookup finds a parameter by exact name.
func (ps Parameters) Lookup(name string) (Parameter, error) {
	for _, p := range ps {
		if p.Name == name {
			return p, nil
		}
	}
	return Parameter{}, fmt.Errorf("parameter %q: %w", name, ErrNotFound)
}

// String reads a parameter as text.
func (ps Parameters) String(name string) (string, error) {
	p, err := ps.Lookup(name)
	if err != nil {
		return "", err
	}
	return p.AsString()
}

// StringOr reads a parameter as text, substituting def when the parameter
// is missing or empty.
func (ps Parameters) StringOr(name, def string) string {
	s, err := ps.String(name)
	if err != nil {
		return def
	}
	return s
}
