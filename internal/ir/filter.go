package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ElementID identifies an element (view, type, material, field owner) in a
// host document.
type ElementID int64

// FieldID identifies a field within a schedule definition.
type FieldID int64

// FilterOperator is the comparison a filter clause applies.
type FilterOperator string

const (
	OpEqual          FilterOperator = "equal"
	OpNotEqual       FilterOperator = "not_equal"
	OpGreater        FilterOperator = "greater"
	OpGreaterOrEqual FilterOperator = "greater_or_equal"
	OpLess           FilterOperator = "less"
	OpLessOrEqual    FilterOperator = "less_or_equal"
	OpContains       FilterOperator = "contains"
	OpNotContains    FilterOperator = "not_contains"
	OpBeginsWith     FilterOperator = "begins_with"
	OpNotBeginsWith  FilterOperator = "not_begins_with"
	OpEndsWith       FilterOperator = "ends_with"
	OpNotEndsWith    FilterOperator = "not_ends_with"
	OpHasValue       FilterOperator = "has_value"
	OpHasNoValue     FilterOperator = "has_no_value"
)

var validOperators = map[FilterOperator]bool{
	OpEqual: true, OpNotEqual: true, OpGreater: true, OpGreaterOrEqual: true,
	OpLess: true, OpLessOrEqual: true, OpContains: true, OpNotContains: true,
	OpBeginsWith: true, OpNotBeginsWith: true, OpEndsWith: true,
	OpNotEndsWith: true, OpHasValue: true, OpHasNoValue: true,
}

// Valid reports whether op is a known operator.
func (op FilterOperator) Valid() bool {
	return validOperators[op]
}

// Unary reports whether op takes no value.
func (op FilterOperator) Unary() bool {
	return op == OpHasValue || op == OpHasNoValue
}

// ValueKind tags the concrete type of a filter value.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindDouble    ValueKind = "double"
	KindElementID ValueKind = "element"
)

// Value is a typed filter value. It is a sealed interface: only the types
// in this package implement it.
//
// Implementations:
//   - StringValue
//   - DoubleValue
//   - ElementRefValue
type Value interface {
	Kind() ValueKind
	String() string
	isValue()
}

// StringValue is a text filter value.
type StringValue string

func (StringValue) Kind() ValueKind  { return KindString }
func (v StringValue) String() string { return string(v) }
func (StringValue) isValue()         {}

// DoubleValue is a numeric filter value in internal units.
type DoubleValue float64

func (DoubleValue) Kind() ValueKind { return KindDouble }
func (v DoubleValue) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}
func (DoubleValue) isValue() {}

// ElementRefValue references another element by id.
type ElementRefValue ElementID

func (ElementRefValue) Kind() ValueKind { return KindElementID }
func (v ElementRefValue) String() string {
	return "#" + strconv.FormatInt(int64(v), 10)
}
func (ElementRefValue) isValue() {}

// ParseValue builds a Value of the given kind from its text form.
func ParseValue(kind ValueKind, raw string) (Value, error) {
	switch kind {
	case KindString, "":
		return StringValue(raw), nil
	case KindDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parse double value %q: %w", raw, err)
		}
		return DoubleValue(f), nil
	case KindElementID:
		n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse element value %q: %w", raw, err)
		}
		return ElementRefValue(n), nil
	default:
		return nil, fmt.Errorf("unknown value kind %q", kind)
	}
}

// ValuesEqual compares two values by kind and content. Nil equals nil.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a == b
}

// FilterClause is one schedule filter: field name, operator and value.
// Field holds the field name as shown in the schedule (prefix included,
// e.g. "Material: Assembly Code").
type FilterClause struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    Value          `json:"value,omitempty"`
}

// Equal reports whether c and o have the same field, operator and value.
func (c FilterClause) Equal(o FilterClause) bool {
	return c.Field == o.Field && c.Operator == o.Operator && ValuesEqual(c.Value, o.Value)
}

func (c FilterClause) String() string {
	if c.Value == nil || c.Operator.Unary() {
		return fmt.Sprintf("%s %s", c.Field, c.Operator)
	}
	return fmt.Sprintf("%s %s %q", c.Field, c.Operator, c.Value.String())
}

// FiltersEqual compares two clause lists position by position.
func FiltersEqual(a, b []FilterClause) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// DescribeFilters renders a clause list for audit output.
func DescribeFilters(clauses []FilterClause) string {
	if len(clauses) == 0 {
		return "(none)"
	}
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}
