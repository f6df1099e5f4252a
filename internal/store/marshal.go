package store

import (
	"database/sql"
	"fmt"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// marshalFilterValue splits a filter value into its kind and text columns.
// Unary clauses store NULLs.
func marshalFilterValue(v ir.Value) (kind, text sql.NullString) {
	if v == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: string(v.Kind()), Valid: true},
		sql.NullString{String: v.String(), Valid: true}
}

// unmarshalFilterValue rebuilds a filter value from its columns.
func unmarshalFilterValue(kind, text sql.NullString) (ir.Value, error) {
	if !kind.Valid {
		return nil, nil
	}
	v, err := ir.ParseValue(ir.ValueKind(kind.String), text.String)
	if err != nil {
		return nil, fmt.Errorf("unmarshal filter value: %w", err)
	}
	return v, nil
}
