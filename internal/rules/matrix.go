package rules

import (
	"fmt"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Matrix column headers. Lookups fold case, accents and spacing.
var (
	colCode   = []string{"CODIGO", "ASSEMBLY CODE", "CODE"}
	colOrigin = []string{"ORIGEN DEL METRADO", "ORIGEN", "ORIGIN"}
	colAudit  = []string{"AUDITORIA", "AUDIT"}
)

// ClassificationLevels is the number of description/number pairs per
// matrix row.
const ClassificationLevels = 6

// Classification is one description/number pair of a matrix row.
type Classification struct {
	Number      string `json:"number"`
	Description string `json:"description"`
}

// MatrixEntry is one row of the classification matrix.
type MatrixEntry struct {
	Code            ir.AssemblyCode                    `json:"code"`
	Origin          string                             `json:"origin"`
	AuditMarker     string                             `json:"audit_marker"`
	Classifications [ClassificationLevels]Classification `json:"classifications"`
}

// Description returns the deepest non-empty classification description.
func (e MatrixEntry) Description() string {
	for i := ClassificationLevels - 1; i >= 0; i-- {
		if d := e.Classifications[i].Description; d != "" {
			return d
		}
	}
	return ""
}

// ParseMatrix reads matrix rows from t. Rows without a valid code are
// skipped; the first row of a repeated code wins. An error is returned
// only when the code column is missing.
func ParseMatrix(t *Table) ([]MatrixEntry, error) {
	if !t.Has(colCode...) {
		return nil, fmt.Errorf("matrix: code column not found")
	}
	seen := make(map[ir.AssemblyCode]bool)
	var out []MatrixEntry
	for r := 0; r < t.Len(); r++ {
		code := ir.ExtractAssemblyCode(t.Cell(r, colCode...))
		if !code.Valid() || seen[code] {
			continue
		}
		seen[code] = true
		e := MatrixEntry{
			Code:        code,
			Origin:      t.Cell(r, colOrigin...),
			AuditMarker: t.Cell(r, colAudit...),
		}
		for lvl := 0; lvl < ClassificationLevels; lvl++ {
			n := lvl + 1
			e.Classifications[lvl] = Classification{
				Number:      t.Cell(r, fmt.Sprintf("NUMERO %d", n), fmt.Sprintf("N%d", n)),
				Description: t.Cell(r, fmt.Sprintf("DESCRIPCION %d", n), fmt.Sprintf("CLASIFICACION %d", n)),
			}
		}
		out = append(out, e)
	}
	return out, nil
}
