package rules

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Sheets names the rule tabs.
type Sheets struct {
	Matrix   string
	Models   string
	Keywords string
}

// DefaultSheets returns the standard tab names.
func DefaultSheets() Sheets {
	return Sheets{Matrix: "MATRIZ", Models: "MODELOS", Keywords: "PALABRAS"}
}

// ModelGroup assigns a model document to a coordination group.
type ModelGroup struct {
	Group string `json:"group"`
	Model string `json:"model"`
}

// Keyword list names.
const (
	ListWIP  = "WIP"
	ListCopy = "COPIA"
)

// Keyword is one token of a named keyword list.
type Keyword struct {
	List  string `json:"list"`
	Token string `json:"token"`
}

// Data is the raw rule data read from the sheets.
type Data struct {
	Matrix   []MatrixEntry
	Models   []ModelGroup
	Keywords []Keyword
}

// ClassificationType says how a code's quantities are produced.
type ClassificationType int

const (
	TypeUnknown ClassificationType = iota
	TypeManual
	TypeAutomatic
)

func (t ClassificationType) String() string {
	switch t {
	case TypeManual:
		return "manual"
	case TypeAutomatic:
		return "automatic"
	default:
		return "unknown"
	}
}

// RuleSet is the read-only rule configuration of one audit pass.
type RuleSet struct {
	Profile ir.Profile

	matrix     map[ir.AssemblyCode]MatrixEntry
	codes      []ir.AssemblyCode
	models     []ModelGroup
	wipTokens  []string
	copyTokens []string
}

// NewRuleSet combines a profile with rule data.
func NewRuleSet(p ir.Profile, d Data) *RuleSet {
	rs := &RuleSet{
		Profile:    p,
		matrix:     make(map[ir.AssemblyCode]MatrixEntry, len(d.Matrix)),
		models:     append([]ModelGroup(nil), d.Models...),
		wipTokens:  append([]string(nil), p.WIPTokens...),
		copyTokens: append([]string(nil), p.CopyTokens...),
	}
	for _, e := range d.Matrix {
		if _, dup := rs.matrix[e.Code]; dup || !e.Code.Valid() {
			continue
		}
		rs.matrix[e.Code] = e
		rs.codes = append(rs.codes, e.Code)
	}
	for _, k := range d.Keywords {
		switch NormalizeHeader(k.List) {
		case ListWIP:
			rs.wipTokens = appendUnique(rs.wipTokens, k.Token)
		case ListCopy:
			rs.copyTokens = appendUnique(rs.copyTokens, k.Token)
		}
	}
	return rs
}

// Load reads the rule sheets through r. Any sheet that cannot be read or
// parsed is logged and treated as empty. A nil reader yields a rule set
// with profile data only.
func Load(ctx context.Context, r SheetReader, sheets Sheets, p ir.Profile, logger *zap.Logger) *RuleSet {
	if r == nil {
		logger.Info("no rule source configured, using profile only")
		return NewRuleSet(p, Data{})
	}

	var d Data
	if t := readTable(ctx, r, sheets.Matrix, logger); t != nil {
		entries, err := ParseMatrix(t)
		if err != nil {
			logger.Warn("classification matrix unusable", zap.String("sheet", sheets.Matrix), zap.Error(err))
		}
		d.Matrix = entries
	}
	if t := readTable(ctx, r, sheets.Models, logger); t != nil {
		for i := 0; i < t.Len(); i++ {
			g, m := t.Cell(i, "GRUPO", "GROUP"), t.Cell(i, "MODELO", "MODEL")
			if g != "" && m != "" {
				d.Models = append(d.Models, ModelGroup{Group: g, Model: m})
			}
		}
	}
	if t := readTable(ctx, r, sheets.Keywords, logger); t != nil {
		for i := 0; i < t.Len(); i++ {
			l, tok := t.Cell(i, "LISTA", "LIST"), t.Cell(i, "PALABRA", "TOKEN")
			if l != "" && tok != "" {
				d.Keywords = append(d.Keywords, Keyword{List: l, Token: tok})
			}
		}
	}

	rs := NewRuleSet(p, d)
	logger.Info("rules loaded",
		zap.Int("matrix_codes", len(rs.codes)),
		zap.Int("model_groups", len(rs.models)),
		zap.Int("wip_tokens", len(rs.wipTokens)))
	return rs
}

func readTable(ctx context.Context, r SheetReader, sheet string, logger *zap.Logger) *Table {
	if sheet == "" {
		return nil
	}
	rows, err := r.ReadRange(ctx, sheet, "")
	if err != nil {
		logger.Warn("rule sheet unreadable, treating as empty", zap.String("sheet", sheet), zap.Error(err))
		return nil
	}
	return NewTable(rows)
}

// Codes lists matrix codes in sheet order.
func (rs *RuleSet) Codes() []ir.AssemblyCode {
	return append([]ir.AssemblyCode(nil), rs.codes...)
}

// Description returns the matrix description of code, or "".
func (rs *RuleSet) Description(code ir.AssemblyCode) string {
	return rs.matrix[code].Description()
}

// ClassificationType reports whether code is manually maintained or
// auto-generated. A code whose origin is the manual marker is manual; a
// non-manual code carrying the audit marker is automatic; anything else,
// including codes missing from the matrix, is unknown.
func (rs *RuleSet) ClassificationType(code ir.AssemblyCode) ClassificationType {
	e, ok := rs.matrix[code]
	if !ok {
		return TypeUnknown
	}
	if ir.EqualFold(e.Origin, rs.Profile.Markers.Manual) {
		return TypeManual
	}
	if rs.Profile.Markers.Audit != "" && strings.Contains(e.AuditMarker, rs.Profile.Markers.Audit) {
		return TypeAutomatic
	}
	return TypeUnknown
}

// WIPTokens returns profile and sheet WIP tokens.
func (rs *RuleSet) WIPTokens() []string {
	return rs.wipTokens
}

// CopyTokens returns profile and sheet copy tokens.
func (rs *RuleSet) CopyTokens() []string {
	return rs.copyTokens
}

// Models returns the model grouping rows.
func (rs *RuleSet) Models() []ModelGroup {
	return rs.models
}

// Whitelist returns the normalized names of models sharing a group with
// hostTitle, excluding the host itself.
func (rs *RuleSet) Whitelist(hostTitle string) map[string]bool {
	host := NormalizeModelName(hostTitle)
	groups := make(map[string]bool)
	for _, m := range rs.models {
		if NormalizeModelName(m.Model) == host {
			groups[NormalizeHeader(m.Group)] = true
		}
	}
	out := make(map[string]bool)
	for _, m := range rs.models {
		name := NormalizeModelName(m.Model)
		if groups[NormalizeHeader(m.Group)] && name != host {
			out[name] = true
		}
	}
	return out
}

// NormalizeModelName reduces a document or link instance name to a
// comparable model name: the instance suffix (" : 1 : Shared") and file
// extension are dropped, then the name is folded.
func NormalizeModelName(name string) string {
	if i := strings.Index(name, " : "); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".rvt") {
		name = strings.TrimSuffix(name, ext)
	}
	return NormalizeHeader(name)
}

// Summary describes the loaded data.
type Summary struct {
	MatrixCodes int      `json:"matrix_codes"`
	Manual      int      `json:"manual"`
	Automatic   int      `json:"automatic"`
	ModelGroups int      `json:"model_groups"`
	WIPTokens   []string `json:"wip_tokens"`
	CopyTokens  []string `json:"copy_tokens"`
}

// Summarize counts the loaded data.
func (rs *RuleSet) Summarize() Summary {
	s := Summary{
		MatrixCodes: len(rs.codes),
		ModelGroups: len(rs.models),
		WIPTokens:   rs.WIPTokens(),
		CopyTokens:  rs.CopyTokens(),
	}
	for _, c := range rs.codes {
		switch rs.ClassificationType(c) {
		case TypeManual:
			s.Manual++
		case TypeAutomatic:
			s.Automatic++
		}
	}
	return s
}

func appendUnique(list []string, token string) []string {
	token = strings.TrimSpace(token)
	if token == "" {
		return list
	}
	for _, t := range list {
		if ir.EqualFold(t, token) {
			return list
		}
	}
	return append(list, token)
}
