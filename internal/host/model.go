package host

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Model is the YAML fixture form of a building model. It seeds the SQLite
// store and the in-memory test document.
type Model struct {
	// Title is the document name.
	Title string `yaml:"title"`

	Views     []ModelView     `yaml:"views,omitempty"`
	Types     []ModelType     `yaml:"types,omitempty"`
	Materials []ModelMaterial `yaml:"materials,omitempty"`
	Links     []ModelLink     `yaml:"links,omitempty"`
}

// ModelView is a schedule view in a fixture.
type ModelView struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Template bool   `yaml:"template,omitempty"`
	Takeoff  bool   `yaml:"takeoff,omitempty"`

	// Parameters holds writable text parameters.
	Parameters map[string]string `yaml:"parameters,omitempty"`

	// Typed holds parameters of any storage type.
	Typed []ModelParam `yaml:"typed,omitempty"`

	Fields       []ModelField  `yaml:"fields,omitempty"`
	Filters      []ModelFilter `yaml:"filters,omitempty"`
	Itemize      bool          `yaml:"itemize"`
	IncludeLinks bool          `yaml:"include_links"`
	Sheets       []string      `yaml:"sheets,omitempty"`
}

// ModelParam is a typed parameter in a fixture.
type ModelParam struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Value    string `yaml:"value,omitempty"`
	Unit     string `yaml:"unit,omitempty"`
	ReadOnly bool   `yaml:"read_only,omitempty"`
}

// ModelField is a schedule field in a fixture.
type ModelField struct {
	ID      int64        `yaml:"id"`
	Name    string       `yaml:"name"`
	Heading string       `yaml:"heading"`
	Hidden  bool         `yaml:"hidden,omitempty"`
	Kind    string       `yaml:"kind,omitempty"`
	Format  *ModelFormat `yaml:"format,omitempty"`
}

// ModelFormat is a field format in a fixture. A nil format means the
// project default.
type ModelFormat struct {
	Accuracy float64 `yaml:"accuracy"`
	Symbol   string  `yaml:"symbol,omitempty"`
}

// ModelFilter is a filter clause in a fixture.
type ModelFilter struct {
	Field string `yaml:"field"`
	Op    string `yaml:"op"`
	Value string `yaml:"value,omitempty"`
	Type  string `yaml:"type,omitempty"`
}

// ModelType is an element type in a fixture.
type ModelType struct {
	ID         int64             `yaml:"id"`
	Name       string            `yaml:"name"`
	Category   string            `yaml:"category"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
	Materials  []int64           `yaml:"materials,omitempty"`
}

// ModelMaterial is a material in a fixture.
type ModelMaterial struct {
	ID         int64             `yaml:"id"`
	Name       string            `yaml:"name"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
}

// ModelLink is a linked document in a fixture. A link without a model
// cannot be opened.
type ModelLink struct {
	Name  string `yaml:"name"`
	Model *Model `yaml:"model,omitempty"`
}

// Snapshot is a built fixture: host types ready to be served.
type Snapshot struct {
	Title     string
	Views     []ScheduleView
	Types     []ElementType
	Materials []Material
	Links     []LinkSnapshot
}

// LinkSnapshot is a built link. Document is nil for unloaded links.
type LinkSnapshot struct {
	Name     string
	Document *Snapshot
}

// LoadModel reads a YAML model fixture. Unknown fields are rejected.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return ParseModel(data)
}

// ParseModel parses YAML model data. Unknown fields are rejected.
func ParseModel(data []byte) (*Model, error) {
	var m Model
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}
	if m.Title == "" {
		return nil, fmt.Errorf("invalid model: title is required")
	}
	return &m, nil
}

// Build converts the fixture into host snapshots, validating ids, field
// kinds, operators and value types.
func (m *Model) Build() (*Snapshot, error) {
	s := &Snapshot{Title: m.Title}
	seen := make(map[int64]string)
	claim := func(id int64, what string) error {
		if id <= 0 {
			return fmt.Errorf("%s: id must be positive", what)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%s: id %d already used by %s", what, id, prev)
		}
		seen[id] = what
		return nil
	}

	for i, v := range m.Views {
		where := fmt.Sprintf("views[%d]", i)
		if err := claim(v.ID, where); err != nil {
			return nil, err
		}
		view, err := v.build(where)
		if err != nil {
			return nil, err
		}
		s.Views = append(s.Views, view)
	}
	for i, t := range m.Types {
		where := fmt.Sprintf("types[%d]", i)
		if err := claim(t.ID, where); err != nil {
			return nil, err
		}
		et := ElementType{
			ID:         ir.ElementID(t.ID),
			Name:       t.Name,
			Category:   t.Category,
			Parameters: textParameters(t.Parameters),
		}
		for _, mid := range t.Materials {
			et.MaterialIDs = append(et.MaterialIDs, ir.ElementID(mid))
		}
		s.Types = append(s.Types, et)
	}
	for i, mat := range m.Materials {
		where := fmt.Sprintf("materials[%d]", i)
		if err := claim(mat.ID, where); err != nil {
			return nil, err
		}
		s.Materials = append(s.Materials, Material{
			ID:         ir.ElementID(mat.ID),
			Name:       mat.Name,
			Parameters: textParameters(mat.Parameters),
		})
	}
	for i, l := range m.Links {
		if l.Name == "" {
			return nil, fmt.Errorf("links[%d]: name is required", i)
		}
		ls := LinkSnapshot{Name: l.Name}
		if l.Model != nil {
			doc, err := l.Model.Build()
			if err != nil {
				return nil, fmt.Errorf("links[%d]: %w", i, err)
			}
			ls.Document = doc
		}
		s.Links = append(s.Links, ls)
	}
	return s, nil
}

func (v ModelView) build(where string) (ScheduleView, error) {
	view := ScheduleView{
		ID:                ir.ElementID(v.ID),
		Name:              v.Name,
		Category:          v.Category,
		IsTemplate:        v.Template,
		IsMaterialTakeoff: v.Takeoff,
		Parameters:        textParameters(v.Parameters),
		Sheets:            append([]string(nil), v.Sheets...),
		Definition: Definition{
			Itemize:      v.Itemize,
			IncludeLinks: v.IncludeLinks,
		},
	}
	for j, p := range v.Typed {
		param, err := p.build()
		if err != nil {
			return ScheduleView{}, fmt.Errorf("%s.typed[%d]: %w", where, j, err)
		}
		view.Parameters = append(view.Parameters, param)
	}
	for j, f := range v.Fields {
		field, err := f.build()
		if err != nil {
			return ScheduleView{}, fmt.Errorf("%s.fields[%d]: %w", where, j, err)
		}
		view.Definition.Fields = append(view.Definition.Fields, field)
	}
	for j, f := range v.Filters {
		clause, err := f.Clause()
		if err != nil {
			return ScheduleView{}, fmt.Errorf("%s.filters[%d]: %w", where, j, err)
		}
		view.Definition.Filters = append(view.Definition.Filters, clause)
	}
	return view, nil
}

func (p ModelParam) build() (Parameter, error) {
	param := Parameter{
		Name:     p.Name,
		Storage:  StorageType(p.Type),
		Unit:     Unit(p.Unit),
		ReadOnly: p.ReadOnly,
		HasValue: p.Value != "",
	}
	if p.Name == "" {
		return Parameter{}, fmt.Errorf("name is required")
	}
	if !param.HasValue {
		if param.Storage == "" {
			param.Storage = StorageText
		}
		return param, nil
	}
	switch param.Storage {
	case StorageText, "":
		param.Storage = StorageText
		param.Text = p.Value
	case StorageInteger:
		v, err := ir.ParseValue(ir.KindDouble, p.Value)
		if err != nil {
			return Parameter{}, err
		}
		param.Integer = int64(v.(ir.DoubleValue))
	case StorageDouble:
		v, err := ir.ParseValue(ir.KindDouble, p.Value)
		if err != nil {
			return Parameter{}, err
		}
		param.Double = float64(v.(ir.DoubleValue))
	case StorageElement:
		v, err := ir.ParseValue(ir.KindElementID, p.Value)
		if err != nil {
			return Parameter{}, err
		}
		param.Element = ir.ElementID(v.(ir.ElementRefValue))
	default:
		return Parameter{}, fmt.Errorf("unknown parameter type %q", p.Type)
	}
	return param, nil
}

func (f ModelField) build() (Field, error) {
	kind := FieldKind(f.Kind)
	switch kind {
	case "":
		kind = FieldParameter
	case FieldParameter, FieldCount, FieldFormula:
	default:
		return Field{}, fmt.Errorf("unknown field kind %q", f.Kind)
	}
	field := Field{
		ID:      ir.FieldID(f.ID),
		Name:    f.Name,
		Heading: f.Heading,
		Hidden:  f.Hidden,
		Kind:    kind,
		Format:  FieldFormat{UseDefault: true},
	}
	if f.Format != nil {
		field.Format = FieldFormat{Accuracy: f.Format.Accuracy, Symbol: f.Format.Symbol}
	}
	if field.Heading == "" {
		field.Heading = f.Name
	}
	return field, nil
}

// Clause converts the fixture filter into an ir clause.
func (f ModelFilter) Clause() (ir.FilterClause, error) {
	op := ir.FilterOperator(f.Op)
	if !op.Valid() {
		return ir.FilterClause{}, fmt.Errorf("unknown operator %q", f.Op)
	}
	clause := ir.FilterClause{Field: f.Field, Operator: op}
	if op.Unary() {
		return clause, nil
	}
	v, err := ir.ParseValue(ir.ValueKind(f.Type), f.Value)
	if err != nil {
		return ir.FilterClause{}, err
	}
	clause.Value = v
	return clause, nil
}

// textParameters converts a name→value map into parameters sorted by name.
func textParameters(m map[string]string) Parameters {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	ps := make(Parameters, 0, len(names))
	for _, n := range names {
		ps = append(ps, TextParameter(n, m[n]))
	}
	return ps
}
