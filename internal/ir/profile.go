package ir

// Bucket is a (group, subgroup) location in the project browser.
type Bucket struct {
	Group    string `json:"group"`
	Subgroup string `json:"subgroup"`
}

// KeywordBucket maps a keyword found in a sheet or view name to a bucket.
type KeywordBucket struct {
	Keyword  string `json:"keyword"`
	Group    string `json:"group"`
	Subgroup string `json:"subgroup"`
}

// Bucket returns the target location.
func (k KeywordBucket) Bucket() Bucket {
	return Bucket{Group: k.Group, Subgroup: k.Subgroup}
}

// CompanyRule names the company constant and where it lives.
type CompanyRule struct {
	Value         string `json:"value"`
	FilterField   string `json:"filter_field"`
	ViewParameter string `json:"view_parameter"`
}

// CodeFieldRule names the code field of element and material schedules.
type CodeFieldRule struct {
	Name         string `json:"name"`
	MaterialName string `json:"material_name"`
}

// GroupParams names the view parameters that hold the browser location.
type GroupParams struct {
	Group        string `json:"group"`
	Subgroup     string `json:"subgroup"`
	Subpartition string `json:"subpartition"`
}

// BucketRules holds the fixed target buckets of the classifier.
type BucketRules struct {
	Review        Bucket `json:"review"`
	WIP           Bucket `json:"wip"`
	Manual        Bucket `json:"manual"`
	Misclassified Bucket `json:"misclassified"`
	ManualReview  Bucket `json:"manual_review"`
	DefaultSheet  Bucket `json:"default_sheet"`
}

// ColumnRule describes the expected visible columns.
type ColumnRule struct {
	Expected     []string            `json:"expected"`
	DynamicIndex int                 `json:"dynamic_index"`
	AxisHeading  string              `json:"axis_heading"`
	RoomHeading  string              `json:"room_heading"`
	RoomKeywords []string            `json:"room_keywords"`
	Aliases      map[string][]string `json:"aliases"`
}

// FormatRule describes the partial field format.
type FormatRule struct {
	Heading  string   `json:"heading"`
	Aliases  []string `json:"aliases"`
	Accuracy string   `json:"accuracy"`
}

// MarkerRule holds the matrix markers.
type MarkerRule struct {
	Manual string `json:"manual"`
	Audit  string `json:"audit"`
}

// Profile is the read-once rule configuration of an audit pass. It is
// built before the pass and never mutated while the pass runs.
type Profile struct {
	CodePrefix        string          `json:"code_prefix"`
	Company           CompanyRule     `json:"company"`
	CodeFields        CodeFieldRule   `json:"code_fields"`
	FieldPrefixes     []string        `json:"field_prefixes"`
	GroupParams       GroupParams     `json:"group_params"`
	Buckets           BucketRules     `json:"buckets"`
	SheetClasses      []KeywordBucket `json:"sheet_classes"`
	ViewClasses       []KeywordBucket `json:"view_classes"`
	ProtectedGroups   []string        `json:"protected_groups"`
	CopyTokens        []string        `json:"copy_tokens"`
	WIPTokens         []string        `json:"wip_tokens"`
	IgnoredCategories []string        `json:"ignored_categories"`
	Columns           ColumnRule      `json:"columns"`
	PartialFormat     FormatRule      `json:"partial_format"`
	MaxFilters        int             `json:"max_filters"`
	ElementCategories []string        `json:"element_categories"`
	TakeoffCategories []string        `json:"takeoff_categories"`
	Markers           MarkerRule      `json:"markers"`
	SystemCategory    string          `json:"system_category"`
}

// DefaultProfile returns the built-in rule set.
func DefaultProfile() Profile {
	return Profile{
		CodePrefix: "C.",
		Company: CompanyRule{
			Value:         "RNG",
			FilterField:   "COMPANY",
			ViewParameter: "COMPANY",
		},
		CodeFields: CodeFieldRule{
			Name:         "Assembly Code",
			MaterialName: "Material: Assembly Code",
		},
		FieldPrefixes: []string{"Material: "},
		GroupParams: GroupParams{
			Group:        "Grupo de Vista",
			Subgroup:     "Subgrupo de Vista",
			Subpartition: "Subpartición",
		},
		Buckets: BucketRules{
			Review:        Bucket{"00 SOPORTE", "REVISAR COPIAS"},
			WIP:           Bucket{"01 TRABAJO EN PROCESO", "WIP"},
			Manual:        Bucket{"01 TRABAJO EN PROCESO", "METRADO MANUAL"},
			Misclassified: Bucket{"00 SOPORTE", "MAL CLASIFICADO"},
			ManualReview:  Bucket{"00 SOPORTE", "REVISION MANUAL"},
			DefaultSheet:  Bucket{"00 SOPORTE", "SOPORTE"},
		},
		SheetClasses: []KeywordBucket{
			{"ENTREGABLE", "02 ENTREGABLES", "ENTREGABLE"},
			{"LOOKAHEAD", "03 PLANIFICACION", "LOOKAHEAD"},
			{"AVANCE", "03 PLANIFICACION", "AVANCE"},
			{"SECTORIZACION", "03 PLANIFICACION", "SECTORIZACION"},
			{"VALORIZACION", "04 VALORIZACION", "VALORIZACION"},
		},
		ViewClasses: []KeywordBucket{
			{"AUDITORIA", "05 AUDITORIA", "AUDITORIA"},
			{"LOOKAHEAD", "03 PLANIFICACION", "LOOKAHEAD"},
			{"AVANCE", "03 PLANIFICACION", "AVANCE"},
			{"SECTORIZACION", "03 PLANIFICACION", "SECTORIZACION"},
			{"VALORIZACION", "04 VALORIZACION", "VALORIZACION"},
			{"COBIE", "06 COBIE", "COBIE"},
		},
		ProtectedGroups:   []string{"00 SOPORTE", "01 TRABAJO EN PROCESO", "06 COBIE"},
		CopyTokens:        []string{"COPY", "COPIA"},
		WIPTokens:         []string{"WIP"},
		IgnoredCategories: []string{"Revision Schedule", "Sheet List", "View List"},
		Columns: ColumnRule{
			Expected: []string{
				"CODIGO", "DESCRIPCION", "NIVEL", "EJES", "UNIDAD",
				"CANTIDAD", "LONGITUD", "PARCIAL", "EMPRESA",
			},
			DynamicIndex: 3,
			AxisHeading:  "EJES",
			RoomHeading:  "AMBIENTE",
			RoomKeywords: []string{"ARQ", "ARQUITECTURA", "ACABADOS", "AMBIENTE"},
			Aliases: map[string][]string{
				"CODIGO":      {"ASSEMBLY CODE", "COD"},
				"DESCRIPCION": {"DESC", "ASSEMBLY DESCRIPTION"},
				"NIVEL":       {"LEVEL", "NIV"},
				"EJES":        {"EJE", "GRID"},
				"AMBIENTE":    {"ROOM", "ESPACIO"},
				"UNIDAD":      {"UND", "UNIT"},
				"CANTIDAD":    {"CANT", "COUNT"},
				"LONGITUD":    {"LENGTH", "LONG"},
				"PARCIAL":     {"SUBTOTAL", "METRADO"},
				"EMPRESA":     {"COMPANY"},
			},
		},
		PartialFormat: FormatRule{
			Heading:  "PARCIAL",
			Aliases:  []string{"SUBTOTAL", "METRADO"},
			Accuracy: "0.01",
		},
		MaxFilters: 8,
		ElementCategories: []string{
			"Walls", "Floors", "Structural Columns", "Structural Framing",
			"Structural Foundations", "Doors", "Windows", "Ceilings", "Roofs",
		},
		TakeoffCategories: []string{"Walls", "Floors", "Ceilings", "Roofs"},
		Markers: MarkerRule{
			Manual: "MANUAL",
			Audit:  "✓",
		},
		SystemCategory: "SISTEMA",
	}
}

// ExpectedColumns returns the expected heading sequence with the dynamic
// position resolved: the room heading when room is true, else the axis
// heading.
func (p Profile) ExpectedColumns(room bool) []string {
	out := append([]string(nil), p.Columns.Expected...)
	i := p.Columns.DynamicIndex
	if i >= 0 && i < len(out) {
		if room {
			out[i] = p.Columns.RoomHeading
		} else {
			out[i] = p.Columns.AxisHeading
		}
	}
	return out
}

// HeadingMatches reports whether heading is the expected heading or one of
// its aliases, compared by FoldKey.
func (p Profile) HeadingMatches(expected, heading string) bool {
	if EqualFold(expected, heading) {
		return true
	}
	return p.IsAlias(expected, heading)
}

// IsAlias reports whether heading is a listed alias of expected.
func (p Profile) IsAlias(expected, heading string) bool {
	for k, aliases := range p.Columns.Aliases {
		if !EqualFold(k, expected) {
			continue
		}
		for _, a := range aliases {
			if EqualFold(a, heading) {
				return true
			}
		}
	}
	return false
}

// IsProtectedGroup reports whether group is one of the protected buckets.
func (p Profile) IsProtectedGroup(group string) bool {
	for _, g := range p.ProtectedGroups {
		if EqualFold(g, group) {
			return true
		}
	}
	return false
}

// IsIgnoredCategory reports whether views of category are never audited.
func (p Profile) IsIgnoredCategory(category string) bool {
	return containsFold(p.IgnoredCategories, category)
}

// IsElementCategory reports whether element types of category carry codes.
func (p Profile) IsElementCategory(category string) bool {
	return containsFold(p.ElementCategories, category)
}

// IsTakeoffCategory reports whether codes of category live on materials.
func (p Profile) IsTakeoffCategory(category string) bool {
	return containsFold(p.TakeoffCategories, category)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if EqualFold(v, s) {
			return true
		}
	}
	return false
}
