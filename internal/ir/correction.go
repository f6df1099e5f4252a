package ir

// Correction is the typed payload of a correctable AuditItem. It is a
// sealed interface: one variant per correctable audit kind.
//
// Implementations:
//   - RenameView       (VIEW_NAME)
//   - Reclassify       (RECLASSIFICATION)
//   - ReplaceFilters   (FILTER)
//   - FixColumns       (COLUMNS)
//   - SetItemize       (CONTENT)
//   - SetIncludeLinks  (LINKS)
//   - FixFormat        (PARTIAL_FORMAT)
//   - SetCompany       (COMPANY_PARAM)
type Correction interface {
	Kind() AuditKind
	isCorrection()
}

// RenameView renames the view.
type RenameView struct {
	Name string `json:"name"`
}

func (RenameView) Kind() AuditKind { return KindViewName }
func (RenameView) isCorrection()   {}

// Reclassify moves the view to another bucket and optionally renames it.
type Reclassify struct {
	Job RenamingJob `json:"job"`
}

func (Reclassify) Kind() AuditKind { return KindReclassification }
func (Reclassify) isCorrection()   {}

// ReplaceFilters replaces the whole filter list with Filters, in order.
type ReplaceFilters struct {
	Filters []FilterClause `json:"filters"`
}

func (ReplaceFilters) Kind() AuditKind { return KindFilter }
func (ReplaceFilters) isCorrection()   {}

// FixColumns hides fields and rewrites headings. Hide is applied first.
type FixColumns struct {
	Headings map[FieldID]string `json:"headings,omitempty"`
	Hide     []FieldID          `json:"hide,omitempty"`
}

func (FixColumns) Kind() AuditKind { return KindColumns }
func (FixColumns) isCorrection()   {}

// SetItemize sets the itemize-every-instance flag.
type SetItemize struct {
	Value bool `json:"value"`
}

func (SetItemize) Kind() AuditKind { return KindContent }
func (SetItemize) isCorrection()   {}

// SetIncludeLinks sets the include-linked-elements flag.
type SetIncludeLinks struct {
	Value bool `json:"value"`
}

func (SetIncludeLinks) Kind() AuditKind { return KindLinks }
func (SetIncludeLinks) isCorrection()   {}

// FixFormat applies the partial numeric format to Field.
type FixFormat struct {
	Field FieldID `json:"field"`
}

func (FixFormat) Kind() AuditKind { return KindPartialFormat }
func (FixFormat) isCorrection()   {}

// SetCompany writes Value to the view's company parameter.
type SetCompany struct {
	Value string `json:"value"`
}

func (SetCompany) Kind() AuditKind { return KindCompanyParam }
func (SetCompany) isCorrection()   {}

// RenamingJob is the target location (and optionally name) of a view.
// Empty NewName and Subpartition mean "leave unchanged".
type RenamingJob struct {
	NewName      string `json:"new_name,omitempty"`
	Group        string `json:"group"`
	Subgroup     string `json:"subgroup"`
	Subpartition string `json:"subpartition,omitempty"`
}

// Target returns the bucket the job moves the view into.
func (j RenamingJob) Target() Bucket {
	return Bucket{Group: j.Group, Subgroup: j.Subgroup}
}
