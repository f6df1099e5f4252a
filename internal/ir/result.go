package ir

// CorrectionCounts tallies applied corrections per kind.
type CorrectionCounts struct {
	Names             int `json:"names"`
	Reclassifications int `json:"reclassifications"`
	Filters           int `json:"filters"`
	Formats           int `json:"formats"`
	Content           int `json:"content"`
	Links             int `json:"links"`
	ColumnRenames     int `json:"column_renames"`
	ColumnHides       int `json:"column_hides"`
	CompanyParams     int `json:"company_params"`
}

// Total sums every counter.
func (c CorrectionCounts) Total() int {
	return c.Names + c.Reclassifications + c.Filters + c.Formats + c.Content +
		c.Links + c.ColumnRenames + c.ColumnHides + c.CompanyParams
}

// ProcessingResult is the outcome of one write pass.
//
// Success is true only when no error was recorded. Fatal is true when the
// transaction was rolled back; in that case Counts is zero.
type ProcessingResult struct {
	Success bool             `json:"success"`
	Fatal   bool             `json:"fatal"`
	Errors  []string         `json:"errors"`
	Counts  CorrectionCounts `json:"counts"`
}
