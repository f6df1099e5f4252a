package compiler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrCodePrefixEmpty   = "E201" // code prefix is required
	ErrCompanyIncomplete = "E202" // company value, filter field and parameter required
	ErrCodeFieldsEmpty   = "E203" // code field names required
	ErrColumnsInvalid    = "E204" // expected columns empty or dynamic index out of range
	ErrAccuracyInvalid   = "E205" // partial accuracy not a positive decimal
	ErrMaxFiltersTooLow  = "E206" // max filters below the two leading clauses
	ErrBucketIncomplete  = "E207" // bucket group or subgroup empty
	ErrKeywordEmpty      = "E208" // keyword bucket without keyword
	ErrGroupParamsEmpty  = "E209" // group parameter names required
	ErrMarkersIncomplete = "E210" // manual marker required
)

// ValidationError represents a profile validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateProfile checks a compiled profile. Returns all errors found.
func ValidateProfile(p ir.Profile) []ValidationError {
	var errs []ValidationError
	add := func(code, field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg, Code: code})
	}

	if p.CodePrefix == "" {
		add(ErrCodePrefixEmpty, "code_prefix", "code prefix is required")
	}
	if p.Company.Value == "" || p.Company.FilterField == "" || p.Company.ViewParameter == "" {
		add(ErrCompanyIncomplete, "company", "value, filter_field and view_parameter are required")
	}
	if p.CodeFields.Name == "" || p.CodeFields.MaterialName == "" {
		add(ErrCodeFieldsEmpty, "code_fields", "name and material_name are required")
	}
	if p.GroupParams.Group == "" || p.GroupParams.Subgroup == "" || p.GroupParams.Subpartition == "" {
		add(ErrGroupParamsEmpty, "group_params", "group, subgroup and subpartition are required")
	}

	if len(p.Columns.Expected) == 0 {
		add(ErrColumnsInvalid, "columns.expected", "at least one expected column is required")
	} else if p.Columns.DynamicIndex < 0 || p.Columns.DynamicIndex >= len(p.Columns.Expected) {
		add(ErrColumnsInvalid, "columns.dynamic_index",
			fmt.Sprintf("index %d outside 0..%d", p.Columns.DynamicIndex, len(p.Columns.Expected)-1))
	}

	acc, err := decimal.NewFromString(p.PartialFormat.Accuracy)
	if err != nil || !acc.IsPositive() {
		add(ErrAccuracyInvalid, "partial_format.accuracy",
			fmt.Sprintf("%q is not a positive decimal", p.PartialFormat.Accuracy))
	}

	if p.MaxFilters < 2 {
		add(ErrMaxFiltersTooLow, "max_filters", fmt.Sprintf("%d is below 2", p.MaxFilters))
	}

	for _, b := range []struct {
		field  string
		bucket ir.Bucket
	}{
		{"buckets.review", p.Buckets.Review},
		{"buckets.wip", p.Buckets.WIP},
		{"buckets.manual", p.Buckets.Manual},
		{"buckets.misclassified", p.Buckets.Misclassified},
		{"buckets.manual_review", p.Buckets.ManualReview},
		{"buckets.default_sheet", p.Buckets.DefaultSheet},
	} {
		if b.bucket.Group == "" || b.bucket.Subgroup == "" {
			add(ErrBucketIncomplete, b.field, "group and subgroup are required")
		}
	}

	for i, k := range p.SheetClasses {
		if k.Keyword == "" {
			add(ErrKeywordEmpty, fmt.Sprintf("sheet_classes[%d]", i), "keyword is required")
		}
	}
	for i, k := range p.ViewClasses {
		if k.Keyword == "" {
			add(ErrKeywordEmpty, fmt.Sprintf("view_classes[%d]", i), "keyword is required")
		}
	}

	if p.Markers.Manual == "" {
		add(ErrMarkersIncomplete, "markers.manual", "manual marker is required")
	}

	return errs
}
