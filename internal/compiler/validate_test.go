package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

func TestValidateDefaultProfile(t *testing.T) {
	assert.Empty(t, ValidateProfile(ir.DefaultProfile()))
}

func TestValidateProfileErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.Profile)
		code   string
	}{
		{"prefix", func(p *ir.Profile) { p.CodePrefix = "" }, ErrCodePrefixEmpty},
		{"company", func(p *ir.Profile) { p.Company.FilterField = "" }, ErrCompanyIncomplete},
		{"code fields", func(p *ir.Profile) { p.CodeFields.MaterialName = "" }, ErrCodeFieldsEmpty},
		{"no columns", func(p *ir.Profile) { p.Columns.Expected = nil }, ErrColumnsInvalid},
		{"dynamic index", func(p *ir.Profile) { p.Columns.DynamicIndex = 9 }, ErrColumnsInvalid},
		{"accuracy zero", func(p *ir.Profile) { p.PartialFormat.Accuracy = "0" }, ErrAccuracyInvalid},
		{"accuracy text", func(p *ir.Profile) { p.PartialFormat.Accuracy = "x" }, ErrAccuracyInvalid},
		{"max filters", func(p *ir.Profile) { p.MaxFilters = 1 }, ErrMaxFiltersTooLow},
		{"bucket", func(p *ir.Profile) { p.Buckets.Manual.Subgroup = "" }, ErrBucketIncomplete},
		{"keyword", func(p *ir.Profile) { p.ViewClasses[0].Keyword = "" }, ErrKeywordEmpty},
		{"group params", func(p *ir.Profile) { p.GroupParams.Subpartition = "" }, ErrGroupParamsEmpty},
		{"markers", func(p *ir.Profile) { p.Markers.Manual = "" }, ErrMarkersIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ir.DefaultProfile()
			tt.mutate(&p)
			errs := ValidateProfile(p)
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.code, errs[0].Code)
				assert.Contains(t, errs[0].Error(), tt.code)
			}
		})
	}
}
