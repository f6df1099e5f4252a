package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/testutil"
)

func auditProject(t *testing.T) (*testutil.MemDocument, *Report) {
	t.Helper()
	doc := projectDoc()
	rep, err := testProcessor(t).Audit(context.Background(), doc)
	require.NoError(t, err)
	return doc, rep
}

func testWriter(t *testing.T, opts ...WriterOption) *Writer {
	return NewWriter(testRules().Profile, zaptest.NewLogger(t), opts...)
}

func TestWriter_AppliesInOneTransaction(t *testing.T) {
	doc, rep := auditProject(t)

	var ops []string
	doc.SetHook(func(op string, id ir.ElementID) error {
		ops = append(ops, op)
		return nil
	})
	res := testWriter(t).Apply(context.Background(), doc, rep.Records)

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.False(t, res.Fatal)
	assert.Equal(t, 1, doc.Commits())
	assert.Equal(t, "Begin", ops[0])
	assert.Equal(t, "Commit", ops[len(ops)-1])

	moved := viewByID(t, doc, 103)
	assert.Equal(t, "MAL CLASIFICADO", moved.Parameters.StringOr("Subgrupo de Vista", ""))
	assert.Equal(t, "C.02.01", moved.Parameters.StringOr("Subpartición", ""))

	fixed := viewByID(t, doc, 101)
	assert.True(t, fixed.Definition.Itemize)
	assert.Equal(t, "CODIGO", fixed.Definition.Fields[0].Heading)
	assert.Equal(t, host.FieldFormat{Accuracy: 0.01}, fixed.Definition.Fields[7].Format)
	assert.Equal(t, "RNG", fixed.Parameters.StringOr("COMPANY", ""))
	assert.Equal(t, `Assembly Code equal "C.01.03"; COMPANY equal "RNG"`, ir.DescribeFilters(fixed.Definition.Filters))
}

func TestWriter_PhaseOrder(t *testing.T) {
	doc, rep := auditProject(t)

	var ops []string
	doc.SetHook(func(op string, id ir.ElementID) error {
		if op != "View" {
			ops = append(ops, op)
		}
		return nil
	})
	testWriter(t).Apply(context.Background(), doc, rep.Records)

	assert.Equal(t, []string{
		"Begin",
		"Rename",
		"SetParameter", "SetParameter",
		"SetParameter", "SetParameter", "SetParameter",
		"SetFilters",
		"SetItemize",
		"SetFieldHeading",
		"SetFieldFormat",
		"SetParameter",
		"Commit",
	}, ops)
}

func TestWriter_KindSubset(t *testing.T) {
	doc, rep := auditProject(t)

	res := testWriter(t, WithKinds(ir.KindContent, ir.KindCompanyParam)).Apply(context.Background(), doc, rep.Records)
	require.True(t, res.Success)
	assert.Equal(t, ir.CorrectionCounts{Content: 1, CompanyParams: 1}, res.Counts)

	v := viewByID(t, doc, 101)
	assert.Equal(t, "C.01.03 muros bajos", v.Name)
	assert.True(t, v.Definition.Itemize)
}

func TestWriter_PerItemErrorsStillCommit(t *testing.T) {
	doc, rep := auditProject(t)
	boom := errors.New("itemize locked")
	doc.SetHook(func(op string, id ir.ElementID) error {
		if op == "SetItemize" {
			return boom
		}
		return nil
	})

	res := testWriter(t).Apply(context.Background(), doc, rep.Records)
	assert.False(t, res.Success)
	assert.False(t, res.Fatal)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "CONTENT")
	assert.Contains(t, res.Errors[0], "itemize locked")
	assert.Equal(t, 7, res.Counts.Total())
	assert.Equal(t, 1, doc.Commits())
	assert.Equal(t, "C.01.03 - muros bajos - RNG", viewByID(t, doc, 101).Name)
}

func TestWriter_ReadOnlyCompanyParameter(t *testing.T) {
	doc := testutil.MustLoadModel(`
title: PRY-EST-01
views:
  - id: 1
    name: C.01.02 - Muros - RNG
    category: Walls
    typed:
      - {name: COMPANY, type: text, value: OTRO, read_only: true}
`)
	records := []ir.ElementRecord{{
		ID: 1, Name: "C.01.02 - Muros - RNG",
		Items: []ir.AuditItem{ir.Fix(ir.SetCompany{Value: "RNG"}, "OTRO", "RNG", "")},
	}}

	res := testWriter(t).Apply(context.Background(), doc, records)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], host.ErrReadOnly.Error())
}

func TestWriter_FatalRollsBack(t *testing.T) {
	tests := []struct {
		name string
		hook testutil.Hook
	}{
		{"begin fails", func(op string, _ ir.ElementID) error {
			if op == "Begin" {
				return errors.New("document is read-only")
			}
			return nil
		}},
		{"transaction closed", func(op string, _ ir.ElementID) error {
			if op == "SetFilters" {
				return host.ErrTxClosed
			}
			return nil
		}},
		{"panic", func(op string, _ ir.ElementID) error {
			if op == "SetFieldFormat" {
				panic("host crashed")
			}
			return nil
		}},
		{"commit fails", func(op string, _ ir.ElementID) error {
			if op == "Commit" {
				return errors.New("disk full")
			}
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, rep := auditProject(t)
			before := viewByID(t, doc, 101)
			doc.SetHook(tt.hook)

			res := testWriter(t).Apply(context.Background(), doc, rep.Records)
			assert.True(t, res.Fatal)
			assert.False(t, res.Success)
			assert.Len(t, res.Errors, 1)
			assert.Zero(t, res.Counts.Total())
			assert.Zero(t, doc.Commits())
			assert.Equal(t, before, viewByID(t, doc, 101))

			doc.SetHook(nil)
			again := testWriter(t).Apply(context.Background(), doc, rep.Records)
			assert.True(t, again.Success, "document usable after rollback: %v", again.Errors)
		})
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	doc, rep := auditProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	doc.SetHook(func(op string, _ ir.ElementID) error {
		if op == "Rename" {
			cancel()
		}
		return nil
	})

	res := testWriter(t).Apply(ctx, doc, rep.Records)
	assert.True(t, res.Fatal)
	assert.Contains(t, res.Errors[0], context.Canceled.Error())
	assert.Zero(t, doc.Commits())
}
