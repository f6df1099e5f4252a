package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

const txModel = `
title: TX
views:
  - id: 1
    name: C.01.02 - Muros - RNG
    category: Walls
    parameters: {COMPANY: RNG}
    typed:
      - {name: Creado por, type: text, value: admin, read_only: true}
      - {name: Nivel, type: integer, value: "3"}
    fields:
      - {id: 1, name: Assembly Code, heading: CODIGO}
      - {id: 2, name: Area, heading: AREA}
  - id: 2
    name: C.01.03 - Tabiques - RNG
    category: Walls
`

func txDoc(t *testing.T) (*Store, host.Document) {
	t.Helper()
	ctx := context.Background()
	s := createTestStore(t)
	_, err := s.Import(ctx, buildModel(t, txModel))
	require.NoError(t, err)
	doc, err := s.Document(ctx, "TX")
	require.NoError(t, err)
	return s, doc
}

func view(t *testing.T, doc host.Document, id ir.ElementID) host.ScheduleView {
	t.Helper()
	views, err := doc.Schedules(context.Background(), host.ViewQuery{})
	require.NoError(t, err)
	for _, v := range views {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("view #%d not found", id)
	return host.ScheduleView{}
}

func TestTransaction_CommitPersists(t *testing.T) {
	ctx := context.Background()
	_, doc := txDoc(t)

	tx, err := doc.Begin(ctx, "Corregir tablas")
	require.NoError(t, err)
	assert.Equal(t, "Corregir tablas", tx.Name())

	require.NoError(t, tx.Rename(1, "C.01.02 - Muros de corte - RNG"))
	require.NoError(t, tx.SetParameter(1, "COMPANY", "OTRO"))
	require.NoError(t, tx.SetItemize(1, true))
	require.NoError(t, tx.SetIncludeLinks(1, true))
	require.NoError(t, tx.SetFieldHeading(1, 2, "PARCIAL"))
	require.NoError(t, tx.SetFieldHidden(1, 1, true))
	require.NoError(t, tx.SetFieldFormat(1, 2, host.FieldFormat{Accuracy: 0.01}))
	require.NoError(t, tx.SetFilters(1, []ir.FilterClause{
		{Field: "Assembly Code", Operator: ir.OpEqual, Value: ir.StringValue("C.01.02")},
	}))

	inside, err := tx.View(1)
	require.NoError(t, err)
	assert.Equal(t, "C.01.02 - Muros de corte - RNG", inside.Name)

	require.NoError(t, tx.Commit())

	v := view(t, doc, 1)
	assert.Equal(t, "C.01.02 - Muros de corte - RNG", v.Name)
	assert.Equal(t, "OTRO", v.Parameters.StringOr("COMPANY", ""))
	assert.True(t, v.Definition.Itemize)
	assert.True(t, v.Definition.IncludeLinks)
	assert.True(t, v.Definition.Fields[0].Hidden)
	assert.Equal(t, "PARCIAL", v.Definition.Fields[1].Heading)
	assert.Equal(t, host.FieldFormat{Accuracy: 0.01}, v.Definition.Fields[1].Format)
	assert.Equal(t, `Assembly Code equal "C.01.02"`, ir.DescribeFilters(v.Definition.Filters))
}

func TestTransaction_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	_, doc := txDoc(t)

	tx, err := doc.Begin(ctx, "Corregir tablas")
	require.NoError(t, err)
	require.NoError(t, tx.Rename(1, "otro nombre"))
	require.NoError(t, tx.Rollback())

	assert.Equal(t, "C.01.02 - Muros - RNG", view(t, doc, 1).Name)
}

func TestTransaction_ClosedAfterCommit(t *testing.T) {
	ctx := context.Background()
	_, doc := txDoc(t)

	tx, err := doc.Begin(ctx, "t")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.ErrorIs(t, tx.Rename(1, "x"), host.ErrTxClosed)
	_, err = tx.View(1)
	assert.ErrorIs(t, err, host.ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(), host.ErrTxClosed)
	assert.ErrorIs(t, tx.Rollback(), host.ErrTxClosed)

	again, err := doc.Begin(ctx, "t2")
	require.NoError(t, err)
	require.NoError(t, again.Rollback())
}

func TestTransaction_OneOpenAtATime(t *testing.T) {
	ctx := context.Background()
	_, doc := txDoc(t)

	tx, err := doc.Begin(ctx, "first")
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = doc.Begin(ctx, "second")
	assert.ErrorIs(t, err, host.ErrTxClosed)
}

func TestTransaction_Errors(t *testing.T) {
	ctx := context.Background()
	_, doc := txDoc(t)

	tx, err := doc.Begin(ctx, "t")
	require.NoError(t, err)
	defer tx.Rollback()

	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{"rename collides", func() error { return tx.Rename(1, "C.01.03 - Tabiques - RNG") }, host.ErrNameInUse},
		{"rename unknown view", func() error { return tx.Rename(99, "x") }, host.ErrNotFound},
		{"read-only parameter", func() error { return tx.SetParameter(1, "Creado por", "yo") }, host.ErrReadOnly},
		{"integer parameter", func() error { return tx.SetParameter(1, "Nivel", "4") }, host.ErrWrongType},
		{"missing parameter", func() error { return tx.SetParameter(2, "COMPANY", "RNG") }, host.ErrNotFound},
		{"unknown field", func() error { return tx.SetFieldHeading(1, 42, "X") }, host.ErrNotFound},
		{"filter on absent field", func() error {
			return tx.SetFilters(1, []ir.FilterClause{{Field: "COMPANY", Operator: ir.OpEqual, Value: ir.StringValue("RNG")}})
		}, host.ErrFieldNotInSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), tt.want)
		})
	}

	// Renaming a view to its own name is not a collision.
	assert.NoError(t, tx.Rename(1, "C.01.02 - Muros - RNG"))
}
