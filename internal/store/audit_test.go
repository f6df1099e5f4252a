package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/store"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/testutil"
)

func openProject(t *testing.T) host.Document {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "tablas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	m, err := host.ParseModel([]byte(testutil.ProjectModel))
	require.NoError(t, err)
	snap, err := m.Build()
	require.NoError(t, err)
	_, err = s.Import(ctx, snap)
	require.NoError(t, err)

	doc, err := s.Document(ctx, snap.Title)
	require.NoError(t, err)
	return doc
}

func TestStoreDocument_AuditMatchesMemory(t *testing.T) {
	ctx := context.Background()
	rs := testutil.ProjectRules()
	logger := zaptest.NewLogger(t)

	fromStore, err := engine.NewProcessor(rs, logger, engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator())).
		Audit(ctx, openProject(t))
	require.NoError(t, err)
	fromMemory, err := engine.NewProcessor(rs, logger, engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator())).
		Audit(ctx, testutil.MustLoadModel(testutil.ProjectModel))
	require.NoError(t, err)

	assert.Equal(t, fromMemory.Summary, fromStore.Summary)
	assert.Equal(t, fromMemory.ObservedCodes, fromStore.ObservedCodes)
	assert.Equal(t, fromMemory.Hash, fromStore.Hash)
}

func TestStoreDocument_FixThenReaudit(t *testing.T) {
	ctx := context.Background()
	rs := testutil.ProjectRules()
	logger := zaptest.NewLogger(t)
	doc := openProject(t)

	rep, err := engine.NewProcessor(rs, logger).Audit(ctx, doc)
	require.NoError(t, err)
	require.NotZero(t, rep.Correctable())

	res := engine.NewWriter(rs.Profile, logger).Apply(ctx, doc, rep.Records)
	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, rep.Correctable(), res.Counts.Total())

	again, err := engine.NewProcessor(rs, logger).Audit(ctx, doc)
	require.NoError(t, err)
	assert.Zero(t, again.Correctable())

	views, err := doc.Schedules(ctx, host.ViewQuery{})
	require.NoError(t, err)
	var names []string
	for _, v := range views {
		if v.ID == 101 {
			names = append(names, v.Name)
		}
	}
	assert.Equal(t, []string{"C.01.03 - muros bajos - RNG"}, names)
}

func TestStoreDocument_ReadOnlyCompanyIsReported(t *testing.T) {
	ctx := context.Background()
	rs := testutil.ProjectRules()
	logger := zaptest.NewLogger(t)

	s, err := store.Open(filepath.Join(t.TempDir(), "tablas.db"))
	require.NoError(t, err)
	defer s.Close()

	m, err := host.ParseModel([]byte(`
title: PRY-EST-01
views:
  - id: 1
    name: C.01.02 - Muros - RNG
    category: Walls
    parameters: {Grupo de Vista: C.01 ESTRUCTURAS, Subgrupo de Vista: MUROS, Subpartición: ""}
    typed:
      - {name: COMPANY, type: text, value: OTRO, read_only: true}
    fields:
      - {id: 1, name: Assembly Code}
      - {id: 2, name: COMPANY}
`))
	require.NoError(t, err)
	snap, err := m.Build()
	require.NoError(t, err)
	_, err = s.Import(ctx, snap)
	require.NoError(t, err)
	doc, err := s.Document(ctx, "PRY-EST-01")
	require.NoError(t, err)

	rep, err := engine.NewProcessor(rs, logger).Audit(ctx, doc)
	require.NoError(t, err)

	res := engine.NewWriter(rs.Profile, logger, engine.WithKinds(ir.KindCompanyParam)).Apply(ctx, doc, rep.Records)
	assert.False(t, res.Success)
	assert.False(t, res.Fatal)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "read-only")
	assert.Zero(t, res.Counts.CompanyParams)
}
