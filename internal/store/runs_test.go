package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuns_RecordAndList(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for i, id := range []string{"run-a", "run-b"} {
		seq, err := s.RecordAudit(ctx, AuditRun{
			RunID:      id,
			Document:   "PRY-EST-01",
			ReportHash: "h" + id,
			Views:      6,
			ToFix:      8 - i*8,
			Report:     []byte(`{"run_id":"` + id + `"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), seq)
	}
	_, err := s.RecordAudit(ctx, AuditRun{RunID: "run-c", Document: "OTRO", Report: []byte("{}")})
	require.NoError(t, err)

	runs, err := s.AuditRuns(ctx, "PRY-EST-01", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].RunID)
	assert.Equal(t, 0, runs[0].ToFix)
	assert.Equal(t, "run-a", runs[1].RunID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), runs[1].CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), runs[0].CreatedAt)

	all, err := s.AuditRuns(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "run-c", all[0].RunID)

	got, err := s.AuditRun(ctx, "run-a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"run-a"}`, string(got.Report))
	assert.Equal(t, "hrun-a", got.ReportHash)
}

func TestRuns_AuditRunNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.AuditRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRuns_DuplicateRunID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.RecordAudit(ctx, AuditRun{RunID: "r", Document: "D", Report: []byte("{}")})
	require.NoError(t, err)
	_, err = s.RecordAudit(ctx, AuditRun{RunID: "r", Document: "D", Report: []byte("{}")})
	assert.Error(t, err)
}

func TestRuns_FixRuns(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.RecordAudit(ctx, AuditRun{RunID: "r1", Document: "D", Report: []byte("{}")})
	require.NoError(t, err)

	_, err = s.RecordFix(ctx, FixRun{RunID: "r1", Success: false, Applied: 3, Result: []byte(`{"success":false}`)})
	require.NoError(t, err)
	_, err = s.RecordFix(ctx, FixRun{RunID: "r1", Success: true, Applied: 1, Result: []byte(`{"success":true}`)})
	require.NoError(t, err)

	_, err = s.RecordFix(ctx, FixRun{RunID: "unknown", Result: []byte("{}")})
	assert.Error(t, err, "fix runs reference an audit run")

	fixes, err := s.FixRuns(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, fixes, 2)
	assert.False(t, fixes[0].Success)
	assert.Equal(t, 3, fixes[0].Applied)
	assert.True(t, fixes[1].Success)
	assert.False(t, fixes[1].Fatal)
}
