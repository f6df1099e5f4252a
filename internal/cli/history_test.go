package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory imports the project and records one audit and one fix.
func seedHistory(t *testing.T, opts *RootOptions) {
	t.Helper()
	seedProject(t, opts)
	_, err := runFixCmd(t, newFixOptions(opts))
	require.NoError(t, err)
}

func TestHistoryListsRunsNewestFirst(t *testing.T) {
	opts := newTestOptions(t, "json")
	seedHistory(t, opts)

	out, err := execute(NewHistoryCommand(opts))
	require.NoError(t, err)

	var entries []RunEntry
	resp := decodeResponse(t, out, &entries)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-2", entries[0].RunID)
	assert.Equal(t, "run-1", entries[1].RunID)
	assert.Equal(t, 1, entries[1].ToFix)
}

func TestHistoryLimitAndDocument(t *testing.T) {
	opts := newTestOptions(t, "json")
	seedHistory(t, opts)

	out, err := execute(NewHistoryCommand(opts), "--limit", "1")
	require.NoError(t, err)
	var entries []RunEntry
	decodeResponse(t, out, &entries)
	assert.Len(t, entries, 1)

	out, err = execute(NewHistoryCommand(opts), "--document", "PRY-ARQ-01")
	require.NoError(t, err)
	entries = nil
	decodeResponse(t, out, &entries)
	assert.Empty(t, entries)
}

func TestHistoryTextEmpty(t *testing.T) {
	opts := newTestOptions(t, "text")
	seedProject(t, opts)

	out, err := execute(NewHistoryCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "No audit runs recorded.")
}

func TestHistoryShow(t *testing.T) {
	opts := newTestOptions(t, "json")
	seedHistory(t, opts)

	out, err := execute(NewHistoryCommand(opts), "show", "run-1")
	require.NoError(t, err)

	var detail RunDetail
	decodeResponse(t, out, &detail)
	assert.Equal(t, "run-1", detail.RunID)
	assert.Equal(t, "PRY-EST-01", detail.Document)
	require.Len(t, detail.Fixes, 1)
	assert.True(t, detail.Fixes[0].Success)
	assert.Equal(t, 1, detail.Fixes[0].Applied)

	var report struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(detail.Report, &report))
	assert.Equal(t, "run-1", report.RunID)
}

func TestHistoryShowText(t *testing.T) {
	opts := newTestOptions(t, "text")
	seedHistory(t, opts)

	out, err := execute(NewHistoryCommand(opts), "show", "run-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Run:      run-2")
	assert.Contains(t, out, "No write passes.")
}

func TestHistoryShowUnknownRun(t *testing.T) {
	opts := newTestOptions(t, "json")
	seedProject(t, opts)

	out, err := execute(NewHistoryCommand(opts), "show", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestRawJSON(t *testing.T) {
	assert.Nil(t, rawJSON(nil))
	assert.Nil(t, rawJSON([]byte("{not json")))
	assert.Equal(t, json.RawMessage(`{"a":1}`), rawJSON([]byte(`{"a":1}`)))
}
