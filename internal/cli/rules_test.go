package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/config"
)

func TestRulesSummaryFromWorkbook(t *testing.T) {
	opts := newTestOptions(t, "json")

	out, err := execute(NewRulesCommand(opts))
	require.NoError(t, err)

	var res RulesResult
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, config.SourceXLSX, res.Source)
	assert.Equal(t, 1, res.Summary.MatrixCodes)
	assert.Equal(t, 1, res.Summary.Automatic)
	assert.Equal(t, 0, res.Summary.Manual)
	assert.Contains(t, res.Summary.WIPTokens, "BORRADOR")
}

func TestRulesNoSource(t *testing.T) {
	opts := newTestOptions(t, "text")
	opts.Config.Rules.Source = config.SourceNone

	out, err := execute(NewRulesCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "Source:       none")
	assert.Contains(t, out, "Matrix codes: 0")
}

func TestRulesMissingWorkbook(t *testing.T) {
	opts := newTestOptions(t, "json")
	opts.Config.Rules.Workbook = filepath.Join(t.TempDir(), "missing.xlsx")

	out, err := execute(NewRulesCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRules, resp.Error.Code)
}

func TestOpenRuleReaderUnknownSource(t *testing.T) {
	_, closeFn, err := openRuleReader(context.Background(), config.RulesConfig{Source: "ftp"})
	require.Error(t, err)
	require.NotNil(t, closeFn)
	assert.NoError(t, closeFn())
}
