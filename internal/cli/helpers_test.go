package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/config"
)

const projectModel = "testdata/project.yaml"

// testResponse mirrors CLIResponse with the payload left raw.
type testResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// newTestOptions returns root options backed by a fresh database path and
// an xlsx rule workbook holding C.01.02 as an automatic code and one
// WIP keyword.
func newTestOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "model.db")
	cfg.Rules.Source = config.SourceXLSX
	cfg.Rules.Workbook = writeRules(t, dir)

	return &RootOptions{
		Format: format,
		Config: cfg,
		Logger: zaptest.NewLogger(t),
	}
}

func writeRules(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "MATRIZ"))
	rows := [][]any{
		{"Código", "Origen del metrado", "Auditoría", "Descripción 1"},
		{"C.01.02", "AUTOMATICO", "✓", "Muros"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("MATRIZ", cell, &r))
	}
	_, err := f.NewSheet("PALABRAS")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("PALABRAS", "A1", &[]any{"Lista", "Palabra"}))
	require.NoError(t, f.SetSheetRow("PALABRAS", "A2", &[]any{"WIP", "BORRADOR"}))

	path := filepath.Join(dir, "rules.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// execute runs cmd with args and returns stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedProject imports the project model into the options' database.
func seedProject(t *testing.T, opts *RootOptions) {
	t.Helper()
	_, err := execute(NewSeedCommand(opts), projectModel)
	require.NoError(t, err)
}

func decodeResponse(t *testing.T, out string, data any) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
