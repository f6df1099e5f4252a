package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tablas", cmd.Use)
	assert.Contains(t, cmd.Long, "schedule views")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"audit"}, {"fix"}, {"seed"}, {"rules"}, {"test"},
		{"profile", "validate"}, {"profile", "show"},
		{"history"}, {"history", "show"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestFixCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	fixCmd, _, err := cmd.Find([]string{"fix"})
	require.NoError(t, err)

	for _, name := range []string{"document", "kinds", "dry-run"} {
		assert.NotNil(t, fixCmd.Flags().Lookup(name), name)
	}
}

func TestAuditCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	auditCmd, _, err := cmd.Find([]string{"audit"})
	require.NoError(t, err)

	strict := auditCmd.Flags().Lookup("strict")
	require.NotNil(t, strict)
	assert.Equal(t, "false", strict.DefValue)
	assert.NotNil(t, auditCmd.Flags().Lookup("no-record"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
	assert.NotNil(t, testCmd.Flags().Lookup("golden"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "rules"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestResolveAppliesDatabaseOverride(t *testing.T) {
	opts := &RootOptions{
		Config:   config.Default(),
		Logger:   zaptest.NewLogger(t),
		Database: filepath.Join(t.TempDir(), "other.db"),
	}
	require.NoError(t, opts.resolve())
	assert.Equal(t, opts.Database, opts.Config.Store.Path)
}

func TestResolveLoadsConfigFile(t *testing.T) {
	opts := &RootOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	assert.Error(t, opts.resolve())

	opts = &RootOptions{Verbose: true, Config: config.Default()}
	require.NoError(t, opts.resolve())
	assert.NotNil(t, opts.Logger)
}

func TestRootSeedAndAudit(t *testing.T) {
	opts := newTestOptions(t, "text")
	db := opts.Config.Store.Path

	cmd := NewRootCommand()
	out, err := execute(cmd, "--db", db, "seed", projectModel)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported PRY-EST-01")

	cmd = NewRootCommand()
	out, err = execute(cmd, "--db", db, "audit", "--no-record")
	require.NoError(t, err)
	assert.Contains(t, out, "Document: PRY-EST-01")
}
