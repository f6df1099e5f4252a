package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/compiler"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

func writeProfile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	data := []byte("package profile\n\n" + src + "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.cue"), data, 0o644))
	return dir
}

func TestProfileValidateBuiltIn(t *testing.T) {
	opts := newTestOptions(t, "text")

	out, err := execute(NewProfileCommand(opts), "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Built-in profile is valid")
}

func TestProfileValidateDir(t *testing.T) {
	opts := newTestOptions(t, "json")
	dir := writeProfile(t, `profile: company: value: "ACME"`)

	out, err := execute(NewProfileCommand(opts), "validate", dir)
	require.NoError(t, err)

	var res ProfileValidation
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, res.Valid)
	assert.Equal(t, dir, res.Dir)
}

func TestProfileValidateErrors(t *testing.T) {
	opts := newTestOptions(t, "json")
	dir := writeProfile(t, `profile: code_prefix: ""`)

	out, err := execute(NewProfileCommand(opts), "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var res ProfileValidation
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}

func TestProfileValidateMissingProfileField(t *testing.T) {
	opts := newTestOptions(t, "text")
	dir := writeProfile(t, `other: 1`)

	out, err := execute(NewProfileCommand(opts), "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Profile has 1 error(s)")
	assert.Contains(t, out, "profile is required")
}

func TestProfileShow(t *testing.T) {
	opts := newTestOptions(t, "json")
	dir := writeProfile(t, `profile: company: value: "ACME"`)

	out, err := execute(NewProfileCommand(opts), "show", dir)
	require.NoError(t, err)

	var p ir.Profile
	decodeResponse(t, out, &p)
	assert.Equal(t, "ACME", p.Company.Value)
	assert.Equal(t, ir.DefaultProfile().CodePrefix, p.CodePrefix)
}

func TestProfileErrors(t *testing.T) {
	ve := compiler.ValidationError{Field: "code_prefix", Message: "code prefix is required", Code: compiler.ErrCodePrefixEmpty}
	assert.Equal(t, []compiler.ValidationError{ve}, profileErrors(ve))

	errs := profileErrors(&compiler.CompileError{Field: "cue", Message: "bad"})
	require.Len(t, errs, 1)
	assert.Equal(t, "cue", errs[0].Field)
	assert.Equal(t, ErrCodeProfile, errs[0].Code)

	errs = profileErrors(os.ErrNotExist)
	require.Len(t, errs, 1)
	assert.Equal(t, "profile", errs[0].Field)
}
