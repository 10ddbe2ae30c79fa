package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	out, _, err := executeCommand(t, "validate", "testdata/survival")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 3 configuration(s) valid")
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	out, _, err := executeCommand(t, "--format", "json", "validate", "testdata/qpe")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateCommand_BadConfig(t *testing.T) {
	out, _, err := executeCommand(t, "validate", "testdata/badsetup")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "setup")
}

func TestValidateCommand_MissingDir(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "testdata/nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOutputValidationErrors_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := outputValidationErrors(formatter, 2, []string{"bad-k1: rotation out of range"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ Validation failed")
	assert.Contains(t, buf.String(), "bad-k1")
}

func TestOutputValidationErrors_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := outputValidationErrors(formatter, 2, []string{"bad-k1: rotation out of range"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCompileFailed, resp.Error.Code)
}
