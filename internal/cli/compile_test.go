package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCompileCommand_Text(t *testing.T) {
	out, _, err := executeCommand(t, "compile", "testdata/survival")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 3 circuit(s)")
	assert.Contains(t, out, "survival-k1")
	assert.Contains(t, out, "survival-k4")
	assert.Contains(t, out, "hash:")
}

func TestCompileCommand_Dump(t *testing.T) {
	out, _, err := executeCommand(t, "compile", "--dump", "testdata/survival")
	require.NoError(t, err)

	assert.Contains(t, out, "circuit survival-k1")
	assert.Contains(t, out, "qubits 16")
	assert.Contains(t, out, "measure q0 -> c")
}

func TestCompileCommand_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "--format", "json", "compile", "testdata/survival")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var compiled []CompiledCircuit
	require.NoError(t, json.Unmarshal(payload, &compiled))

	require.Len(t, compiled, 3)
	for _, cc := range compiled {
		assert.Equal(t, 16, cc.Qubits)
		assert.Len(t, cc.Hash, 64)
		assert.NotEmpty(t, cc.Key)
		assert.Empty(t, cc.Canonical)
	}
}

func TestCompileCommand_Deterministic(t *testing.T) {
	first, _, err := executeCommand(t, "--format", "json", "compile", "testdata/survival")
	require.NoError(t, err)
	second, _, err := executeCommand(t, "--format", "json", "compile", "testdata/survival")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompileCommand_MissingDir(t *testing.T) {
	_, _, err := executeCommand(t, "compile", "testdata/nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileCommand_BadConfig(t *testing.T) {
	out, _, err := executeCommand(t, "compile", "testdata/badsetup")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "setup")
}

func TestCompileCommand_VerboseToStderr(t *testing.T) {
	out, errOut, err := executeCommand(t, "--format", "json", "--verbose", "compile", "testdata/survival")
	require.NoError(t, err)

	// Verbose diagnostics must not corrupt the JSON stream.
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Contains(t, errOut, "Loaded 3 configuration(s)")
}
