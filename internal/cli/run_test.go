package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qecworks/steanelab/internal/testutil"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

func TestRunSweep_Survival(t *testing.T) {
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Seed:        7,
		Workers:     2,
		Tokens:      testutil.FixedToken{},
	}
	cmd, out, _ := newTestCommand()

	err := runSweep(opts, "testdata/survival", cmd)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Run run-fixed on sampler: 3 ok, 0 failed")
	assert.Contains(t, out.String(), "✓ survival-k1")
	assert.Contains(t, out.String(), "p0=1.0000")
}

func TestRunSweep_JSON(t *testing.T) {
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		Seed:        7,
		Workers:     2,
		Tokens:      testutil.FixedToken{},
	}
	cmd, out, _ := newTestCommand()

	err := runSweep(opts, "testdata/survival", cmd)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-fixed", resp.RunToken)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report SweepReport
	require.NoError(t, json.Unmarshal(payload, &report))

	assert.Equal(t, "run-fixed", report.RunToken)
	assert.Equal(t, "sampler", report.Backend)
	assert.Zero(t, report.Failed)
	require.Len(t, report.Results, 3)
	for _, r := range report.Results {
		assert.Equal(t, 64, r.Shots)
		assert.Equal(t, 64, r.Accepted)
		assert.Equal(t, 1.0, r.P0)
		assert.Len(t, r.Hash, 64)
		assert.Empty(t, r.Error)
	}
}

func TestRunSweep_SeedStable(t *testing.T) {
	render := func() string {
		opts := &RunOptions{
			RootOptions: &RootOptions{Format: "json"},
			Seed:        42,
			Workers:     2,
			Tokens:      testutil.FixedToken{},
		}
		cmd, out, _ := newTestCommand()
		require.NoError(t, runSweep(opts, "testdata/survival", cmd))
		return out.String()
	}

	assert.Equal(t, render(), render())
}

func TestRunSweep_MissingDir(t *testing.T) {
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Tokens:      testutil.FixedToken{},
	}
	cmd, _, _ := newTestCommand()

	err := runSweep(opts, "testdata/nope", cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_ViaRoot(t *testing.T) {
	out, _, err := executeCommand(t, "run", "--seed", "3", "--workers", "2", "testdata/qpe")
	require.NoError(t, err)
	assert.Contains(t, out, "2 ok, 0 failed")
	assert.Contains(t, out, "qpe-k1")
}
