package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckValidInput(t *testing.T) {
	input := writeTempFile(t, "ok.txt", "##IFDEF foo\nx\n##ENDIF\n")

	out := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{input})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "✓")
	assert.Contains(t, out.String(), "3 line(s)")
	assert.Contains(t, out.String(), "2 directive(s)")
}

func TestCheckInvalidInput(t *testing.T) {
	input := writeTempFile(t, "bad.txt", "##ENDIF\n")

	out := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{input})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "✗")
	assert.Contains(t, out.String(), "line 1")
}

func TestCheckJSONResponse(t *testing.T) {
	good := writeTempFile(t, "good.txt", "plain\n")
	bad := writeTempFile(t, "bad.txt", "##FROBNICATE\n")

	out := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "json"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{good, bad})

	err := cmd.Execute()
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_DIRECTIVE", resp.Error.Code)

	results, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, results, 2)
}

func TestCheckStdin(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetIn(strings.NewReader("text\n"))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "stdin")
}

func TestCheckInputsAreIsolated(t *testing.T) {
	// Each input is checked against its own copy of the initial
	// definitions, so the first file's DEFINE must not make the second
	// file's UNDEF succeed.
	first := writeTempFile(t, "first.txt", "##DEFINE x\n")
	second := writeTempFile(t, "second.txt", "##UNDEF x\n")

	out := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{first, second})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "✓ "+first)
	assert.Contains(t, out.String(), "✗ "+second)
}

func TestCheckWithPredefines(t *testing.T) {
	input := writeTempFile(t, "in.txt", "##UNDEF x\n")

	out := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{input, "-D", "x"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "✓")
}
