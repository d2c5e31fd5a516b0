package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deckIDFromOutput(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "deck_id: "); ok {
			return rest
		}
	}
	t.Fatalf("no deck_id line in output:\n%s", out)
	return ""
}

func TestCompileValidDeck(t *testing.T) {
	out, _, err := runCommand(t, "compile", "testdata/fixtures.md")
	require.NoError(t, err)

	assert.Contains(t, out, `✓ Compiled "Fixtures": 2 slide(s), 1 exhibit(s), 1 note(s)`)
	assert.Len(t, deckIDFromOutput(t, out), 64)
}

func TestCompileDeterministic(t *testing.T) {
	out1, _, err := runCommand(t, "compile", "testdata/fixtures.md")
	require.NoError(t, err)
	out2, _, err := runCommand(t, "compile", "testdata/fixtures.md")
	require.NoError(t, err)

	assert.Equal(t, deckIDFromOutput(t, out1), deckIDFromOutput(t, out2))
}

func TestCompileJSON(t *testing.T) {
	out, _, err := runCommand(t, "compile", "testdata/fixtures.md", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["deck_id"])
}

func TestCompileOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")

	out, _, err := runCommand(t, "compile", "testdata/fixtures.md", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote canonical JSON to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "canonical output must be valid JSON")
	assert.Contains(t, string(data), `"title":"Fixtures"`)
}

func TestCompileMissingFile(t *testing.T) {
	out, _, err := runCommand(t, "compile", "testdata/nope.md")
	require.Error(t, err)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
}

func TestCompileBrokenDeck(t *testing.T) {
	out, _, err := runCommand(t, "compile", "testdata/broken.md")
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, "E143")
	assert.Contains(t, out, "testdata/broken.md:3")
}

func TestCompileBrokenDeckJSON(t *testing.T) {
	out, _, err := runCommand(t, "compile", "testdata/broken.md", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E143", resp.Error.Code)
}

func TestCompileVerboseLogsToStderr(t *testing.T) {
	out, stderr, err := runCommand(t, "compile", "testdata/fixtures.md", "--format", "json", "-v")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Parsed 2 slide(s)")
	assert.True(t, json.Valid([]byte(out)), "verbose logs must not corrupt JSON output")
}
