package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: knows
prefixes:
  - label: ex
    stem: http://example.org/
steps:
  - insert:
      - '<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .'
  - expect_count: 1
  - expect_subjects:
      - '<http://example.org/Alice>'
`

const failingScenario = `name: wrong_count
steps:
  - insert:
      - '<http://example.org/Alice> <http://example.org/knows> <http://example.org/Bob> .'
  - expect_count: 2
`

func writeScenario(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, _, err := execute(t, "", "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 0 passed, 0 failed, 0 total")
}

func TestTestCommandPassingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "knows.yaml", passingScenario)

	out, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ knows")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "knows.yaml", passingScenario)
	writeScenario(t, dir, "wrong.yml", failingScenario)

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "expected 2, got 1")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "knows.yaml", passingScenario)
	writeScenario(t, dir, "wrong.yml", failingScenario)

	out, _, err := execute(t, "", "test", dir, "--filter", "kn*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommandUpdateGolden(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "knows.yaml", passingScenario)

	out, _, err := execute(t, "", "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")

	goldenPath := filepath.Join(dir, "golden", "knows.golden")
	require.FileExists(t, goldenPath)
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name": "knows"`)

	// The regenerated golden file matches the next run.
	out, _, err = execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ knows")

	// A stale golden file fails the scenario.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, _, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nsteps:\n  - bogus: 1\n")

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "knows.yaml", passingScenario)

	out, _, err := execute(t, "", "test", dir, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "knows", resp.Data.Scenarios[0].Name)
}
