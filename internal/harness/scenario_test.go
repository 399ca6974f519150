package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadsql/internal/codec"
)

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "named_graphs.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "named_graphs", scenario.Name)
	assert.Equal(t, []codec.Prefix{
		{Label: "ex", Stem: "http://example.org/"},
		{Label: "foaf", Stem: "http://xmlns.com/foaf/0.1/"},
	}, scenario.Prefixes)
	require.Len(t, scenario.Steps, 7)

	ops := make([]string, len(scenario.Steps))
	for i, step := range scenario.Steps {
		ops[i] = step.Op()
	}
	assert.Equal(t, []string{
		OpInsert, OpExpectContexts, OpExpectQuery, OpDelete,
		OpExpectCount, OpExpectContexts, OpExpectObjects,
	}, ops)
	assert.Equal(t, map[string]string{"context": "nil"}, scenario.Steps[2].ExpectQuery.Pattern)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "steps: [{expect_count: 0}]", "name is required"},
		{"no steps", "name: x", "at least one step"},
		{"unknown field", "name: x\nstep: []", "field step not found"},
		{"empty step", "name: x\nsteps: [{}]", "steps[0]: step has no operation"},
		{"two operations", "name: x\nsteps: [{expect_count: 0, insert: []}]", "several operations"},
		{"negative count", "name: x\nsteps: [{expect_count: -1}]", "non-negative"},
		{"bad statement", "name: x\nsteps: [{insert: ['<a> <b>']}]", "statement 0"},
		{"bad column", "name: x\nsteps: [{expect_query: {pattern: {graph: '<a>'}, statements: []}}]", "unknown column"},
		{"bad term", "name: x\nsteps: [{expect_subjects: ['not a term']}]", "steps[0]"},
		{"bad prefix", "name: x\nprefixes: [{label: 'a:b', stem: 'http://x/'}]\nsteps: [{expect_count: 0}]", "invalid prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
