package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bridgedTriangles = `# two triangles joined by 2-3
0 1
0 2
1 2
3 4
3 5
4 5
2 3
`

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.txt")
	require.NoError(t, os.WriteFile(path, []byte(bridgedTriangles), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze_WritesResults(t *testing.T) {
	input := writeInput(t)
	outDir := filepath.Join(t.TempDir(), "results")

	stdout, stderr, err := execute(t, "analyze", "--input", input, "--out", outDir, "--format", "yaml", "--workers", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Graph")
	assert.Contains(t, stdout, "louvain")
	assert.Contains(t, stdout, "infomap")
	assert.Contains(t, stderr, "analysis finished")

	reports, err := filepath.Glob(filepath.Join(outDir, "report-*.yaml"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	annotations, err := filepath.Glob(filepath.Join(outDir, "annotations-*.yaml"))
	require.NoError(t, err)
	assert.Len(t, annotations, 1)
}

func TestAnalyze_ConfigFile(t *testing.T) {
	input := writeInput(t)
	cfgPath := filepath.Join(t.TempDir(), "netstat.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("seed: 7\nlog_level: warn\n"), 0o600))

	stdout, stderr, err := execute(t, "analyze", "-i", input, "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "seed 7")
	assert.NotContains(t, stderr, "analysis finished")

	stdout, _, err = execute(t, "analyze", "-i", input, "-c", cfgPath, "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, stdout, "seed 9")
}

func TestCommunities_SingleAlgorithm(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	stdout, _, err := execute(t, "communities", "-i", input, "--algorithm", "louvain", "--format", "csv", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "louvain")
	assert.NotContains(t, stdout, "infomap")

	rows, err := filepath.Glob(filepath.Join(outDir, "annotations-*.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	data, err := os.ReadFile(rows[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "community_louvain")
}

func TestStats(t *testing.T) {
	stdout, _, err := execute(t, "stats", "-i", writeInput(t))
	require.NoError(t, err)
	assert.Contains(t, stdout, "avg path length")
	assert.Contains(t, stdout, "diameter")
	assert.NotContains(t, stdout, "modularity")
}

func TestCommandErrors(t *testing.T) {
	input := writeInput(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"stats"}, "--input is required"},
		{"bad format", []string{"analyze", "-i", input, "--format", "xml"}, "Export.Format"},
		{"bad algorithm", []string{"communities", "-i", input, "--algorithm", "walktrap"}, "Algorithms"},
		{"missing file", []string{"stats", "-i", filepath.Join(t.TempDir(), "none.txt")}, "none.txt"},
		{"bad log level", []string{"stats", "-i", input, "--log-level", "loud"}, "LogLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
