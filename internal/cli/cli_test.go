package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/dbscan"
)

const blobAndOutlier = "0 0\n0 0.1\n0.1 0\n5 5\n"

// execute runs the command line with stdin and returns what it wrote.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--log-level=error"))
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dbscan test\n", out)
}

func TestCluster_Stdin(t *testing.T) {
	out, errOut, err := execute(t, blobAndOutlier, "cluster", "--eps", "0.5", "--min-pts", "3")
	require.NoError(t, err)

	assert.Equal(t, "1\n1\n1\n-1\n", out)
	assert.Contains(t, errOut, "points: 4 (2 dims)\nclusters: 1\nnoise: 1\ncore: 3\n  cluster 1: 3 points\n")
}

func TestCluster_CSVToFileWithJSONSummary(t *testing.T) {
	in := writeFile(t, "points.csv", "x,y\n0,0\n0,0.1\n0.1,0\n5,5\n")
	outPath := filepath.Join(t.TempDir(), "labels.csv")

	out, _, err := execute(t, "", "cluster", in,
		"--delimiter", ",", "--header",
		"--eps", "0.5", "--min-pts", "3",
		"--output", outPath, "--format", "csv", "--summary", "json")
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 1, s.Clusters)
	assert.Equal(t, 1, s.Noise)
	assert.Equal(t, map[int]int{1: 3}, s.Sizes)
	assert.NotEmpty(t, s.RunID)

	labels, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "x,y,label,core\n0,0,1,true\n0,0.1,1,true\n0.1,0,1,true\n5,5,-1,false\n", string(labels))
}

func TestCluster_ConfigFileAndFlagOverride(t *testing.T) {
	cfgPath := writeFile(t, "dbscan.yaml", `
cluster:
  eps: 0.5
  min-pts: 3
output:
  summary: yaml
`)

	_, errOut, err := execute(t, blobAndOutlier, "cluster", "--config", cfgPath)
	require.NoError(t, err)
	var s Summary
	require.NoError(t, yaml.Unmarshal([]byte(errOut), &s))
	assert.Equal(t, 1, s.Clusters)
	assert.Equal(t, 0.5, s.Epsilon)

	// The flag wins over the file.
	out, _, err := execute(t, blobAndOutlier, "cluster", "--config", cfgPath, "--min-pts", "5")
	require.NoError(t, err)
	assert.Equal(t, "-1\n-1\n-1\n-1\n", out)
}

func TestCluster_ConfigUnknownKey(t *testing.T) {
	cfgPath := writeFile(t, "dbscan.yaml", "cluster:\n  epsilon: 0.5\n")

	_, _, err := execute(t, blobAndOutlier, "cluster", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epsilon")
}

func TestCluster_VerifyAndMetricsFile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "dbscan.prom")

	_, errOut, err := execute(t, blobAndOutlier, "cluster",
		"--eps", "0.5", "--min-pts", "3", "--verify", "--metrics-file", metricsPath,
		"--workers", "2", "--strategy", "precomputed")
	require.NoError(t, err)
	assert.Contains(t, errOut, "verified")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dbscan_clusters{metric="euclidean"} 1`)
	assert.Contains(t, string(data), `dbscan_noise_points{metric="euclidean"} 1`)
}

func TestCluster_DuckDBQuery(t *testing.T) {
	query := `SELECT CAST(x AS DOUBLE) AS x, CAST(y AS DOUBLE) AS y
		FROM (VALUES (0, 0), (0, 0.1), (0.1, 0), (5, 5)) AS t(x, y)`

	out, _, err := execute(t, "", "cluster", "--query", query, "--eps", "0.5", "--min-pts", "3", "--summary", "none")
	require.NoError(t, err)
	assert.Equal(t, "1\n1\n1\n-1\n", out)
}

func TestCluster_NormalizeMaxX(t *testing.T) {
	// Divided by max(x) = 10 the first three points fall within 0.05.
	in := "0 0\n0.2 0\n0.4 0\n10 10\n"
	out, _, err := execute(t, in, "cluster", "--normalize", "max-x", "--eps", "0.05", "--min-pts", "3", "--summary", "none")
	require.NoError(t, err)
	assert.Equal(t, "1\n1\n1\n-1\n", out)
}

func TestCluster_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
		isArg   bool
	}{
		{"invalid eps", blobAndOutlier, []string{"--eps", "0"}, "Epsilon", true},
		{"unknown metric", blobAndOutlier, []string{"--metric", "hamming"}, "hamming", true},
		{"unknown strategy", blobAndOutlier, []string{"--strategy", "fast"}, "fast", true},
		{"malformed input", "1 2\n3\n", nil, "line 2", false},
		{"bad format", blobAndOutlier, []string{"--format", "xml"}, "xml", false},
		{"bad delimiter", blobAndOutlier, []string{"--delimiter", ";;"}, "delimiter", false},
		{"file with query", "", []string{"points.txt", "--query", "SELECT 1"}, "--query", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.stdin, append([]string{"cluster"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.isArg {
				assert.True(t, errors.Is(err, dbscan.ErrInvalidArgument), "error %v should match ErrInvalidArgument", err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	out, _, err := execute(t, "1 10\n2 20\n3 30\n4 40\n5 50\n", "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "points: 5")
	assert.Contains(t, out, "column")
	assert.Contains(t, out, "c2")

	out, _, err = execute(t, "1 10\n2 20\n3 30\n4 40\n5 50\n", "describe", "--summary", "json")
	require.NoError(t, err)
	var stats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "c1", stats[0]["name"])
	assert.Equal(t, 3.0, stats[0]["median"])
	assert.Equal(t, 50.0, stats[1]["max"])
}

func TestKDist(t *testing.T) {
	out, _, err := execute(t, "0\n1\n3\n7\n", "kdist", "--k", "2")
	require.NoError(t, err)
	assert.Equal(t, "4\n2\n1\n1\n", out)

	// Without --k the rank follows --min-pts.
	out, _, err = execute(t, "0\n1\n3\n7\n", "kdist", "--min-pts", "3")
	require.NoError(t, err)
	assert.Equal(t, "6\n3\n3\n2\n", out)
}
