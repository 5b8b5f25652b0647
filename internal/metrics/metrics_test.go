package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/dbscan"
)

func sampleResult() *dbscan.Result {
	return &dbscan.Result{
		Labels:      []int{1, 1, 1, 2, 2, dbscan.Noise},
		Core:        []bool{true, true, false, true, true, false},
		NumClusters: 2,
	}
}

func TestRun_Observe(t *testing.T) {
	run := NewRun(nil)
	run.Observe(sampleResult(), 1500*time.Millisecond)

	assert.Equal(t, 6.0, testutil.ToFloat64(run.Points))
	assert.Equal(t, 2.0, testutil.ToFloat64(run.Clusters))
	assert.Equal(t, 1.0, testutil.ToFloat64(run.Noise))
	assert.Equal(t, 4.0, testutil.ToFloat64(run.Core))
	assert.Equal(t, 1.5, testutil.ToFloat64(run.Duration))
	assert.Equal(t, 3.0, testutil.ToFloat64(run.Largest))
}

func TestRun_SeparateRegistries(t *testing.T) {
	a := NewRun(nil)
	b := NewRun(nil)
	a.Observe(sampleResult(), time.Second)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Clusters))
	n, err := testutil.GatherAndCount(b.Registry())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestRun_WriteTextfile(t *testing.T) {
	run := NewRun(prometheus.Labels{"metric": "euclidean"})
	run.Observe(sampleResult(), 250*time.Millisecond)

	path := filepath.Join(t.TempDir(), "dbscan.prom")
	require.NoError(t, run.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `dbscan_clusters{metric="euclidean"} 2`)
	assert.Contains(t, text, `dbscan_run_duration_seconds{metric="euclidean"} 0.25`)
	assert.Contains(t, text, "# TYPE dbscan_points gauge")

	expected := `
# HELP dbscan_noise_points Number of points labeled noise in the last run
# TYPE dbscan_noise_points gauge
dbscan_noise_points{metric="euclidean"} 1
`
	require.NoError(t, testutil.GatherAndCompare(run.Registry(), strings.NewReader(expected), "dbscan_noise_points"))
}

func TestRun_WriteTextfileError(t *testing.T) {
	run := NewRun(nil)
	err := run.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dbscan.prom"))
	assert.Error(t, err)
}
