// Package metrics exports clustering run statistics in the Prometheus text
// format, for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TrevorS/dbscan"
)

// Run holds the gauges of a single clustering run. Each Run has its own
// registry, so runs never share state.
type Run struct {
	registry *prometheus.Registry

	Points   prometheus.Gauge
	Clusters prometheus.Gauge
	Noise    prometheus.Gauge
	Core     prometheus.Gauge
	Duration prometheus.Gauge
	Largest  prometheus.Gauge
}

// NewRun registers the run gauges. labels are attached to every series,
// e.g. {"metric": "euclidean"}.
func NewRun(labels prometheus.Labels) *Run {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	return &Run{
		registry: reg,
		Points:   gauge("dbscan_points", "Number of points clustered in the last run"),
		Clusters: gauge("dbscan_clusters", "Number of clusters found in the last run"),
		Noise:    gauge("dbscan_noise_points", "Number of points labeled noise in the last run"),
		Core:     gauge("dbscan_core_points", "Number of core points in the last run"),
		Duration: gauge("dbscan_run_duration_seconds", "Wall time of the last clustering run in seconds"),
		Largest:  gauge("dbscan_largest_cluster_points", "Size of the largest cluster in the last run"),
	}
}

// Observe records the outcome of a run that took d.
func (r *Run) Observe(res *dbscan.Result, d time.Duration) {
	largest := 0
	for _, size := range res.Sizes() {
		largest = max(largest, size)
	}

	r.Points.Set(float64(len(res.Labels)))
	r.Clusters.Set(float64(res.NumClusters))
	r.Noise.Set(float64(res.NoiseCount()))
	r.Core.Set(float64(res.CoreCount()))
	r.Duration.Set(d.Seconds())
	r.Largest.Set(float64(largest))
}

// Registry returns the registry holding the run gauges.
func (r *Run) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile atomically writes the gauges to path. The file name should
// end in .prom for the textfile collector to pick it up.
func (r *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
