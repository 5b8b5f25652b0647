package cli

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/dbscan"
	"github.com/TrevorS/dbscan/internal/metrics"
)

func newClusterCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster [file]",
		Short: "Cluster points and write one label per point",
		Long: `
Cluster reads points, one per row, and writes their labels in input order:
cluster IDs start at 1 and -1 marks noise. With no file, or "-", points are
read from stdin. The summary goes to stderr, or to stdout when --output names
a file.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCluster(cmd, args)
		},
	}

	def := DefaultConfig()
	inputFlags(cmd)
	f := cmd.Flags()
	f.Float64("eps", def.Cluster.Epsilon, "Neighborhood radius")
	f.Int("min-pts", def.Cluster.MinPts, "Points, self included, a neighborhood needs for its center to be core")
	f.Int64("seed", def.Cluster.Seed, "Seed for the random seed-point order")
	f.String("metric", def.Cluster.Metric, "Distance metric: euclidean, manhattan, chebyshev, minkowski, cosine or haversine")
	f.Float64("minkowski-p", def.Cluster.MinkowskiP, "Order of the minkowski metric")
	f.Int("workers", def.Cluster.Workers, "Goroutines used to precompute neighborhoods")
	f.String("strategy", def.Cluster.Strategy, "Neighborhood strategy: auto, on_demand or precomputed")
	f.Bool("verify", false, "Cross-check core labels against an order-free connected components pass")
	f.StringP("output", "o", "", "Write labels to this file instead of stdout")
	f.String("format", def.Output.Format, "Label format: labels or csv")
	f.String("summary", def.Output.Summary, "Summary format: text, json, yaml or none")
	f.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	f.Bool("progress", def.Output.Progress, "Show a progress bar when stderr is a terminal")
	return cmd
}

func (a *app) runCluster(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := a.cfg

	d, err := a.loadDataset(ctx, cmd, args)
	if err != nil {
		return err
	}

	dcfg, err := cfg.Cluster.dbscanConfig()
	if err != nil {
		return err
	}
	dcfg.Logger = a.logger
	progress, finish := newProgress(cfg.Output.Progress, d.Len())
	dcfg.Progress = progress

	start := time.Now()
	res, err := dbscan.ClusterContext(ctx, d.Points, dcfg)
	finish()
	if err != nil {
		return fmt.Errorf("clustering: %w", err)
	}
	elapsed := time.Since(start)

	verified := false
	if cfg.Cluster.Verify {
		if err := verifyCore(d.Points, dcfg, res); err != nil {
			return err
		}
		verified = true
		a.logger.Info("core partition verified")
	}

	out := cmd.OutOrStdout()
	summaryOut := cmd.ErrOrStderr()
	if cfg.Output.Path != "" {
		if err := writeOutputFile(cfg.Output.Path, cfg.Output.Format, d, res); err != nil {
			return err
		}
		summaryOut = out
	} else if err := writeLabels(out, cfg.Output.Format, d, res); err != nil {
		return fmt.Errorf("writing labels: %w", err)
	}

	if cfg.Output.MetricsFile != "" {
		run := metrics.NewRun(prometheus.Labels{"metric": cfg.Cluster.Metric})
		run.Observe(res, elapsed)
		if err := run.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return err
		}
		a.logger.Debug("metrics written", zap.String("path", cfg.Output.MetricsFile))
	}

	return writeSummary(summaryOut, cfg.Output.Summary, Summary{
		RunID:      a.runID,
		Points:     d.Len(),
		Dims:       d.Dims(),
		Epsilon:    dcfg.Epsilon,
		MinPts:     dcfg.MinPts,
		Metric:     cfg.Cluster.Metric,
		Seed:       dcfg.Seed,
		Clusters:   res.NumClusters,
		Noise:      res.NoiseCount(),
		Core:       res.CoreCount(),
		Sizes:      res.Sizes(),
		Verified:   verified,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	})
}

// verifyCore checks that the labels of core points describe the same
// partition as the connected components of the core graph.
func verifyCore(points [][]float64, cfg dbscan.Config, res *dbscan.Result) error {
	components, err := dbscan.CoreComponents(points, cfg)
	if err != nil {
		return fmt.Errorf("verifying: %w", err)
	}
	coreLabels := make([]int, len(res.Labels))
	for i, l := range res.Labels {
		coreLabels[i] = dbscan.Noise
		if res.Core[i] {
			coreLabels[i] = l
		}
	}
	if !dbscan.SamePartition(components, coreLabels) {
		return fmt.Errorf("verifying: core labels do not match the connected components of core points")
	}
	return nil
}
