package cli

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/dbscan"
)

func newKDistCommand(a *app) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "kdist [file]",
		Short: "Print sorted k-distances to help choose --eps",
		Long: `
kdist prints, for every point, the distance to its k-th nearest point counting
the point itself, largest first. With k equal to --min-pts, a point is core
exactly when its k-distance is at most eps, so the "elbow" of this curve is a
good starting value for eps.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDataset(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			metric, err := dbscan.MetricByName(a.cfg.Cluster.Metric, a.cfg.Cluster.MinkowskiP)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = a.cfg.Cluster.MinPts
			}

			dists, err := dbscan.KDistances(d.Points, k, metric)
			if err != nil {
				return err
			}
			a.logger.Debug("k-distances computed", zap.Int("k", k), zap.Int("points", len(dists)))

			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, dist := range dists {
				w.WriteString(strconv.FormatFloat(dist, 'g', -1, 64))
				w.WriteByte('\n')
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("writing k-distances: %w", err)
			}
			return nil
		},
	}

	def := DefaultConfig()
	inputFlags(cmd)
	cmd.Flags().IntVar(&k, "k", def.Cluster.MinPts, "Neighbor rank, self included (default --min-pts)")
	cmd.Flags().String("metric", def.Cluster.Metric, "Distance metric")
	cmd.Flags().Float64("minkowski-p", def.Cluster.MinkowskiP, "Order of the minkowski metric")
	cmd.Flags().Int("min-pts", def.Cluster.MinPts, "Default for --k")
	return cmd
}
