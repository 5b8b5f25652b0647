package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/dbscan/dataset"
)

func newDescribeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Print per-column statistics of a point set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDataset(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), a.cfg.Output.Summary, d.Len(), d.Describe())
		},
	}
	inputFlags(cmd)
	cmd.Flags().String("summary", "text", "Output format: text, json or yaml")
	return cmd
}

func writeStats(w io.Writer, format string, n int, stats []dataset.ColumnStats) error {
	switch format {
	case "", "text":
		if _, err := fmt.Fprintf(w, "points: %d\n\n", n); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t\n",
				s.Name, s.Count, s.Mean, s.Std, s.Min, s.P25, s.Median, s.P75, s.Max)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(stats); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, want text, json or yaml", format)
	}
}
