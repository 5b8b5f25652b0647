// Package cli implements the dbscan command.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/dbscan/internal/logutil"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	version    string
	configPath string

	cfg      Config
	logger   *zap.Logger
	closeLog func()
	runID    string
}

// NewRootCommand builds the dbscan command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, closeLog: func() {}}

	root := &cobra.Command{
		Use:   "dbscan",
		Short: "Density-based clustering of point sets",
		Long: `
dbscan groups points that lie in dense regions into clusters and marks points
in sparse regions as noise. Points are read from whitespace or comma separated
text, or from a DuckDB query.
`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) { a.closeLog() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file; flags override its values")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Write logs to this file, rotated by size, instead of stderr")
	pf.String("log-format", "console", "Log format: console or json")

	root.AddCommand(
		newClusterCommand(a),
		newDescribeCommand(a),
		newKDistCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads the configuration, applies explicitly set flags and builds
// the logger for the command about to run.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, cmd.Flags()); err != nil {
		return err
	}
	a.cfg = cfg

	logger, closeLog, err := logutil.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run", a.runID))
	a.closeLog = closeLog
	return nil
}

// Execute runs the command line and exits non-zero on failure. SIGINT and
// SIGTERM cancel a running clustering.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
