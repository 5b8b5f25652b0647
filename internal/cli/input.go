package cli

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/dbscan/dataset"
)

// inputFlags registers the flags shared by every command that reads points.
func inputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("delimiter", "", `Field delimiter: empty for whitespace, "tab", or one character such as ","`)
	f.Bool("header", false, "Treat the first row as column names")
	f.IntSlice("columns", nil, "Zero-based columns to use as dimensions (default all)")
	f.String("duckdb", "", "DuckDB database file for --query (default in-memory)")
	f.String("query", "", "SQL query whose numeric columns are the points, e.g. SELECT x, y FROM read_csv_auto('a.csv')")
	f.String("normalize", string(dataset.NormNone), "Normalization: none, max-x, min-max or zscore")
}

// loadDataset reads points from --query, the file named in args, or stdin
// when args is empty or "-", then applies the configured normalization.
func (a *app) loadDataset(ctx context.Context, cmd *cobra.Command, args []string) (*dataset.Dataset, error) {
	in := a.cfg.Input

	var (
		d   *dataset.Dataset
		err error
	)
	switch {
	case in.Query != "":
		if len(args) > 0 {
			return nil, fmt.Errorf("a file argument cannot be combined with --query")
		}
		d, err = loadQuery(ctx, in.DuckDB, in.Query)
	default:
		opts, optErr := in.loadOptions()
		if optErr != nil {
			return nil, optErr
		}
		if len(args) == 0 || args[0] == "-" {
			d, err = dataset.Load(cmd.InOrStdin(), opts)
			if err != nil {
				err = fmt.Errorf("stdin: %w", err)
			}
		} else {
			d, err = dataset.LoadFile(args[0], opts)
		}
	}
	if err != nil {
		return nil, err
	}

	a.logger.Debug("dataset loaded",
		zap.Int("points", d.Len()),
		zap.Strings("columns", d.Columns),
	)

	return d.Normalize(in.Normalize)
}

func loadQuery(ctx context.Context, dbPath, query string) (*dataset.Dataset, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return dataset.LoadSQL(ctx, db, query)
}
