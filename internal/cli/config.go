package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/dbscan"
	"github.com/TrevorS/dbscan/dataset"
	"github.com/TrevorS/dbscan/internal/logutil"
)

// Config is the layout of the --config YAML file. Command-line flags
// override the values it sets.
type Config struct {
	Input   InputConfig       `yaml:"input"`
	Cluster ClusterConfig     `yaml:"cluster"`
	Output  OutputConfig      `yaml:"output"`
	Log     logutil.LogConfig `yaml:"log"`
}

// InputConfig selects and parses the point source.
type InputConfig struct {
	// Delimiter separates fields: empty for whitespace, "tab", or a single
	// character such as ",".
	Delimiter string `yaml:"delimiter"`
	Header    bool   `yaml:"header"`
	Columns   []int  `yaml:"columns"`

	// DuckDB is the database file opened when Query is set. Empty means an
	// in-memory database, enough for read_csv_auto and friends.
	DuckDB string `yaml:"duckdb"`
	Query  string `yaml:"query"`

	Normalize dataset.Normalization `yaml:"normalize"`
}

// ClusterConfig holds the clustering parameters.
type ClusterConfig struct {
	Epsilon    float64 `yaml:"eps"`
	MinPts     int     `yaml:"min-pts"`
	Seed       int64   `yaml:"seed"`
	Metric     string  `yaml:"metric"`
	MinkowskiP float64 `yaml:"minkowski-p"`
	Workers    int     `yaml:"workers"`
	Strategy   string  `yaml:"strategy"`
	Verify     bool    `yaml:"verify"`
}

// OutputConfig controls where results go.
type OutputConfig struct {
	Path        string `yaml:"path"`         // labels destination, empty for stdout
	Format      string `yaml:"format"`       // labels or csv
	Summary     string `yaml:"summary"`      // text, json, yaml or none
	MetricsFile string `yaml:"metrics-file"` // Prometheus textfile, empty to skip
	Progress    bool   `yaml:"progress"`     // progress bar when stderr is a terminal
}

// DefaultConfig mirrors dbscan.DefaultConfig for the clustering section.
func DefaultConfig() Config {
	def := dbscan.DefaultConfig()
	return Config{
		Input: InputConfig{
			Normalize: dataset.NormNone,
		},
		Cluster: ClusterConfig{
			Epsilon:    def.Epsilon,
			MinPts:     def.MinPts,
			Metric:     "euclidean",
			MinkowskiP: 2,
			Workers:    def.Workers,
			Strategy:   string(def.Strategy),
		},
		Output: OutputConfig{
			Format:   "labels",
			Summary:  "text",
			Progress: true,
		},
		Log: logutil.DefaultLogConfig(),
	}
}

// LoadConfig reads path on top of the defaults. Environment variables in
// the file are expanded, and unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	decoder := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// flagOverrides maps flag names to the Config field they set.
var flagOverrides = map[string]func(cfg *Config, v string) error{
	"log-level":    func(cfg *Config, v string) error { cfg.Log.Level = v; return nil },
	"log-file":     func(cfg *Config, v string) error { cfg.Log.Filename = v; return nil },
	"log-format":   func(cfg *Config, v string) error { cfg.Log.Format = v; return nil },
	"delimiter":    func(cfg *Config, v string) error { cfg.Input.Delimiter = v; return nil },
	"header":       boolOverride(func(cfg *Config, b bool) { cfg.Input.Header = b }),
	"columns":      columnsOverride,
	"duckdb":       func(cfg *Config, v string) error { cfg.Input.DuckDB = v; return nil },
	"query":        func(cfg *Config, v string) error { cfg.Input.Query = v; return nil },
	"normalize":    func(cfg *Config, v string) error { cfg.Input.Normalize = dataset.Normalization(v); return nil },
	"eps":          floatOverride(func(cfg *Config, f float64) { cfg.Cluster.Epsilon = f }),
	"min-pts":      intOverride(func(cfg *Config, i int) { cfg.Cluster.MinPts = i }),
	"seed":         func(cfg *Config, v string) error { return parseInt64(v, &cfg.Cluster.Seed) },
	"metric":       func(cfg *Config, v string) error { cfg.Cluster.Metric = v; return nil },
	"minkowski-p":  floatOverride(func(cfg *Config, f float64) { cfg.Cluster.MinkowskiP = f }),
	"workers":      intOverride(func(cfg *Config, i int) { cfg.Cluster.Workers = i }),
	"strategy":     func(cfg *Config, v string) error { cfg.Cluster.Strategy = v; return nil },
	"verify":       boolOverride(func(cfg *Config, b bool) { cfg.Cluster.Verify = b }),
	"output":       func(cfg *Config, v string) error { cfg.Output.Path = v; return nil },
	"format":       func(cfg *Config, v string) error { cfg.Output.Format = v; return nil },
	"summary":      func(cfg *Config, v string) error { cfg.Output.Summary = v; return nil },
	"metrics-file": func(cfg *Config, v string) error { cfg.Output.MetricsFile = v; return nil },
	"progress":     boolOverride(func(cfg *Config, b bool) { cfg.Output.Progress = b }),
}

// applyFlags copies every flag the user set explicitly into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		set, ok := flagOverrides[f.Name]
		if !ok || err != nil {
			return
		}
		if e := set(cfg, f.Value.String()); e != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, e)
		}
	})
	return err
}

func boolOverride(set func(*Config, bool)) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		set(cfg, b)
		return nil
	}
}

func intOverride(set func(*Config, int)) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		set(cfg, i)
		return nil
	}
}

func floatOverride(set func(*Config, float64)) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		set(cfg, f)
		return nil
	}
}

func parseInt64(v string, dst *int64) error {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*dst = i
	return nil
}

// columnsOverride parses pflag's IntSlice rendering, e.g. "[0,2]".
func columnsOverride(cfg *Config, v string) error {
	v = strings.Trim(v, "[]")
	cfg.Input.Columns = nil
	if v == "" {
		return nil
	}
	for _, s := range strings.Split(v, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		cfg.Input.Columns = append(cfg.Input.Columns, i)
	}
	return nil
}

// loadOptions converts the input section into dataset.LoadOptions.
func (c InputConfig) loadOptions() (dataset.LoadOptions, error) {
	opts := dataset.LoadOptions{
		Header:  c.Header,
		Columns: c.Columns,
	}
	switch d := c.Delimiter; {
	case d == "":
	case d == "tab" || d == `\t`:
		opts.Delimiter = '\t'
	case len([]rune(d)) == 1:
		opts.Delimiter = []rune(d)[0]
	default:
		return opts, fmt.Errorf("delimiter must be a single character or \"tab\", got %q", d)
	}
	return opts, nil
}

// dbscanConfig converts the cluster section into a dbscan.Config.
func (c ClusterConfig) dbscanConfig() (dbscan.Config, error) {
	metric, err := dbscan.MetricByName(c.Metric, c.MinkowskiP)
	if err != nil {
		return dbscan.Config{}, err
	}
	cfg := dbscan.DefaultConfig()
	cfg.Epsilon = c.Epsilon
	cfg.MinPts = c.MinPts
	cfg.Seed = c.Seed
	cfg.Metric = metric
	cfg.Workers = c.Workers
	cfg.Strategy = dbscan.Strategy(c.Strategy)
	return cfg, nil
}
