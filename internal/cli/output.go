package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/TrevorS/dbscan"
	"github.com/TrevorS/dbscan/dataset"
)

// writeLabels writes one label per point. The "labels" format is one
// integer per line; "csv" repeats the point's coordinates followed by its
// label and core flag, under a header row.
func writeLabels(w io.Writer, format string, d *dataset.Dataset, res *dbscan.Result) error {
	switch format {
	case "", "labels":
		for _, l := range res.Labels {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
		return nil
	case "csv":
		cw := csv.NewWriter(w)
		header := append(append([]string(nil), d.Columns...), "label", "core")
		if err := cw.Write(header); err != nil {
			return err
		}
		record := make([]string, len(header))
		for i, p := range d.Points {
			for j, v := range p {
				record[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			record[len(p)] = strconv.Itoa(res.Labels[i])
			record[len(p)+1] = strconv.FormatBool(res.Core[i])
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown output format %q, want labels or csv", format)
	}
}

// writeOutputFile creates path and writes the labels into it.
func writeOutputFile(path, format string, d *dataset.Dataset, res *dbscan.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	return writeLabels(f, format, d, res)
}

// Summary describes a finished clustering run.
type Summary struct {
	RunID      string      `json:"run_id" yaml:"run_id"`
	Points     int         `json:"points" yaml:"points"`
	Dims       int         `json:"dims" yaml:"dims"`
	Epsilon    float64     `json:"eps" yaml:"eps"`
	MinPts     int         `json:"min_pts" yaml:"min_pts"`
	Metric     string      `json:"metric" yaml:"metric"`
	Seed       int64       `json:"seed" yaml:"seed"`
	Clusters   int         `json:"clusters" yaml:"clusters"`
	Noise      int         `json:"noise" yaml:"noise"`
	Core       int         `json:"core" yaml:"core"`
	Sizes      map[int]int `json:"sizes" yaml:"sizes"`
	Verified   bool        `json:"verified,omitempty" yaml:"verified,omitempty"`
	DurationMS float64     `json:"duration_ms" yaml:"duration_ms"`
}

func writeSummary(w io.Writer, format string, s Summary) error {
	switch format {
	case "none":
		return nil
	case "", "text":
		return writeTextSummary(w, s)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown summary format %q, want text, json, yaml or none", format)
	}
}

func writeTextSummary(w io.Writer, s Summary) error {
	ids := make([]int, 0, len(s.Sizes))
	for id := range s.Sizes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	if _, err := fmt.Fprintf(w, "points: %d (%d dims)\nclusters: %d\nnoise: %d\ncore: %d\n",
		s.Points, s.Dims, s.Clusters, s.Noise, s.Core); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "  cluster %d: %d points\n", id, s.Sizes[id]); err != nil {
			return err
		}
	}
	if s.Verified {
		if _, err := fmt.Fprintln(w, "verified: core partition matches connected components"); err != nil {
			return err
		}
	}
	return nil
}
