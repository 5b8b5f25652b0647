package dataset

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats summarizes one column of a Dataset.
type ColumnStats struct {
	Name   string  `json:"name" yaml:"name"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	P25    float64 `json:"p25" yaml:"p25"`
	Median float64 `json:"median" yaml:"median"`
	P75    float64 `json:"p75" yaml:"p75"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe returns summary statistics for every column. Std is the sample
// standard deviation (0 for a single point). Quartiles are empirical: the
// smallest value with at least that fraction of the column at or below it.
func (d *Dataset) Describe() []ColumnStats {
	out := make([]ColumnStats, d.Dims())
	for j := range out {
		col := d.Column(j)
		if len(col) == 0 {
			out[j] = ColumnStats{Name: d.Columns[j]}
			continue
		}
		sort.Float64s(col)

		mean, std := stat.MeanStdDev(col, nil)
		if len(col) < 2 {
			std = 0
		}
		out[j] = ColumnStats{
			Name:   d.Columns[j],
			Count:  len(col),
			Mean:   mean,
			Std:    std,
			Min:    floats.Min(col),
			P25:    stat.Quantile(0.25, stat.Empirical, col, nil),
			Median: stat.Quantile(0.5, stat.Empirical, col, nil),
			P75:    stat.Quantile(0.75, stat.Empirical, col, nil),
			Max:    floats.Max(col),
		}
	}
	return out
}
