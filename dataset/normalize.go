package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NormalizeMaxX returns a copy of d with every coordinate divided by the
// maximum of the first column, so that the largest x becomes 1 and the
// aspect ratio of the point cloud is preserved.
func (d *Dataset) NormalizeMaxX() (*Dataset, error) {
	if d.Len() == 0 || d.Dims() == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrMalformed)
	}
	maxX := floats.Max(d.Column(0))
	if maxX == 0 {
		return nil, fmt.Errorf("%w: maximum of column %q is 0", ErrMalformed, d.Columns[0])
	}
	out := d.Clone()
	for _, p := range out.Points {
		floats.Scale(1/maxX, p)
	}
	return out, nil
}

// NormalizeMinMax returns a copy of d with each column rescaled to [0, 1].
// Constant columns become 0.
func (d *Dataset) NormalizeMinMax() *Dataset {
	out := d.Clone()
	for j := 0; j < d.Dims(); j++ {
		col := d.Column(j)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		for _, p := range out.Points {
			if span == 0 {
				p[j] = 0
				continue
			}
			p[j] = (p[j] - lo) / span
		}
	}
	return out
}

// NormalizeZScore returns a copy of d with each column centered on its mean
// and scaled by its sample standard deviation. Constant columns become 0.
func (d *Dataset) NormalizeZScore() *Dataset {
	out := d.Clone()
	for j := 0; j < d.Dims(); j++ {
		mean, std := stat.MeanStdDev(d.Column(j), nil)
		for _, p := range out.Points {
			if std == 0 || d.Len() < 2 {
				p[j] = 0
				continue
			}
			p[j] = (p[j] - mean) / std
		}
	}
	return out
}

// Normalization names a normalization method for configuration files and
// command-line flags.
type Normalization string

const (
	NormNone   Normalization = "none"
	NormMaxX   Normalization = "max-x"
	NormMinMax Normalization = "min-max"
	NormZScore Normalization = "zscore"
)

// Normalize applies the named method. An empty name means none.
func (d *Dataset) Normalize(method Normalization) (*Dataset, error) {
	switch method {
	case "", NormNone:
		return d, nil
	case NormMaxX:
		return d.NormalizeMaxX()
	case NormMinMax:
		return d.NormalizeMinMax(), nil
	case NormZScore:
		return d.NormalizeZScore(), nil
	default:
		return nil, fmt.Errorf("unknown normalization %q, want one of none, max-x, min-max, zscore", method)
	}
}
