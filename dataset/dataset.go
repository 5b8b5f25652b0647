// Package dataset loads, reshapes and summarizes numeric point sets for
// clustering.
//
// A Dataset holds one row per point and one named column per dimension. It
// can be read from delimited text (Load, LoadFile), from any database/sql
// query (LoadSQL), or from a gonum matrix (FromDense).
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrMalformed is matched by every error caused by unusable input data.
var ErrMalformed = errors.New("dataset: malformed input")

// Dataset is a rectangular set of points.
type Dataset struct {
	// Columns names each dimension. len(Columns) == Dims().
	Columns []string

	// Points holds one row per point.
	Points [][]float64
}

// Len returns the number of points.
func (d *Dataset) Len() int { return len(d.Points) }

// Dims returns the number of dimensions.
func (d *Dataset) Dims() int { return len(d.Columns) }

// Column returns a copy of column j.
func (d *Dataset) Column(j int) []float64 {
	col := make([]float64, len(d.Points))
	for i, p := range d.Points {
		col[i] = p[j]
	}
	return col
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Points:  make([][]float64, len(d.Points)),
	}
	for i, p := range d.Points {
		out.Points[i] = append([]float64(nil), p...)
	}
	return out
}

// Dense returns the points as a Len()×Dims() matrix. The matrix does not
// share storage with d.
func (d *Dataset) Dense() *mat.Dense {
	data := make([]float64, 0, d.Len()*d.Dims())
	for _, p := range d.Points {
		data = append(data, p...)
	}
	return mat.NewDense(d.Len(), d.Dims(), data)
}

// FromDense builds a Dataset from the rows of m. columns names the
// dimensions; missing names default to c1, c2, ...
func FromDense(m mat.Matrix, columns ...string) (*Dataset, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrMalformed)
	}
	if len(columns) > c {
		return nil, fmt.Errorf("%w: %d column names for %d columns", ErrMalformed, len(columns), c)
	}
	d := &Dataset{
		Columns: defaultColumns(c),
		Points:  make([][]float64, r),
	}
	copy(d.Columns, columns)
	for i := range d.Points {
		row := make([]float64, c)
		mat.Row(row, i, m)
		d.Points[i] = row
	}
	return d, nil
}

func defaultColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("c%d", i+1)
	}
	return cols
}
