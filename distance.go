package dbscan

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceMetric computes the distance between two points of equal
// dimension. Implementations must be symmetric, non-negative, return 0 for
// identical points, and be safe for concurrent use.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1; Cluster rejects smaller values.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, m.P)
}

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// Two zero vectors are at distance 0; a zero vector and a non-zero vector
// are at distance 1.
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	switch {
	case normA == 0 && normB == 0:
		return 0
	case normA == 0 || normB == 0:
		return 1
	}
	// Rounding can push the similarity of parallel vectors just above 1.
	return math.Max(0, 1-floats.Dot(a, b)/(normA*normB))
}

// EarthRadius is the mean Earth radius in meters, the default
// HaversineMetric radius.
const EarthRadius = 6371e3

// HaversineMetric computes the great-circle distance between two
// [latitude, longitude] points given in degrees. Radius scales the result;
// 0 means EarthRadius, so distances are in meters.
type HaversineMetric struct {
	Radius float64
}

func (m HaversineMetric) Distance(a, b []float64) float64 {
	r := m.Radius
	if r == 0 {
		r = EarthRadius
	}
	lat1 := a[0] * math.Pi / 180
	lat2 := b[0] * math.Pi / 180
	dLat := (b[0] - a[0]) * math.Pi / 180
	dLng := (b[1] - a[1]) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * r * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// MetricNames lists the names accepted by MetricByName.
var MetricNames = []string{"euclidean", "manhattan", "chebyshev", "minkowski", "cosine", "haversine"}

// MetricByName returns the built-in metric called name. p is the Minkowski
// order and is ignored by every other metric.
func MetricByName(name string, p float64) (DistanceMetric, error) {
	switch name {
	case "euclidean", "":
		return EuclideanMetric{}, nil
	case "manhattan":
		return ManhattanMetric{}, nil
	case "chebyshev":
		return ChebyshevMetric{}, nil
	case "minkowski":
		m := MinkowskiMetric{P: p}
		if err := validateMetric(m, 1); err != nil {
			return nil, err
		}
		return m, nil
	case "cosine":
		return CosineMetric{}, nil
	case "haversine":
		return HaversineMetric{}, nil
	default:
		return nil, invalidArgument("Metric", "unknown metric %q", name)
	}
}

// validateMetric rejects metric parameters that cannot produce a valid
// distance for points of the given dimensionality.
func validateMetric(m DistanceMetric, dims int) error {
	switch v := m.(type) {
	case MinkowskiMetric:
		if !(v.P >= 1) {
			return invalidArgument("Metric", "MinkowskiMetric.P must be >= 1, got %v", v.P)
		}
	case HaversineMetric:
		if dims != 2 {
			return invalidArgument("Metric", "HaversineMetric needs [lat, lng] points, got dimension %d", dims)
		}
		if v.Radius < 0 || math.IsNaN(v.Radius) || math.IsInf(v.Radius, 0) {
			return invalidArgument("Metric", "HaversineMetric.Radius must be finite and >= 0, got %v", v.Radius)
		}
	}
	return nil
}

// ComputePairwiseDistances computes the full n*n distance matrix for points,
// in the flat row-major layout accepted by ClusterPrecomputed.
func ComputePairwiseDistances(points [][]float64, metric DistanceMetric) []float64 {
	n := len(points)
	result := make([]float64, n*n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(points[i], points[j])
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}

	return result
}
