package dbscan

// neighborhoodSource answers ε-neighborhood queries by point index.
type neighborhoodSource interface {
	// appendNeighbors appends to dst the indices of every point within
	// epsilon of point i, i itself included, in ascending order.
	appendNeighbors(dst []int, i int) []int
}

// pointNeighborhoods scans all points with a distance metric.
type pointNeighborhoods struct {
	points  [][]float64
	epsilon float64
	metric  DistanceMetric
}

func (s *pointNeighborhoods) appendNeighbors(dst []int, i int) []int {
	p := s.points[i]
	for j, q := range s.points {
		// A point always belongs to its own neighborhood, even under a
		// metric that does not return exactly 0 for identical input.
		if j == i || s.metric.Distance(p, q) <= s.epsilon {
			dst = append(dst, j)
		}
	}
	return dst
}

// matrixNeighborhoods scans one row of a flat row-major distance matrix.
type matrixNeighborhoods struct {
	dist    []float64
	n       int
	epsilon float64
}

func (s *matrixNeighborhoods) appendNeighbors(dst []int, i int) []int {
	row := s.dist[i*s.n : (i+1)*s.n]
	for j, d := range row {
		if j == i || d <= s.epsilon {
			dst = append(dst, j)
		}
	}
	return dst
}

// cachedNeighborhoods serves neighborhoods computed ahead of time.
type cachedNeighborhoods struct {
	neighbors [][]int
}

func (s *cachedNeighborhoods) appendNeighbors(dst []int, i int) []int {
	return append(dst, s.neighbors[i]...)
}

// newNeighborhoodSource wraps base according to the resolved strategy.
func newNeighborhoodSource(base neighborhoodSource, n int, strategy Strategy, workers int) neighborhoodSource {
	if strategy == StrategyPrecomputed {
		return &cachedNeighborhoods{neighbors: computeNeighborhoods(base, n, workers)}
	}
	return base
}
