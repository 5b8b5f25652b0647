package dbscan

import "sort"

// KDistances returns, for every point, the distance to its k-th nearest
// point counting the point itself, sorted in descending order. With
// k = MinPts, a point is core exactly when its k-distance is <= Epsilon, so
// plotting the result and picking the "elbow" is the usual way to choose
// Epsilon. k must be >= 1 and is clamped to len(points); a nil metric means
// Euclidean.
func KDistances(points [][]float64, k int, metric DistanceMetric) ([]float64, error) {
	dims, err := validatePoints(points)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if err := validateMetric(metric, dims); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, invalidArgument("k", "must be >= 1, got %d", k)
	}

	n := len(points)
	k = min(k, n)

	out := make([]float64, n)
	dists := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i {
				dists[j] = 0
				continue
			}
			dists[j] = metric.Distance(points[i], points[j])
		}
		sort.Float64s(dists)
		out[i] = dists[k-1]
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out, nil
}
