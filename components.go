package dbscan

// CoreComponents partitions the core points of points into maximal
// density-connected components without any random seed order: two core
// points share a component exactly when a chain of core points, each within
// Epsilon of the next, links them.
//
// The returned slice holds, for each point, its component ID (1..K, numbered
// by the lowest-index core point of each component) or Noise for points
// that are not core. On core points it describes the same partition as the
// Labels of any Cluster call with the same Epsilon, MinPts and Metric, which
// makes it a deterministic cross-check for Cluster. Config.Rand, Seed and
// Progress are ignored.
func CoreComponents(points [][]float64, cfg Config) ([]int, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	dims, err := validatePoints(points)
	if err != nil {
		return nil, err
	}
	if err := validateMetric(cfg.Metric, dims); err != nil {
		return nil, err
	}

	n := len(points)
	base := &pointNeighborhoods{points: points, epsilon: cfg.Epsilon, metric: cfg.Metric}
	neighbors := computeNeighborhoods(base, n, cfg.Workers)

	core := make([]bool, n)
	for i, nb := range neighbors {
		core[i] = len(nb) >= cfg.MinPts
	}

	uf := NewUnionFind(n)
	for i, nb := range neighbors {
		if !core[i] {
			continue
		}
		for _, j := range nb {
			if core[j] {
				uf.Union(i, j)
			}
		}
	}

	components := make([]int, n)
	ids := make(map[int]int)
	for i := range components {
		if !core[i] {
			components[i] = Noise
			continue
		}
		root := uf.Find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids) + 1
			ids[root] = id
		}
		components[i] = id
	}
	return components, nil
}
