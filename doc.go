// Package dbscan implements Density-Based Spatial Clustering of Applications
// with Noise (DBSCAN).
//
// DBSCAN groups points that are closely packed together: a point whose
// ε-neighborhood (itself included) holds at least MinPts points is a core
// point, and every point reachable through a chain of core points lands in
// the same cluster. Points not reachable from any core point are noise.
//
// Basic usage:
//
//	cfg := dbscan.DefaultConfig()
//	cfg.Epsilon = 0.05
//	cfg.MinPts = 10
//	result, err := dbscan.Cluster(data, cfg)
//	// result.Labels[i] is the cluster ID for point i (1..K, -1 = noise)
//	// result.Core[i] reports whether point i is a core point
//
// Seeds are drawn at random from the points not yet labeled. The partition
// into clusters does not depend on the draw order, but the numeric ID each
// cluster receives does. Set Config.Seed (or Config.Rand) for reproducible
// IDs, or pass the labels through [Canonicalize].
//
// For precomputed distance matrices:
//
//	result, err := dbscan.ClusterPrecomputed(distMatrix, n, cfg)
//
// # Neighborhood strategy
//
// By default (Strategy: "auto"), each ε-neighborhood is computed when the
// expansion first needs it, so memory stays proportional to the cluster
// frontier. With Config.Workers > 1 the auto strategy instead computes every
// neighborhood up front on a pool of goroutines. Both strategies produce
// identical labels for the same seed.
package dbscan
