package dbscan

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// RandomSource picks seed points. *math/rand.Rand satisfies it.
type RandomSource interface {
	// Intn returns a uniformly distributed integer in [0, n). n is always > 0.
	Intn(n int) int
}

// Config controls DBSCAN clustering behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Epsilon is the neighborhood radius. Two points are neighbors when their
	// distance is <= Epsilon. Must be finite and > 0. Default: 0.5.
	Epsilon float64

	// MinPts is the number of points, the point itself included, that an
	// ε-neighborhood must hold for its center to be a core point.
	// Must be >= 1. Default: 5.
	MinPts int

	// Metric is the distance function used to measure point similarity.
	// Built-in: EuclideanMetric, ManhattanMetric, ChebyshevMetric,
	// MinkowskiMetric, CosineMetric, HaversineMetric. Use DistanceFunc to
	// wrap a custom function. Default: EuclideanMetric.
	Metric DistanceMetric

	// Rand picks the next unlabeled seed point. When nil, a source seeded
	// with Seed is created for every call, so repeated calls with the same
	// Config return identical labels.
	Rand RandomSource

	// Seed seeds the default random source. Ignored when Rand is set.
	// Default: 0.
	Seed int64

	// Strategy selects how neighborhoods are computed. "auto" queries on
	// demand with one worker and precomputes with several. Default: "auto".
	Strategy Strategy

	// Workers controls the number of goroutines used to precompute
	// neighborhoods. Must be >= 0; 0 means 1. Default: 1.
	Workers int

	// Logger receives debug entries for each discovered cluster and a
	// summary per run. Default: a no-op logger.
	Logger *zap.Logger

	// Progress, when set, is called after every seed with the number of
	// points holding a final label and the total number of points.
	Progress func(labeled, total int)
}

// Result contains the output of DBSCAN clustering.
type Result struct {
	// Labels assigns each point to a cluster (IDs 1..NumClusters) or to
	// Noise (-1).
	Labels []int

	// Core reports whether each point is a core point, i.e. its
	// ε-neighborhood holds at least MinPts points.
	Core []bool

	// NumClusters is the number of clusters discovered.
	NumClusters int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon:  0.5,
		MinPts:   5,
		Metric:   EuclideanMetric{},
		Strategy: StrategyAuto,
		Workers:  1,
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if !(cfg.Epsilon > 0) || math.IsInf(cfg.Epsilon, 1) {
		return invalidArgument("Epsilon", "must be finite and > 0, got %v", cfg.Epsilon)
	}
	if cfg.MinPts < 1 {
		return invalidArgument("MinPts", "must be >= 1, got %d", cfg.MinPts)
	}
	switch cfg.Strategy {
	case StrategyAuto, StrategyOnDemand, StrategyPrecomputed:
		// valid
	default:
		return invalidArgument("Strategy", "unknown strategy %q", cfg.Strategy)
	}
	if cfg.Workers < 0 {
		return invalidArgument("Workers", "must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAuto
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(cfg.Seed))
	}
}

// validatePoints checks that points is a non-empty set of finite vectors of
// one common dimension and returns that dimension.
func validatePoints(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, invalidArgument("points", "point set is empty")
	}
	dims := len(points[0])
	if dims == 0 {
		return 0, invalidArgument("points", "points must have dimension >= 1")
	}
	for i, p := range points {
		if len(p) != dims {
			return 0, invalidArgument("points", "point %d has dimension %d, want %d", i, len(p), dims)
		}
		for j, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, invalidArgument("points", "point %d has non-finite coordinate %d (%v)", i, j, v)
			}
		}
	}
	return dims, nil
}

// Cluster performs DBSCAN clustering on the given points.
// Each element is a point (float64 slice); all points must have the same
// dimensionality. Returns an error matching ErrInvalidArgument if the input
// or the config is invalid. The points are never modified.
func Cluster(points [][]float64, cfg Config) (*Result, error) {
	return ClusterContext(context.Background(), points, cfg)
}

// ClusterContext is like Cluster but stops early with an error wrapping
// ctx.Err() if ctx is done. The context is checked once per seed point.
func ClusterContext(ctx context.Context, points [][]float64, cfg Config) (*Result, error) {
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

	base := &pointNeighborhoods{points: points, epsilon: cfg.Epsilon, metric: cfg.Metric}
	return run(ctx, base, len(points), cfg)
}

// ClusterPrecomputed performs DBSCAN on a precomputed distance matrix.
// distMatrix is a flat []float64 of length n*n in row-major order, where
// distMatrix[i*n+j] is the distance between points i and j. The matrix must
// be symmetric with a zero diagonal and finite, non-negative entries. The
// Config.Metric field is ignored since distances are already computed.
func ClusterPrecomputed(distMatrix []float64, n int, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if err := validateDistMatrix(distMatrix, n); err != nil {
		return nil, err
	}

	base := &matrixNeighborhoods{dist: distMatrix, n: n, epsilon: cfg.Epsilon}
	return run(context.Background(), base, n, cfg)
}

func validateDistMatrix(distMatrix []float64, n int) error {
	if n < 1 {
		return invalidArgument("n", "point set is empty")
	}
	if len(distMatrix) != n*n {
		return invalidArgument("distMatrix", "length %d does not match n*n = %d (n=%d)", len(distMatrix), n*n, n)
	}
	for i := 0; i < n; i++ {
		if d := distMatrix[i*n+i]; d != 0 {
			return invalidArgument("distMatrix", "diagonal entry %d is %v, want 0", i, d)
		}
		for j := i + 1; j < n; j++ {
			d := distMatrix[i*n+j]
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return invalidArgument("distMatrix", "entry (%d, %d) is %v, want a finite distance >= 0", i, j, d)
			}
			if d != distMatrix[j*n+i] {
				return invalidArgument("distMatrix", "entries (%d, %d) and (%d, %d) differ", i, j, j, i)
			}
		}
	}
	return nil
}

// run clusters n points whose neighborhoods come from base. cfg must
// already be defaulted and validated.
func run(ctx context.Context, base neighborhoodSource, n int, cfg Config) (*Result, error) {
	strategy := selectStrategy(cfg)
	src := newNeighborhoodSource(base, n, strategy, cfg.Workers)

	c := newClusterer(src, n, cfg.MinPts, cfg.Logger)
	if err := c.run(ctx, cfg.Rand, cfg.Progress); err != nil {
		return nil, err
	}

	res := &Result{
		Labels:      c.labels,
		Core:        c.core,
		NumClusters: c.numClusters,
	}
	cfg.Logger.Info("dbscan: clustering finished",
		zap.Int("points", n),
		zap.Int("clusters", res.NumClusters),
		zap.Int("noise", res.NoiseCount()),
		zap.String("strategy", string(strategy)),
	)
	return res, nil
}
