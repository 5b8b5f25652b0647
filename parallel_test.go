package dbscan

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sinePoints(n, dims int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
		for j := range points[i] {
			points[i][j] = math.Sin(float64(i*dims+j) * 0.7)
		}
	}
	return points
}

func TestComputeNeighborhoods_MatchesSequential(t *testing.T) {
	points := sinePoints(20, 3)
	src := &pointNeighborhoods{points: points, epsilon: 0.8, metric: EuclideanMetric{}}

	sequential := computeNeighborhoods(src, len(points), 1)

	for _, workers := range []int{2, 4, 7} {
		parallel := computeNeighborhoods(src, len(points), workers)
		if diff := cmp.Diff(sequential, parallel); diff != "" {
			t.Errorf("workers=%d: neighborhoods differ (-sequential +parallel):\n%s", workers, diff)
		}
	}
}

func TestComputeNeighborhoods_SortedWithSelf(t *testing.T) {
	points := sinePoints(15, 2)
	src := &pointNeighborhoods{points: points, epsilon: 0.5, metric: ManhattanMetric{}}

	out := computeNeighborhoods(src, len(points), 3)
	for i, nb := range out {
		hasSelf := false
		for k, j := range nb {
			if j == i {
				hasSelf = true
			}
			if k > 0 && nb[k-1] >= j {
				t.Errorf("neighbors of %d not strictly ascending: %v", i, nb)
				break
			}
		}
		if !hasSelf {
			t.Errorf("neighbors of %d do not include the point itself: %v", i, nb)
		}
	}
}

func TestComputeNeighborhoods_SinglePoint(t *testing.T) {
	src := &pointNeighborhoods{points: [][]float64{{1, 2}}, epsilon: 1, metric: EuclideanMetric{}}

	out := computeNeighborhoods(src, 1, 4)
	if diff := cmp.Diff([][]int{{0}}, out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeNeighborhoods_MoreWorkersThanRows(t *testing.T) {
	points := [][]float64{{0, 0}, {3, 4}, {6, 0}}
	src := &pointNeighborhoods{points: points, epsilon: 5, metric: EuclideanMetric{}}

	want := [][]int{{0, 1}, {0, 1, 2}, {1, 2}}
	if diff := cmp.Diff(want, computeNeighborhoods(src, len(points), 10)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeNeighborhoods_Matrix(t *testing.T) {
	points := sinePoints(12, 2)
	dist := ComputePairwiseDistances(points, EuclideanMetric{})

	fromPoints := computeNeighborhoods(
		&pointNeighborhoods{points: points, epsilon: 0.6, metric: EuclideanMetric{}}, len(points), 1)
	fromMatrix := computeNeighborhoods(
		&matrixNeighborhoods{dist: dist, n: len(points), epsilon: 0.6}, len(points), 3)

	if diff := cmp.Diff(fromPoints, fromMatrix); diff != "" {
		t.Errorf("matrix neighborhoods differ (-points +matrix):\n%s", diff)
	}
}

func TestCluster_StrategiesAgree(t *testing.T) {
	points := twoBlobs()
	cfg := DefaultConfig()
	cfg.Epsilon = 0.5
	cfg.MinPts = 4
	cfg.Seed = 7

	cfg.Strategy = StrategyOnDemand
	want, err := Cluster(points, cfg)
	if err != nil {
		t.Fatalf("on_demand: unexpected error: %v", err)
	}

	for _, strategy := range []Strategy{StrategyPrecomputed, StrategyAuto} {
		for _, workers := range []int{1, 2, 4} {
			cfg.Strategy = strategy
			cfg.Workers = workers
			got, err := Cluster(points, cfg)
			if err != nil {
				t.Fatalf("%s/%d: unexpected error: %v", strategy, workers, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s/%d: result differs from on_demand (-want +got):\n%s", strategy, workers, diff)
			}
		}
	}
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		workers  int
		expected Strategy
	}{
		{"auto single worker → on_demand", StrategyAuto, 1, StrategyOnDemand},
		{"auto many workers → precomputed", StrategyAuto, 4, StrategyPrecomputed},
		{"explicit on_demand kept", StrategyOnDemand, 8, StrategyOnDemand},
		{"explicit precomputed kept", StrategyPrecomputed, 1, StrategyPrecomputed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Strategy = tt.strategy
			cfg.Workers = tt.workers
			if got := selectStrategy(cfg); got != tt.expected {
				t.Errorf("selectStrategy() = %q, want %q", got, tt.expected)
			}
		})
	}
}
