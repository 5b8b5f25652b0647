package dbscan

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Noise is the label of points that are not density-reachable from any
// core point.
const Noise = -1

// unvisited marks a point that has not been labeled yet. It never appears
// in a returned Result.
const unvisited = 0

// unvisitedSet tracks the indices still waiting for a label, supporting
// O(1) removal and uniform random selection.
type unvisitedSet struct {
	idx []int // unlabeled point indices, in no particular order
	pos []int // pos[i] is the position of i in idx, or -1 once removed
}

func newUnvisitedSet(n int) *unvisitedSet {
	s := &unvisitedSet{
		idx: make([]int, n),
		pos: make([]int, n),
	}
	for i := 0; i < n; i++ {
		s.idx[i] = i
		s.pos[i] = i
	}
	return s
}

func (s *unvisitedSet) len() int { return len(s.idx) }

// remove drops i by moving the last element into its slot.
func (s *unvisitedSet) remove(i int) {
	p := s.pos[i]
	if p < 0 {
		return
	}
	last := s.idx[len(s.idx)-1]
	s.idx[p] = last
	s.pos[last] = p
	s.idx = s.idx[:len(s.idx)-1]
	s.pos[i] = -1
}

func (s *unvisitedSet) pick(rng RandomSource) int {
	return s.idx[rng.Intn(len(s.idx))]
}

// clusterer holds the state of a single clustering run. The cluster counter
// lives here rather than in any package-level variable.
type clusterer struct {
	src    neighborhoodSource
	minPts int
	logger *zap.Logger

	labels      []int
	core        []bool
	remaining   *unvisitedSet
	numClusters int

	// stack is the expansion worklist: points already labeled with the
	// current cluster whose own neighborhoods are still to be inspected.
	stack []int
	buf   []int
}

func newClusterer(src neighborhoodSource, n, minPts int, logger *zap.Logger) *clusterer {
	return &clusterer{
		src:       src,
		minPts:    minPts,
		logger:    logger,
		labels:    make([]int, n),
		core:      make([]bool, n),
		remaining: newUnvisitedSet(n),
	}
}

// run labels every point. Each iteration draws an unlabeled seed at random
// and either marks it Noise or grows a new cluster from it.
func (c *clusterer) run(ctx context.Context, rng RandomSource, progress func(labeled, total int)) error {
	n := len(c.labels)
	for c.remaining.len() > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dbscan: clustering interrupted with %d of %d points labeled: %w",
				n-c.remaining.len(), n, err)
		}

		seed := c.remaining.pick(rng)
		c.remaining.remove(seed)

		c.buf = c.src.appendNeighbors(c.buf[:0], seed)
		if len(c.buf) < c.minPts {
			c.labels[seed] = Noise
		} else {
			c.numClusters++
			id := c.numClusters
			c.core[seed] = true
			c.labels[seed] = id
			size := 1 + c.claim(c.buf, id)
			size += c.expand(id)
			c.logger.Debug("dbscan: cluster found",
				zap.Int("cluster", id),
				zap.Int("seed", seed),
				zap.Int("size", size),
			)
		}

		if progress != nil {
			progress(n-c.remaining.len(), n)
		}
	}
	return nil
}

// claim assigns cluster id to every neighbor that does not already carry it
// and returns how many points were newly assigned. Unvisited neighbors are
// queued for expansion. Noise neighbors were rejected as seeds, so they are
// known non-core and join the cluster as border points without expansion.
func (c *clusterer) claim(neighbors []int, id int) int {
	claimed := 0
	for _, j := range neighbors {
		switch c.labels[j] {
		case unvisited:
			c.labels[j] = id
			c.remaining.remove(j)
			c.stack = append(c.stack, j)
			claimed++
		case Noise:
			c.labels[j] = id
			claimed++
		}
	}
	return claimed
}

// expand drains the worklist, extending cluster id through every core point
// it reaches. It returns the number of points claimed along the way.
func (c *clusterer) expand(id int) int {
	claimed := 0
	for len(c.stack) > 0 {
		q := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		c.buf = c.src.appendNeighbors(c.buf[:0], q)
		if len(c.buf) < c.minPts {
			continue // border point
		}
		c.core[q] = true
		claimed += c.claim(c.buf, id)
	}
	return claimed
}
