package dbscan

import "sync"

// computeNeighborhoods computes the ε-neighborhood of every point
// index in [0, n) using multiple goroutines. numWorkers controls the degree
// of parallelism; if <= 1, the neighborhoods are computed sequentially.
//
// The result is identical to querying src one index at a time: out[i] lists
// the neighbors of i in ascending order.
func computeNeighborhoods(src neighborhoodSource, n, numWorkers int) [][]int {
	out := make([][]int, n)
	if numWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			out[i] = src.appendNeighbors(nil, i)
		}
		return out
	}

	// Split rows across workers. Each worker owns a contiguous range of
	// indices, so writes to out never overlap.
	var wg sync.WaitGroup

	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = src.appendNeighbors(nil, i)
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return out
}
