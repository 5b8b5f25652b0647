package dbscan

// Sizes returns the number of points in each cluster, keyed by cluster ID.
// Noise points are not counted.
func (r *Result) Sizes() map[int]int {
	sizes := make(map[int]int, r.NumClusters)
	for _, l := range r.Labels {
		if l != Noise {
			sizes[l]++
		}
	}
	return sizes
}

// NoiseCount returns the number of points labeled Noise.
func (r *Result) NoiseCount() int {
	count := 0
	for _, l := range r.Labels {
		if l == Noise {
			count++
		}
	}
	return count
}

// CoreCount returns the number of core points.
func (r *Result) CoreCount() int {
	count := 0
	for _, c := range r.Core {
		if c {
			count++
		}
	}
	return count
}

// Members returns the indices of the points labeled id, in ascending order.
func (r *Result) Members(id int) []int {
	var members []int
	for i, l := range r.Labels {
		if l == id {
			members = append(members, i)
		}
	}
	return members
}

// Canonicalize renumbers cluster IDs in order of first appearance, so the
// first clustered point gets ID 1, the next new cluster ID 2, and so on.
// Noise stays Noise. Two label slices describing the same partition
// canonicalize to the same slice, whatever seed order produced them.
func Canonicalize(labels []int) []int {
	out := make([]int, len(labels))
	mapping := make(map[int]int)
	for i, l := range labels {
		if l == Noise {
			out[i] = Noise
			continue
		}
		id, ok := mapping[l]
		if !ok {
			id = len(mapping) + 1
			mapping[l] = id
		}
		out[i] = id
	}
	return out
}

// SamePartition reports whether two label slices describe the same
// partition up to a renaming of cluster IDs. Noise must match exactly.
func SamePartition(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	forward := make(map[int]int)
	reverse := make(map[int]int)
	for i := range a {
		if a[i] == Noise || b[i] == Noise {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if mapped, ok := forward[a[i]]; ok && mapped != b[i] {
			return false
		}
		if mapped, ok := reverse[b[i]]; ok && mapped != a[i] {
			return false
		}
		forward[a[i]] = b[i]
		reverse[b[i]] = a[i]
	}
	return true
}
