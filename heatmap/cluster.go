package heatmap

// unionFind is a parent-pointer disjoint-set over flat cell indices, used
// to merge 8-connected flood fills started from distinct local maxima
// without building an explicit pointer graph.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// findClusters starts from each local
// maximum, flood-fill over 8-connected neighbors whose value exceeds the
// (lower) cluster-membership threshold, merging fills that meet. Clusters
// smaller than minSize cells are discarded. Each cell belongs to at most
// one cluster, guaranteed here because every
// cell is visited through the single shared unionFind.
func findClusters(h *Heatmap, maxima []Point, membershipThreshold float64, minSize int) [][]Point {
	uf := newUnionFind(h.width * h.height)
	visited := make([]bool, h.width*h.height)

	for _, m := range maxima {
		floodFill(h, m, membershipThreshold, uf, visited)
	}

	groups := make(map[int][]Point)
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			idx := h.index(x, y)
			if !visited[idx] {
				continue
			}
			root := uf.find(idx)
			groups[root] = append(groups[root], Point{X: x, Y: y})
		}
	}

	clusters := make([][]Point, 0, len(groups))
	for _, cells := range groups {
		if len(cells) < minSize {
			continue
		}
		clusters = append(clusters, cells)
	}
	return clusters
}

func floodFill(h *Heatmap, start Point, threshold float64, uf *unionFind, visited []bool) {
	startIdx := h.index(start.X, start.Y)
	if visited[startIdx] {
		// Already absorbed by a previous maximum's flood fill; still make
		// sure it's unioned transitively via the shared root (no-op if so).
		return
	}

	stack := []Point{start}
	visited[startIdx] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pIdx := h.index(p.X, p.Y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= h.width || ny < 0 || ny >= h.height {
					continue
				}
				if h.Get(nx, ny) <= threshold {
					continue
				}

				nIdx := h.index(nx, ny)
				if visited[nIdx] {
					uf.union(pIdx, nIdx)
					continue
				}

				visited[nIdx] = true
				uf.union(pIdx, nIdx)
				stack = append(stack, Point{X: nx, Y: ny})
			}
		}
	}
}
