package ordering

import (
	"cmp"
	"slices"

	"github.com/iloginov/tasker/pkg/dag"
)

// maxTransposeRun bounds the transposition rounds per rank and sweep.
const maxTransposeRun = 64

// Barycentric is the layer-sweep crossing reduction heuristic.
//
// Starting from the seed ordering, it alternates down sweeps (each rank
// sorted against the one above) and up sweeps (against the one below). A
// node's sort key is the median or mean position of its neighbours in the
// reference rank; nodes without neighbours there keep their current index as
// key, and ties keep their previous relative order. After every sweep the
// crossings are counted, and the best ordering seen is returned.
//
// Edges spanning several ranks take part through virtual nodes, one per
// intermediate rank; virtual nodes never appear in the result.
//
// The zero value runs [DefaultPasses] median sweeps without transposition;
// use [Default] for the recommended configuration.
type Barycentric struct {
	// Passes is the number of sweeps. Zero or negative means DefaultPasses.
	Passes int
	// Heuristic selects the median or mean neighbour position.
	Heuristic Heuristic
	// Transpose swaps adjacent nodes after each sweep while doing so strictly
	// reduces crossings with both neighbour ranks.
	Transpose bool
}

// Order implements [Orderer].
func (b Barycentric) Order(g *dag.DAG, ranks map[string]int) [][]string {
	l := newLayered(g, ranks)
	b.reduce(l)
	return l.export()
}

// reduce runs the sweeps on l, leaves the best ordering in place and returns
// its crossing count.
func (b Barycentric) reduce(l *layered) int {
	if len(l.layers) < 2 {
		return 0
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	ws := dag.NewCrossingWorkspace(l.maxWidth())
	best := l.crossings(ws)
	bestLayers := l.snapshot()

	for pass := 0; pass < passes && best > 0; pass++ {
		if pass%2 == 0 {
			for r := 1; r < len(l.layers); r++ {
				l.sortRank(r, l.up, b.Heuristic)
			}
		} else {
			for r := len(l.layers) - 2; r >= 0; r-- {
				l.sortRank(r, l.down, b.Heuristic)
			}
		}
		if b.Transpose {
			l.transpose()
		}
		if c := l.crossings(ws); c < best {
			best, bestLayers = c, l.snapshot()
		}
	}

	l.restore(bestLayers)
	return best
}

// sortRank reorders one rank by the positions of each node's neighbours in
// the reference rank; neighbours holds the adjacency towards that rank.
func (l *layered) sortRank(rank int, neighbours [][]int, h Heuristic) {
	layer := l.layers[rank]
	if len(l.keys) < len(l.ids) {
		l.keys = make([]float64, len(l.ids))
	}
	keys := l.keys
	var buf []int
	for i, n := range layer {
		buf = buf[:0]
		for _, m := range neighbours[n] {
			buf = append(buf, l.pos[m])
		}
		if len(buf) == 0 {
			keys[n] = float64(i)
			continue
		}
		keys[n] = estimate(buf, h)
	}

	slices.SortStableFunc(layer, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
	l.reindex(rank)
}

func estimate(positions []int, h Heuristic) float64 {
	if h == HeuristicMean {
		sum := 0
		for _, p := range positions {
			sum += p
		}
		return float64(sum) / float64(len(positions))
	}
	slices.Sort(positions)
	mid := len(positions) / 2
	if len(positions)%2 == 1 {
		return float64(positions[mid])
	}
	return float64(positions[mid-1]+positions[mid]) / 2
}

// transpose swaps adjacent pairs while a swap strictly lowers the crossings
// they take part in. Every accepted swap lowers the total, so the loop ends
// even without the round bound.
func (l *layered) transpose() {
	for r, layer := range l.layers {
		for round := 0; round < maxTransposeRun; round++ {
			improved := false
			for i := 0; i+1 < len(layer); i++ {
				u, v := layer[i], layer[i+1]
				if l.pairCrossings(v, u) < l.pairCrossings(u, v) {
					layer[i], layer[i+1] = v, u
					improved = true
				}
			}
			l.reindex(r)
			if !improved {
				break
			}
		}
	}
}

// pairCrossings counts crossings between the edges of left and right when
// left sits immediately before right, towards both neighbour ranks.
func (l *layered) pairCrossings(left, right int) int {
	return l.countPair(l.up[left], l.up[right]) + l.countPair(l.down[left], l.down[right])
}

func (l *layered) countPair(left, right []int) int {
	n := 0
	for _, a := range left {
		for _, b := range right {
			if l.pos[a] > l.pos[b] {
				n++
			}
		}
	}
	return n
}
