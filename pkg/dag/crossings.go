package dag

import "slices"

// CrossingWorkspace holds reusable buffers for [CountCrossingsIdx]. The
// ordering solver evaluates a layer pair after every sweep and every
// transposition, so it keeps one workspace per layout call.
//
// A workspace is not safe for concurrent use.
type CrossingWorkspace struct {
	ft  []int // Fenwick tree over lower-layer positions
	pos []int // original index -> position in the lower permutation
}

// NewCrossingWorkspace returns a workspace for layers of up to maxWidth nodes.
// Passing a wider layer to [CountCrossingsIdx] grows the buffers on demand.
func NewCrossingWorkspace(maxWidth int) *CrossingWorkspace {
	return &CrossingWorkspace{
		ft:  make([]int, maxWidth+2),
		pos: make([]int, maxWidth+2),
	}
}

func (ws *CrossingWorkspace) ensure(width int) {
	if len(ws.ft) < width+2 {
		ws.ft = make([]int, width+2)
		ws.pos = make([]int, width+2)
	}
}

// CountCrossings returns the number of edge crossings in a full ordering,
// summed over each pair of consecutive ranks. orders[r] lists the node IDs of
// rank r from left to right.
//
// Only edges whose endpoints sit in consecutive ranks are counted; the
// ordering solver accounts for longer edges through its own virtual nodes.
func CountCrossings(g *DAG, orders [][]string) int {
	crossings := 0
	for r := 0; r+1 < len(orders); r++ {
		crossings += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return crossings
}

// CountLayerCrossings counts crossings between the edges joining two adjacent
// layers.
//
// Edges (u1,v1) and (u2,v2) cross exactly when pos(u1) < pos(u2) and
// pos(v1) > pos(v2), so the count equals the number of inversions in the
// target positions once edges are sorted by source position. Inversions are
// counted with a Fenwick tree in O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)
	targets := make([][]int, len(upper))
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if p, ok := lowerPos[child]; ok {
				targets[i] = append(targets[i], p)
			}
		}
	}

	upperPerm := make([]int, len(upper))
	for i := range upperPerm {
		upperPerm[i] = i
	}
	lowerPerm := make([]int, len(lower))
	for i := range lowerPerm {
		lowerPerm[i] = i
	}
	return CountCrossingsIdx(targets, upperPerm, lowerPerm, NewCrossingWorkspace(len(lower)))
}

// CountCrossingsIdx counts crossings between two layers given as index
// permutations. edges[u] lists the lower-layer indices adjacent to upper
// index u; upperPerm and lowerPerm give the left-to-right order of those
// indices. Edges from the same upper node never cross each other.
func CountCrossingsIdx(edges [][]int, upperPerm, lowerPerm []int, ws *CrossingWorkspace) int {
	if len(upperPerm) == 0 || len(lowerPerm) == 0 {
		return 0
	}
	ws.ensure(max(len(lowerPerm), maxIndex(lowerPerm)+1))

	for pos, idx := range lowerPerm {
		ws.pos[idx] = pos
	}
	limit := len(lowerPerm) + 1
	clear(ws.ft[:limit])

	crossings, total := 0, 0
	for _, u := range upperPerm {
		targets := edges[u]
		// Query every edge of u before inserting any of them.
		for _, t := range targets {
			lessOrEqual := 0
			for q := ws.pos[t] + 1; q > 0; q -= q & (-q) {
				lessOrEqual += ws.ft[q]
			}
			crossings += total - lessOrEqual
		}
		for _, t := range targets {
			total++
			for q := ws.pos[t] + 1; q < limit; q += q & (-q) {
				ws.ft[q]++
			}
		}
	}
	return crossings
}

func maxIndex(perm []int) int {
	if len(perm) == 0 {
		return -1
	}
	return slices.Max(perm)
}
