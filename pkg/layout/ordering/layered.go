package ordering

import (
	"slices"

	"github.com/iloginov/tasker/pkg/dag"
)

// layered is the working graph of an ordering run. Every edge that spans more
// than one rank is threaded through one virtual node per intermediate rank,
// so all edges of the working graph join consecutive ranks.
//
// Nodes are addressed by an integer handle; virtual nodes have an empty ID
// and are dropped by export.
type layered struct {
	ids   []string // handle -> node ID, "" for virtual nodes
	rank  []int    // handle -> rank
	local []int    // handle -> fixed index within its rank
	down  [][]int  // handle -> neighbours on rank+1
	up    [][]int  // handle -> neighbours on rank-1

	layers [][]int // rank -> handles, current left-to-right order
	pos    []int   // handle -> current position within its rank

	keys []float64 // sort keys, reused across sweeps
}

func newLayered(g *dag.DAG, ranks map[string]int) *layered {
	l := &layered{layers: make([][]int, rankCount(g, ranks))}
	handle := make(map[string]int, g.NodeCount())

	place := func(id string) int {
		if h, ok := handle[id]; ok {
			return h
		}
		h := l.add(id, ranks[id])
		handle[id] = h
		return h
	}

	// Seed: endpoints in order of first appearance in the edge list.
	for _, e := range g.Edges() {
		prev := place(e.From)
		to := ranks[e.To]
		for r := ranks[e.From] + 1; r < to; r++ {
			v := l.add("", r)
			l.link(prev, v)
			prev = v
		}
		// The target may already be placed; its handle is stable either way.
		l.link(prev, place(e.To))
	}
	for _, n := range g.Nodes() {
		place(n.ID)
	}
	return l
}

func rankCount(g *dag.DAG, ranks map[string]int) int {
	n := 0
	for _, node := range g.Nodes() {
		n = max(n, ranks[node.ID]+1)
	}
	return n
}

func (l *layered) add(id string, rank int) int {
	h := len(l.ids)
	l.ids = append(l.ids, id)
	l.rank = append(l.rank, rank)
	l.local = append(l.local, len(l.layers[rank]))
	l.pos = append(l.pos, len(l.layers[rank]))
	l.down = append(l.down, nil)
	l.up = append(l.up, nil)
	l.layers[rank] = append(l.layers[rank], h)
	return h
}

func (l *layered) link(upper, lower int) {
	l.down[upper] = append(l.down[upper], lower)
	l.up[lower] = append(l.up[lower], upper)
}

func (l *layered) maxWidth() int {
	w := 0
	for _, layer := range l.layers {
		w = max(w, len(layer))
	}
	return w
}

// reindex refreshes pos after the order of a rank changed.
func (l *layered) reindex(rank int) {
	for i, h := range l.layers[rank] {
		l.pos[h] = i
	}
}

func (l *layered) snapshot() [][]int {
	out := make([][]int, len(l.layers))
	for r, layer := range l.layers {
		out[r] = slices.Clone(layer)
	}
	return out
}

func (l *layered) restore(layers [][]int) {
	for r, layer := range layers {
		copy(l.layers[r], layer)
		l.reindex(r)
	}
}

// crossings counts crossings over every pair of consecutive ranks.
func (l *layered) crossings(ws *dag.CrossingWorkspace) int {
	total := 0
	for r := 0; r+1 < len(l.layers); r++ {
		upper, lower := l.layers[r], l.layers[r+1]
		edges := make([][]int, len(upper))
		upperPerm := make([]int, len(upper))
		lowerPerm := make([]int, len(lower))
		for i, h := range upper {
			upperPerm[i] = l.local[h]
			targets := make([]int, len(l.down[h]))
			for j, c := range l.down[h] {
				targets[j] = l.local[c]
			}
			edges[l.local[h]] = targets
		}
		for i, h := range lower {
			lowerPerm[i] = l.local[h]
		}
		total += dag.CountCrossingsIdx(edges, upperPerm, lowerPerm, ws)
	}
	return total
}

// export returns the real node IDs per rank, dropping virtual nodes.
func (l *layered) export() [][]string {
	out := make([][]string, len(l.layers))
	for r, layer := range l.layers {
		ids := make([]string, 0, len(layer))
		for _, h := range layer {
			if l.ids[h] != "" {
				ids = append(ids, l.ids[h])
			}
		}
		out[r] = ids
	}
	return out
}
