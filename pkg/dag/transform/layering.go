package transform

import (
	"fmt"

	"github.com/iloginov/tasker/pkg/dag"
)

// Align selects which end of the graph the longest-path layering is anchored
// to.
type Align int

const (
	// AlignTop puts every source on rank 0 and each node one rank below its
	// deepest prerequisite. Dependents sink as far as they must, no further.
	AlignTop Align = iota

	// AlignBottom measures the longest path from each node down to a sink and
	// mirrors it, so every sink with prerequisites shares the last rank.
	// Prerequisites are pulled as close to their dependents as they can go.
	AlignBottom
)

func (a Align) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// ParseAlign parses "top" or "bottom". The empty string maps to [AlignTop].
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	default:
		return AlignTop, fmt.Errorf("unknown rank alignment %q (want top or bottom)", s)
	}
}

// AssignRanks assigns every node a rank (layer index) using longest-path
// layering.
//
// For every edge (s, t) the result satisfies rank(s) < rank(t), and a node
// with no edges at all is always on rank 0. With no edges, every node is on
// rank 0.
//
// # Algorithm
//
// Nodes are processed in the graph's topological order, which [dag.Build]
// derives from a depth-first traversal:
//
//   - [AlignTop]: rank(n) = 0 for sources, else 1 + max(rank(parent)).
//   - [AlignBottom]: height(n) = 0 for sinks, else 1 + max(height(child)),
//     computed in reverse topological order; rank(n) = maxHeight - height(n).
//
// Each edge is relaxed once, so the cost is O(V + E). The result depends only
// on the graph, never on map iteration order.
func AssignRanks(g *dag.DAG, align Align) map[string]int {
	order := g.TopologicalOrder()
	ranks := make(map[string]int, len(order))

	if align != AlignBottom {
		for _, id := range order {
			rank := 0
			for _, parent := range g.Parents(id) {
				rank = max(rank, ranks[parent]+1)
			}
			ranks[id] = rank
		}
		return ranks
	}

	height := make(map[string]int, len(order))
	maxHeight := 0
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		h := 0
		for _, child := range g.Children(id) {
			h = max(h, height[child]+1)
		}
		height[id] = h
		maxHeight = max(maxHeight, h)
	}
	for _, id := range order {
		if g.InDegree(id) == 0 && g.OutDegree(id) == 0 {
			ranks[id] = 0
			continue
		}
		ranks[id] = maxHeight - height[id]
	}
	return ranks
}

// RankCount returns the number of ranks in use: one more than the highest
// rank, or 0 for an empty assignment.
func RankCount(ranks map[string]int) int {
	n := 0
	for _, r := range ranks {
		n = max(n, r+1)
	}
	return n
}

// Layers groups node IDs by rank. Within a rank, nodes keep their input
// order.
func Layers(g *dag.DAG, ranks map[string]int) [][]string {
	layers := make([][]string, RankCount(ranks))
	for _, n := range g.Nodes() {
		r := ranks[n.ID]
		layers[r] = append(layers[r], n.ID)
	}
	return layers
}
