package ordering

import (
	"fmt"

	"github.com/iloginov/tasker/pkg/dag"
)

// Orderer decides the left-to-right sequence of nodes within each rank.
//
// Order returns one slice per rank, indexed by rank, containing every node of
// the graph exactly once. Implementations must be deterministic: the same
// graph and ranks always yield the same ordering.
type Orderer interface {
	Order(g *dag.DAG, ranks map[string]int) [][]string
}

// Heuristic selects the position estimate used when sorting a rank against
// its neighbour rank.
type Heuristic int

const (
	// HeuristicMedian uses the median neighbour position. It is less
	// sensitive to a single far-away neighbour than the mean.
	HeuristicMedian Heuristic = iota
	// HeuristicMean uses the average neighbour position (the barycenter).
	HeuristicMean
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicMedian:
		return "median"
	case HeuristicMean:
		return "mean"
	default:
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
}

// ParseHeuristic parses "median" or "mean". The empty string maps to
// [HeuristicMedian].
func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "", "median":
		return HeuristicMedian, nil
	case "mean", "barycenter":
		return HeuristicMean, nil
	default:
		return HeuristicMedian, fmt.Errorf("unknown ordering heuristic %q (want median or mean)", s)
	}
}

// Quality represents the desired trade-off between ordering speed and quality.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityThorough
)

// Sweep counts for each quality preset.
const (
	PassesFast     = 4
	PassesBalanced = 12
	PassesThorough = 24
	DefaultPasses  = PassesFast
)

// Preset returns the barycentric orderer configured for q.
func Preset(q Quality) Barycentric {
	passes := PassesFast
	switch q {
	case QualityBalanced:
		passes = PassesBalanced
	case QualityThorough:
		passes = PassesThorough
	}
	return Barycentric{Passes: passes, Heuristic: HeuristicMedian, Transpose: true}
}

// Default returns the orderer used when none is configured: four median
// sweeps with transposition.
func Default() Barycentric { return Preset(QualityFast) }

// Stable keeps the seed ordering: endpoints in order of first appearance in
// the edge list, then unconnected nodes in input order. It performs no
// crossing reduction.
type Stable struct{}

// Order implements [Orderer].
func (Stable) Order(g *dag.DAG, ranks map[string]int) [][]string {
	return newLayered(g, ranks).export()
}
