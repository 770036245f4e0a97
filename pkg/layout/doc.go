// Package layout computes 2-D coordinates for a project's task dependency
// graph.
//
// # Overview
//
// [Build] takes a snapshot of tasks (as [dag.Node] boxes with a width and
// height) and their depends-on links (as [dag.Edge]) and returns a [Result]
// with a top-left position for every task and a route for every link:
//
//	res, err := layout.Build(nodes, edges,
//	    layout.WithDirection(layout.LeftToRight),
//	    layout.WithSpacing(50, 100),
//	)
//	if err != nil {
//	    var cycle *dag.CycleError
//	    if errors.As(err, &cycle) { ... } // reject the dependency
//	}
//	pos, _ := res.Position("task-42")
//
// # Pipeline
//
// Layout is the classic layered (Sugiyama) pipeline, one package per step:
//
//  1. [dag.Build] validates the snapshot and rejects cycles
//  2. [transform.AssignRanks] puts every prerequisite on an earlier rank than
//     its dependents
//  3. An [ordering.Orderer] arranges each rank to reduce crossing arrows
//  4. [placement.Place] converts ranks and order into coordinates
//
// Each step is deterministic, so the same snapshot always produces the same
// Result, down to the byte once encoded as JSON. Nothing is cached or logged
// here; see package pipeline for that.
//
// # Defaults
//
// Without options, ranks stack top to bottom, neighbours are 100 apart, ranks
// are 100 apart, ranks are centred, ranking is anchored at the sources, and
// ordering runs four median sweeps with transposition.
package layout
