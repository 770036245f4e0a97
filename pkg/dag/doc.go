// Package dag provides the validated graph model behind task dependency
// layouts.
//
// # Overview
//
// A project's tasks are nodes and their depends-on links are directed edges.
// An edge From -> To means From is a prerequisite of To: it is laid out
// earlier and the arrow points at To. Layout only works on acyclic graphs, so
// every graph is validated once, up front, by [Build]:
//
//	g, err := dag.Build(
//	    []dag.Node{{ID: "design", Width: 200, Height: 100}, {ID: "build", Width: 200, Height: 120}},
//	    []dag.Edge{{From: "design", To: "build"}},
//	)
//
// A built [DAG] is immutable. Query it with [DAG.Children], [DAG.Parents],
// [DAG.Sources], [DAG.TopologicalOrder] and related methods. Node and edge
// order always follows the input, which keeps every downstream step
// deterministic.
//
// # Errors
//
// Malformed input is reported as a *[ValidationError] wrapping one of the
// package sentinels ([ErrDuplicateNodeID], [ErrUnknownTargetNode], ...).
// Cycles are reported as a *[CycleError] listing the nodes on the cycle in
// path order; it unwraps to [ErrGraphHasCycle].
//
// Editors can reject a dependency before it is stored with [DAG.CheckEdge],
// which reports the cycle the new edge would close.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between adjacent
// ranks of an ordering with a Fenwick tree in O(E log V). The ordering solver
// uses the index-based [CountCrossingsIdx] with a reusable
// [CrossingWorkspace].
//
// # Concurrency
//
// A DAG is never modified after [Build], so concurrent reads are safe.
//
// # Related Packages
//
// The [transform] subpackage assigns ranks (layers) to nodes.
//
// [transform]: github.com/iloginov/tasker/pkg/dag/transform
package dag
