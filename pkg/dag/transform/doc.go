// Package transform derives layered structure from a validated DAG.
//
// # Rank Assignment
//
// [AssignRanks] places every node on a horizontal rank (layer) using
// longest-path layering, so each dependency edge points from a lower rank to
// a strictly higher one:
//
//	ranks := transform.AssignRanks(g, transform.AlignTop)
//	layers := transform.Layers(g, ranks) // node IDs per rank, input order
//
// Two anchorings are available. [AlignTop] keeps every source task on the
// first rank and pushes dependents down only as far as their deepest
// prerequisite requires. [AlignBottom] anchors the layering at the sinks
// instead, which pulls prerequisites down next to the work that needs them.
//
// Nodes with no edges at all are placed on rank 0 under both anchorings.
//
// Long edges (spanning more than one rank) are left untouched here; the
// ordering step threads them through virtual positions of its own.
package transform
