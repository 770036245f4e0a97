// Package ordering decides the left-to-right arrangement of nodes within each
// rank of a layered task graph.
//
// # The Ordering Problem
//
// Once every task has a rank, the layout still has to choose the order of the
// tasks sharing a rank. Crossing dependency arrows make a plan hard to read,
// and finding the ordering with the fewest crossings is NP-hard, so this
// package uses the classic layer-sweep heuristic.
//
// # Barycentric Sweeps
//
// [Barycentric] works on a copy of the graph in which every edge spanning more
// than one rank runs through virtual nodes, one per skipped rank. The
// algorithm:
//
//  1. Seed each rank with edge endpoints in order of first appearance in the
//     edge list, followed by unconnected tasks in input order
//  2. Sweep down: sort each rank by the median (or mean) position of its
//     neighbours in the rank above
//  3. Sweep up: sort each rank against the rank below
//  4. Optionally transpose adjacent pairs while that strictly lowers crossings
//  5. Count crossings after every sweep and keep the best ordering seen
//
// Sorting is stable and ties keep their previous order, so the result depends
// only on the input order of nodes and edges.
//
// # Usage
//
// The [Orderer] interface allows algorithms to be used interchangeably:
//
//	var orderer ordering.Orderer = ordering.Default()
//	order := orderer.Order(g, ranks) // order[rank] = node IDs, left to right
//
// [Stable] returns the seed ordering unchanged, which keeps related tasks
// next to each other in the order they were linked.
//
// # Quality Presets
//
// [Preset] maps a [Quality] to a sweep count:
//
//   - [QualityFast]: 4 sweeps, the default
//   - [QualityBalanced]: 12 sweeps
//   - [QualityThorough]: 24 sweeps
package ordering
