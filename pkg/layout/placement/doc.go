// Package placement assigns coordinates to a ranked and ordered task graph.
//
// [Place] is the last step of the layout pipeline. Ranks become bands along
// the rank axis, each as deep as its deepest node and [Spacing.RankSep] apart,
// so a tall task pushes every later rank down by exactly its extra height.
// Within a rank, nodes are packed in order with [Spacing.NodeSep] between
// neighbours and optionally centred on the widest rank.
//
// The same computation serves every [Direction]; only the mapping of the rank
// and cross axes onto x and y changes. Positions are the top-left corner of
// each node, shifted so the drawing starts at the margin.
//
// Edges are routed as straight segments from the side of the source facing
// the next rank to the facing side of the target.
package placement
