// Package dot exports computed layouts as Graphviz DOT for debugging and
// quick previews.
//
// The layout engine already decides every position, so the DOT output pins
// each node (pos="x,y!") and Graphviz only draws:
//
//	src := dot.ToDOT(result, dot.Options{Labels: labels})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Edge kinds travel as the SVG class of each edge so a stylesheet can tell
// step edges from straight ones.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package dot
