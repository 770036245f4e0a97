package placement

import (
	"fmt"
	"math"

	"github.com/iloginov/tasker/pkg/dag"
)

// Direction is the axis along which ranks stack.
type Direction int

const (
	TopToBottom Direction = iota // Ranks stack downwards, the default
	LeftToRight                  // Ranks stack rightwards
	BottomToTop                  // TopToBottom mirrored vertically
	RightToLeft                  // LeftToRight mirrored horizontally
)

var directionNames = [...]string{
	TopToBottom: "TB",
	LeftToRight: "LR",
	BottomToTop: "BT",
	RightToLeft: "RL",
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool { return d >= 0 && int(d) < len(directionNames) }

// Horizontal reports whether ranks stack along the x axis.
func (d Direction) Horizontal() bool { return d == LeftToRight || d == RightToLeft }

// ParseDirection accepts TB, LR, BT and RL in either case. The empty string
// maps to [TopToBottom].
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "TB", "tb":
		return TopToBottom, nil
	case "LR", "lr":
		return LeftToRight, nil
	case "BT", "bt":
		return BottomToTop, nil
	case "RL", "rl":
		return RightToLeft, nil
	}
	return TopToBottom, fmt.Errorf("unknown direction %q (want TB, LR, BT or RL)", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Align controls how ranks of different widths line up on the cross axis.
type Align int

const (
	// AlignCenter centres every rank on the centre line of the widest rank.
	AlignCenter Align = iota
	// AlignStart leaves every rank flush with the start of the cross axis.
	AlignStart
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignStart:
		return "start"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// ParseAlign parses "center" or "start". The empty string maps to
// [AlignCenter].
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "center", "centre":
		return AlignCenter, nil
	case "start", "left", "top":
		return AlignStart, nil
	}
	return AlignCenter, fmt.Errorf("unknown alignment %q (want center or start)", s)
}

// Spacing holds the geometric settings of a placement.
type Spacing struct {
	NodeSep   float64   // Gap between neighbours in a rank
	RankSep   float64   // Gap between consecutive rank bands
	Margin    float64   // Padding added on every side after normalization
	Direction Direction // Axis along which ranks stack
	Align     Align     // Cross-axis alignment of ranks
}

// Point is a coordinate in layout space: x grows rightwards, y downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a placed node. X and Y are the top-left corner.
type Box struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rank   int     `json:"rank"`
	Order  int     `json:"order"`
}

// Center returns the centre point of the box.
func (b Box) Center() Point { return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2} }

// Route is the path drawn for an edge.
type Route struct {
	ID     string       `json:"id"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Kind   dag.EdgeKind `json:"kind"`
	Points []Point      `json:"points"`
}

// Result is the outcome of [Place].
type Result struct {
	Nodes  []Box   // Input node order
	Edges  []Route // Input edge order
	Width  float64 // Extent of the drawing including margins
	Height float64
}

// Finite reports whether every coordinate and the drawing size are finite.
// Extents near the float64 limit can sum to +Inf, which then turns
// centring and normalization into NaN.
func (r Result) Finite() bool {
	ok := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	if !ok(r.Width, r.Height) {
		return false
	}
	for _, b := range r.Nodes {
		if !ok(b.X, b.Y) {
			return false
		}
	}
	for _, e := range r.Edges {
		for _, p := range e.Points {
			if !ok(p.X, p.Y) {
				return false
			}
		}
	}
	return true
}

// Place turns ranks and per-rank order into coordinates.
//
// Along the rank axis, rank r occupies a band as deep as its deepest node and
// consecutive bands are RankSep apart; each node is centred in its band. Along
// the cross axis, nodes follow order[r] with NodeSep between neighbours.
// Finally all coordinates are shifted so the minimum is zero and Margin is
// added on every side.
//
// order must list every node of g exactly once, on the rank given by ranks.
func Place(g *dag.DAG, ranks map[string]int, order [][]string, s Spacing) Result {
	res := Result{Nodes: make([]Box, g.NodeCount())}
	if g.NodeCount() == 0 {
		res.Edges = []Route{}
		return res
	}

	// deep is the extent along the rank axis, wide along the cross axis.
	deep := func(n dag.Node) float64 { return n.Height }
	wide := func(n dag.Node) float64 { return n.Width }
	if s.Direction.Horizontal() {
		deep, wide = wide, deep
	}

	band := make([]float64, len(order))
	span := make([]float64, len(order))
	widest := 0.0
	for r, ids := range order {
		for i, id := range ids {
			n, _ := g.Node(id)
			band[r] = math.Max(band[r], deep(n))
			if i > 0 {
				span[r] += s.NodeSep
			}
			span[r] += wide(n)
		}
		widest = math.Max(widest, span[r])
	}

	offset := make([]float64, len(order))
	for r := 1; r < len(order); r++ {
		offset[r] = offset[r-1] + band[r-1] + s.RankSep
	}
	total := 0.0
	if last := len(order) - 1; last >= 0 {
		total = offset[last] + band[last]
	}

	for r, ids := range order {
		cross := 0.0
		if s.Align == AlignCenter {
			cross = (widest - span[r]) / 2
		}
		for i, id := range ids {
			n, _ := g.Node(id)
			along := offset[r] + (band[r]-deep(n))/2
			if s.Direction == BottomToTop || s.Direction == RightToLeft {
				along = total - along - deep(n)
			}

			b := Box{ID: id, Width: n.Width, Height: n.Height, Rank: ranks[id], Order: i}
			if s.Direction.Horizontal() {
				b.X, b.Y = along, cross
			} else {
				b.X, b.Y = cross, along
			}
			res.Nodes[g.Index(id)] = b
			cross += wide(n) + s.NodeSep
		}
	}

	normalize(&res, s.Margin)
	res.Edges = route(g, res.Nodes, s.Direction)
	return res
}

// normalize shifts every box so the minimum coordinate on each axis equals
// margin and sets the drawing size.
func normalize(res *Result, margin float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range res.Nodes {
		minX, minY = math.Min(minX, b.X), math.Min(minY, b.Y)
		maxX, maxY = math.Max(maxX, b.X+b.Width), math.Max(maxY, b.Y+b.Height)
	}
	for i := range res.Nodes {
		res.Nodes[i].X += margin - minX
		res.Nodes[i].Y += margin - minY
	}
	res.Width = maxX - minX + 2*margin
	res.Height = maxY - minY + 2*margin
}

// route draws each edge as a straight segment between anchor points on the
// facing sides of its endpoints.
func route(g *dag.DAG, boxes []Box, dir Direction) []Route {
	routes := make([]Route, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		from, to := boxes[g.Index(e.From)], boxes[g.Index(e.To)]
		routes = append(routes, Route{
			ID:     e.ID,
			From:   e.From,
			To:     e.To,
			Kind:   e.Kind,
			Points: []Point{exit(from, dir), entry(to, dir)},
		})
	}
	return routes
}

// exit is where an edge leaves its source box.
func exit(b Box, dir Direction) Point {
	c := b.Center()
	switch dir {
	case LeftToRight:
		return Point{X: b.X + b.Width, Y: c.Y}
	case RightToLeft:
		return Point{X: b.X, Y: c.Y}
	case BottomToTop:
		return Point{X: c.X, Y: b.Y}
	default:
		return Point{X: c.X, Y: b.Y + b.Height}
	}
}

// entry is where an edge reaches its target box.
func entry(b Box, dir Direction) Point {
	c := b.Center()
	switch dir {
	case LeftToRight:
		return Point{X: b.X, Y: c.Y}
	case RightToLeft:
		return Point{X: b.X + b.Width, Y: c.Y}
	case BottomToTop:
		return Point{X: c.X, Y: b.Y + b.Height}
	default:
		return Point{X: c.X, Y: b.Y}
	}
}
