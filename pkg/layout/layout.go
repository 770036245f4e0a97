package layout

import (
	"fmt"
	"math"

	"github.com/iloginov/tasker/pkg/dag"
	"github.com/iloginov/tasker/pkg/dag/transform"
	"github.com/iloginov/tasker/pkg/layout/ordering"
	"github.com/iloginov/tasker/pkg/layout/placement"
)

// Defaults applied when no option overrides them.
const (
	DefaultNodeSep = 100.0
	DefaultRankSep = 100.0
)

type (
	Point      = placement.Point
	PlacedNode = placement.Box
	Route      = placement.Route
	Direction  = placement.Direction
	Align      = placement.Align
)

const (
	TopToBottom = placement.TopToBottom
	LeftToRight = placement.LeftToRight
	BottomToTop = placement.BottomToTop
	RightToLeft = placement.RightToLeft

	AlignCenter = placement.AlignCenter
	AlignStart  = placement.AlignStart
)

// Result is a complete layout. Nodes and Edges follow input order.
type Result struct {
	Nodes     []PlacedNode `json:"nodes"`
	Edges     []Route      `json:"edges"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Direction Direction    `json:"direction"`
	Ranks     [][]string   `json:"ranks"` // Final left-to-right order per rank
}

// Position returns the placed node with the given ID.
func (r *Result) Position(id string) (PlacedNode, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// Route returns the route of the edge with the given ID.
func (r *Result) Route(id string) (Route, bool) {
	for _, e := range r.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Route{}, false
}

// Positions returns the top-left corner of every node keyed by ID.
func (r *Result) Positions() map[string]Point {
	m := make(map[string]Point, len(r.Nodes))
	for _, n := range r.Nodes {
		m[n.ID] = Point{X: n.X, Y: n.Y}
	}
	return m
}

type config struct {
	spacing   placement.Spacing
	rankAlign transform.Align
	orderer   ordering.Orderer
}

// Option configures a layout.
type Option func(*config)

// WithDirection sets the axis along which ranks stack.
func WithDirection(d Direction) Option { return func(c *config) { c.spacing.Direction = d } }

// WithSpacing sets the gap between neighbours in a rank and between ranks.
func WithSpacing(nodeSep, rankSep float64) Option {
	return func(c *config) { c.spacing.NodeSep, c.spacing.RankSep = nodeSep, rankSep }
}

// WithAlign sets how ranks line up on the cross axis.
func WithAlign(a Align) Option { return func(c *config) { c.spacing.Align = a } }

// WithRankAlign selects which end of the graph ranking is anchored to.
func WithRankAlign(a transform.Align) Option { return func(c *config) { c.rankAlign = a } }

// WithOrderer replaces the crossing-reduction step. A nil orderer restores the
// default.
func WithOrderer(o ordering.Orderer) Option { return func(c *config) { c.orderer = o } }

// WithMargin adds padding on every side of the drawing.
func WithMargin(m float64) Option { return func(c *config) { c.spacing.Margin = m } }

func newConfig(opts []Option) (*config, error) {
	c := &config{
		spacing: placement.Spacing{NodeSep: DefaultNodeSep, RankSep: DefaultRankSep},
		orderer: ordering.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.orderer == nil {
		c.orderer = ordering.Default()
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *config) validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"node separation", c.spacing.NodeSep},
		{"rank separation", c.spacing.RankSep},
		{"margin", c.spacing.Margin},
	} {
		if v.value < 0 || math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &dag.ValidationError{Err: dag.ErrInvalidOption, Detail: fmt.Sprintf("%s %v", v.name, v.value)}
		}
	}
	if !c.spacing.Direction.Valid() {
		return &dag.ValidationError{Err: dag.ErrInvalidOption, Detail: c.spacing.Direction.String()}
	}
	if c.spacing.Align != AlignCenter && c.spacing.Align != AlignStart {
		return &dag.ValidationError{Err: dag.ErrInvalidOption, Detail: c.spacing.Align.String()}
	}
	if c.rankAlign != transform.AlignTop && c.rankAlign != transform.AlignBottom {
		return &dag.ValidationError{Err: dag.ErrInvalidOption, Detail: c.rankAlign.String()}
	}
	return nil
}

// Build validates nodes and edges and lays them out.
//
// It fails with a *[dag.ValidationError] for malformed input or options and a
// *[dag.CycleError] for cyclic dependencies; no partial result is returned.
// Sizes and spacing that are each finite but overflow float64 once summed
// along a rank are rejected as well.
// Build has no side effects, and identical input always produces an
// identical Result.
func Build(nodes []dag.Node, edges []dag.Edge, opts ...Option) (*Result, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	g, err := dag.Build(nodes, edges)
	if err != nil {
		return nil, err
	}
	return c.run(g)
}

// Compute lays out a graph that has already been built.
func Compute(g *dag.DAG, opts ...Option) (*Result, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return c.run(g)
}

func (c *config) run(g *dag.DAG) (*Result, error) {
	ranks := transform.AssignRanks(g, c.rankAlign)
	order := c.orderer.Order(g, ranks)
	placed := placement.Place(g, ranks, order, c.spacing)
	if !placed.Finite() {
		return nil, overflowError(g, order)
	}
	return &Result{
		Nodes:     placed.Nodes,
		Edges:     placed.Edges,
		Width:     placed.Width,
		Height:    placed.Height,
		Direction: c.spacing.Direction,
		Ranks:     order,
	}, nil
}

// overflowError blames the node sizes when they alone overflow, either across
// one rank or stacked over all ranks, and the spacing options otherwise.
func overflowError(g *dag.DAG, order [][]string) error {
	var across, along [2]float64 // [0] widths, [1] heights
	for _, ids := range order {
		var rank, deepest [2]float64
		for _, id := range ids {
			n, _ := g.Node(id)
			rank[0] += n.Width
			rank[1] += n.Height
			deepest[0] = math.Max(deepest[0], n.Width)
			deepest[1] = math.Max(deepest[1], n.Height)
			if math.IsInf(rank[0], 0) || math.IsInf(rank[1], 0) {
				return &dag.ValidationError{Err: dag.ErrInvalidNodeSize, Node: id, Detail: "rank extent overflows"}
			}
		}
		for i := range across {
			across[i] = math.Max(across[i], rank[i])
			along[i] += deepest[i]
		}
	}
	for i := range along {
		if math.IsInf(across[i], 0) || math.IsInf(along[i], 0) {
			return &dag.ValidationError{Err: dag.ErrInvalidNodeSize, Detail: "drawing extent overflows"}
		}
	}
	return &dag.ValidationError{Err: dag.ErrInvalidOption, Detail: "spacing overflows the drawing extent"}
}
