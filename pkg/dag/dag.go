package dag

import (
	"errors"
	"math"
	"slices"
	"strconv"
)

var (
	// ErrInvalidNodeID is returned by [Build] when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Build] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidNodeSize is returned by [Build] when a node's width or height
	// is zero, negative, NaN or infinite.
	ErrInvalidNodeSize = errors.New("node width and height must be positive and finite")

	// ErrUnknownSourceNode is returned when an edge's From node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned when an edge's To node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfEdge is returned for edges whose source and target are the same node.
	ErrSelfEdge = errors.New("edge source and target must differ")

	// ErrDuplicateEdge is returned when the same (From, To) pair appears twice.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrDuplicateEdgeID is returned when two edges share an ID.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrInvalidOption is returned by layout code for out-of-range settings
	// (negative spacing, unknown direction). It is reported as a
	// [ValidationError] because it is fixed the same way: by the caller.
	ErrInvalidOption = errors.New("invalid layout option")

	// ErrGraphHasCycle is the sentinel every [CycleError] unwraps to.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Node is a task box to be laid out. Width and Height are inputs; nothing in
// this module derives them once a node reaches the graph.
type Node struct {
	ID     string  // Unique, stable across layout calls
	Width  float64 // Extent along the x axis, > 0
	Height float64 // Extent along the y axis, > 0
}

// Edge is a directed dependency: From is laid out before To and the arrow is
// drawn from From to To.
type Edge struct {
	ID   string   // Defaults to DefaultEdgeID(From, To) when empty, plus "#n" if taken
	From string   // Prerequisite node ID
	To   string   // Dependent node ID
	Kind EdgeKind // Rendering hint, passed through untouched
}

// DefaultEdgeID returns the identifier given to edges built without one.
// [Build] appends "#2", "#3" and so on when an earlier edge already uses it.
func DefaultEdgeID(from, to string) string {
	return "e" + from + "-" + to
}

type edgeKey struct{ from, to string }

// DAG is an immutable, validated directed acyclic graph.
//
// The zero value is not usable - use [Build]. A built DAG is never modified,
// so it is safe for concurrent reads.
type DAG struct {
	nodes    []Node
	index    map[string]int
	edges    []Edge
	edgeIDs  map[string]int
	pairs    map[edgeKey]struct{}
	outgoing map[string][]string // nodeID -> children in edge order
	incoming map[string][]string // nodeID -> parents in edge order
	topo     []string
}

// Build validates nodes and edges and returns the resulting graph.
//
// Malformed input yields a *[ValidationError] naming the first offending node
// or edge in input order; a cyclic edge set yields a *[CycleError]. Neither
// input slice is retained or modified.
//
// Validation and cycle detection run in O(V+E).
func Build(nodes []Node, edges []Edge) (*DAG, error) {
	g := &DAG{
		nodes:    make([]Node, 0, len(nodes)),
		index:    make(map[string]int, len(nodes)),
		edges:    make([]Edge, 0, len(edges)),
		edgeIDs:  make(map[string]int, len(edges)),
		pairs:    make(map[edgeKey]struct{}, len(edges)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
	for _, n := range nodes {
		if err := g.addNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.addEdge(e); err != nil {
			return nil, err
		}
	}
	topo, err := g.sortTopologically()
	if err != nil {
		return nil, err
	}
	g.topo = topo
	return g, nil
}

func (g *DAG) addNode(n Node) error {
	if n.ID == "" {
		return &ValidationError{Err: ErrInvalidNodeID}
	}
	if _, exists := g.index[n.ID]; exists {
		return &ValidationError{Err: ErrDuplicateNodeID, Node: n.ID}
	}
	if !validExtent(n.Width) || !validExtent(n.Height) {
		return &ValidationError{Err: ErrInvalidNodeSize, Node: n.ID}
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

func validExtent(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (g *DAG) addEdge(e Edge) error {
	if e.ID == "" {
		e.ID = g.defaultEdgeID(e.From, e.To)
	}
	if err := g.validateEdge(e); err != nil {
		return err
	}
	g.edgeIDs[e.ID] = len(g.edges)
	g.edges = append(g.edges, e)
	g.pairs[edgeKey{e.From, e.To}] = struct{}{}
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// defaultEdgeID returns DefaultEdgeID(from, to), or the first free
// "#n" variant of it when another edge already holds that ID. IDs like
// "a-b" make the plain form ambiguous: a->b-c and a-b->c both give "ea-b-c".
func (g *DAG) defaultEdgeID(from, to string) string {
	id := DefaultEdgeID(from, to)
	if _, taken := g.edgeIDs[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		cand := id + "#" + strconv.Itoa(n)
		if _, taken := g.edgeIDs[cand]; !taken {
			return cand
		}
	}
}

func (g *DAG) validateEdge(e Edge) error {
	if _, ok := g.index[e.From]; !ok {
		return &ValidationError{Err: ErrUnknownSourceNode, Node: e.From, Edge: e.ID}
	}
	if _, ok := g.index[e.To]; !ok {
		return &ValidationError{Err: ErrUnknownTargetNode, Node: e.To, Edge: e.ID}
	}
	if e.From == e.To {
		return &ValidationError{Err: ErrSelfEdge, Node: e.From, Edge: e.ID}
	}
	if g.HasEdge(e.From, e.To) {
		return &ValidationError{Err: ErrDuplicateEdge, Edge: e.ID}
	}
	if _, exists := g.edgeIDs[e.ID]; exists {
		return &ValidationError{Err: ErrDuplicateEdgeID, Edge: e.ID}
	}
	return nil
}

// sortTopologically runs an iterative depth-first search with white/gray/black
// colouring. Gray marks nodes on the current path, so meeting a gray child is
// a back-edge. Roots are taken in input order and children in edge order,
// which makes the returned order (reverse post-order) deterministic.
func (g *DAG) sortTopologically() ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int // index of the next child to visit
	}

	color := make([]uint8, len(g.nodes))
	post := make([]string, 0, len(g.nodes))
	var stack []frame

	for _, root := range g.nodes {
		if color[g.index[root.ID]] != white {
			continue
		}
		color[g.index[root.ID]] = gray
		stack = append(stack[:0], frame{id: root.ID})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.outgoing[top.id]
			if top.next < len(children) {
				child := children[top.next]
				top.next++
				switch color[g.index[child]] {
				case white:
					color[g.index[child]] = gray
					stack = append(stack, frame{id: child})
				case gray:
					cycle := []string{}
					for i := len(stack) - 1; i >= 0; i-- {
						cycle = append(cycle, stack[i].id)
						if stack[i].id == child {
							break
						}
					}
					slices.Reverse(cycle)
					return nil, &CycleError{Nodes: cycle}
				}
				continue
			}
			color[g.index[top.id]] = black
			post = append(post, top.id)
			stack = stack[:len(stack)-1]
		}
	}

	slices.Reverse(post)
	return post, nil
}

// CheckEdge reports whether e could be added to the graph.
//
// It returns the same *[ValidationError] [Build] would return for e, or a
// *[CycleError] when e would close a cycle. In that case Nodes starts with
// e.From, followed by the existing path e.To -> ... leading back to it.
// The graph itself is never modified.
func (g *DAG) CheckEdge(e Edge) error {
	if e.ID == "" {
		e.ID = g.defaultEdgeID(e.From, e.To)
	}
	if err := g.validateEdge(e); err != nil {
		return err
	}
	path := g.path(e.To, e.From)
	if path == nil {
		return nil
	}
	return &CycleError{Nodes: append([]string{e.From}, path[:len(path)-1]...)}
}

// path returns a shortest directed path from -> ... -> to, or nil.
func (g *DAG) path(from, to string) []string {
	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if curr == to {
			var p []string
			for n := to; n != from; n = prev[n] {
				p = append(p, n)
			}
			p = append(p, from)
			slices.Reverse(p)
			return p
		}
		for _, child := range g.outgoing[curr] {
			if _, seen := prev[child]; !seen {
				prev[child] = curr
				queue = append(queue, child)
			}
		}
	}
	return nil
}

// Reachable reports whether a directed path leads from one node to another.
// A node reaches itself.
func (g *DAG) Reachable(from, to string) bool {
	return g.path(from, to) != nil
}

// Nodes returns a copy of all nodes in input order.
func (g *DAG) Nodes() []Node { return slices.Clone(g.nodes) }

// Node returns the node with the given ID and true, or the zero Node and false.
func (g *DAG) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Index returns the input position of a node, or -1 if it does not exist.
func (g *DAG) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Edges returns a copy of all edges in input order, with default IDs filled in.
func (g *DAG) Edges() []Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given ID and true, or the zero Edge and false.
func (g *DAG) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIDs[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// HasEdge reports whether the edge from -> to exists.
func (g *DAG) HasEdge(from, to string) bool {
	_, ok := g.pairs[edgeKey{from, to}]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *DAG) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *DAG) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of nodes this node has edges to, in edge order.
// The returned slice must not be modified.
func (g *DAG) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of nodes with edges to this node, in edge order.
// The returned slice must not be modified.
func (g *DAG) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *DAG) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *DAG) InDegree(id string) int { return len(g.incoming[id]) }

// Sources returns the IDs of nodes without incoming edges, in input order.
func (g *DAG) Sources() []string {
	var ids []string
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Sinks returns the IDs of nodes without outgoing edges, in input order.
func (g *DAG) Sinks() []string {
	var ids []string
	for _, n := range g.nodes {
		if len(g.outgoing[n.ID]) == 0 {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// TopologicalOrder returns node IDs such that every edge points forward.
// The order is fixed at build time and depends only on input order.
func (g *DAG) TopologicalOrder() []string { return slices.Clone(g.topo) }

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node, preserving order.
func NodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
