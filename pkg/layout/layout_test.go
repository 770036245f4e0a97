package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/iloginov/tasker/pkg/dag"
	"github.com/iloginov/tasker/pkg/dag/transform"
	"github.com/iloginov/tasker/pkg/layout/ordering"
)

func tasks(ids ...string) []dag.Node {
	nodes := make([]dag.Node, len(ids))
	for i, id := range ids {
		nodes[i] = dag.Node{ID: id, Width: 200, Height: 100}
	}
	return nodes
}

func links(pairs ...string) []dag.Edge {
	edges := make([]dag.Edge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		edges = append(edges, dag.Edge{From: pairs[i], To: pairs[i+1]})
	}
	return edges
}

// project is a small release plan with a long edge and an unlinked task.
func project() ([]dag.Node, []dag.Edge) {
	nodes := tasks("plan", "api", "ui", "db", "tests", "docs", "release", "retro")
	nodes[2].Height = 160
	nodes[5].Width = 320
	edges := links(
		"plan", "api",
		"plan", "ui",
		"api", "db",
		"db", "tests",
		"ui", "tests",
		"plan", "docs",
		"tests", "release",
		"docs", "release",
	)
	return nodes, edges
}

func mustBuild(t *testing.T, nodes []dag.Node, edges []dag.Edge, opts ...Option) *Result {
	t.Helper()
	res, err := Build(nodes, edges, opts...)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return res
}

func position(t *testing.T, res *Result, id string) PlacedNode {
	t.Helper()
	n, ok := res.Position(id)
	if !ok {
		t.Fatalf("Position(%q) not found", id)
	}
	return n
}

func overlaps(a, b PlacedNode) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func TestBuild_EdgesFlowOneWay(t *testing.T) {
	nodes, edges := project()

	for _, dir := range []Direction{TopToBottom, LeftToRight, BottomToTop, RightToLeft} {
		t.Run(dir.String(), func(t *testing.T) {
			res := mustBuild(t, nodes, edges, WithDirection(dir))
			for _, e := range edges {
				s, d := position(t, res, e.From), position(t, res, e.To)
				var ok bool
				switch dir {
				case TopToBottom:
					ok = s.Y+s.Height <= d.Y
				case BottomToTop:
					ok = d.Y+d.Height <= s.Y
				case LeftToRight:
					ok = s.X+s.Width <= d.X
				case RightToLeft:
					ok = d.X+d.Width <= s.X
				}
				if !ok {
					t.Errorf("edge %s -> %s does not flow %s: %+v, %+v", e.From, e.To, dir, s, d)
				}
				if s.Rank >= d.Rank {
					t.Errorf("edge %s -> %s has ranks %d -> %d", e.From, e.To, s.Rank, d.Rank)
				}
			}
		})
	}
}

func TestBuild_NoOverlap(t *testing.T) {
	nodes, edges := project()
	const nodeSep = 40

	for _, dir := range []Direction{TopToBottom, LeftToRight} {
		t.Run(dir.String(), func(t *testing.T) {
			res := mustBuild(t, nodes, edges, WithDirection(dir), WithSpacing(nodeSep, 60))
			for i, a := range res.Nodes {
				for _, b := range res.Nodes[i+1:] {
					if overlaps(a, b) {
						t.Errorf("%s overlaps %s", a.ID, b.ID)
					}
				}
			}
			for _, rank := range res.Ranks {
				for i := 0; i+1 < len(rank); i++ {
					a, b := position(t, res, rank[i]), position(t, res, rank[i+1])
					gap := b.X - (a.X + a.Width)
					if dir == LeftToRight {
						gap = b.Y - (a.Y + a.Height)
					}
					if gap < nodeSep {
						t.Errorf("gap between %s and %s = %v, want >= %d", a.ID, b.ID, gap, nodeSep)
					}
				}
			}
		})
	}
}

func TestBuild_WideRanks(t *testing.T) {
	const n = 3000
	nodes := make([]dag.Node, 0, 2*n)
	edges := make([]dag.Edge, 0, 2*n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, tasks(fmt.Sprintf("t%d", i), fmt.Sprintf("b%d", i))...)
		edges = append(edges, links(
			fmt.Sprintf("t%d", i), fmt.Sprintf("b%d", i),
			fmt.Sprintf("t%d", i), fmt.Sprintf("b%d", (7*i+3)%n),
		)...)
	}

	const nodeSep = 20
	res := mustBuild(t, nodes, edges, WithSpacing(nodeSep, 60))
	if len(res.Ranks) != 2 || len(res.Ranks[0]) != n || len(res.Ranks[1]) != n {
		t.Fatalf("rank sizes = %d ranks, want 2 ranks of %d", len(res.Ranks), n)
	}

	byID := make(map[string]PlacedNode, len(res.Nodes))
	for _, p := range res.Nodes {
		byID[p.ID] = p
	}
	for r, rank := range res.Ranks {
		for i := 0; i+1 < len(rank); i++ {
			a, b := byID[rank[i]], byID[rank[i+1]]
			if a.Rank != r || b.Rank != r {
				t.Fatalf("%s or %s not on rank %d", a.ID, b.ID, r)
			}
			if gap := b.X - (a.X + a.Width); gap < nodeSep {
				t.Fatalf("gap between %s and %s = %v, want >= %d", a.ID, b.ID, gap, nodeSep)
			}
		}
	}
	for _, e := range edges {
		if byID[e.From].Y+byID[e.From].Height >= byID[e.To].Y {
			t.Fatalf("edge %s -> %s does not point down", e.From, e.To)
		}
	}
	if want := float64(n*200 + (n-1)*nodeSep); res.Width != want {
		t.Errorf("Width = %v, want %v", res.Width, want)
	}

	cyclic := append(slices.Clone(edges), dag.Edge{From: "b42", To: "t42"})
	res, err := Build(nodes, cyclic)
	if res != nil {
		t.Error("Build() returned a partial result")
	}
	var ce *dag.CycleError
	if !errors.As(err, &ce) || len(ce.Nodes) != 2 {
		t.Errorf("Build() error = %v, want a two-node *CycleError", err)
	}
}

func TestBuild_DeterministicJSON(t *testing.T) {
	nodes, edges := project()

	var first []byte
	for i := 0; i < 10; i++ {
		res := mustBuild(t, nodes, edges)
		data, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("json.Marshal() error: %v", err)
		}
		if first == nil {
			first = data
			continue
		}
		if !bytes.Equal(data, first) {
			t.Fatalf("run %d produced different JSON:\n%s\nvs\n%s", i, data, first)
		}
	}
}

func TestBuild_RejectsCycle(t *testing.T) {
	res, err := Build(tasks("A", "B", "C"), links("A", "B", "B", "C", "C", "A"))
	if res != nil {
		t.Error("Build() returned a partial result")
	}
	if !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Fatalf("Build() error = %v, want ErrGraphHasCycle", err)
	}
	var ce *dag.CycleError
	if !errors.As(err, &ce) || !slices.Equal(ce.Nodes, []string{"A", "B", "C"}) {
		t.Errorf("CycleError = %v, want [A B C]", err)
	}
}

func TestBuild_SingleNodeAtOrigin(t *testing.T) {
	res := mustBuild(t, tasks("only"), nil)
	n := position(t, res, "only")
	if n.X != 0 || n.Y != 0 {
		t.Errorf("position = (%v, %v), want (0, 0)", n.X, n.Y)
	}
	if res.Width != 200 || res.Height != 100 {
		t.Errorf("size = %vx%v, want 200x100", res.Width, res.Height)
	}

	res = mustBuild(t, tasks("only"), nil, WithMargin(50))
	if n := position(t, res, "only"); n.X != 50 || n.Y != 50 {
		t.Errorf("with margin position = (%v, %v), want (50, 50)", n.X, n.Y)
	}
}

func TestBuild_DisconnectedComponents(t *testing.T) {
	nodes := tasks("a1", "a2", "b1", "b2", "lone")
	res := mustBuild(t, nodes, links("a1", "a2", "b1", "b2"))

	if len(res.Nodes) != len(nodes) {
		t.Fatalf("placed %d nodes, want %d", len(res.Nodes), len(nodes))
	}
	for i, a := range res.Nodes {
		if a.ID != nodes[i].ID {
			t.Errorf("Nodes[%d] = %s, want input order %s", i, a.ID, nodes[i].ID)
		}
		for _, b := range res.Nodes[i+1:] {
			if overlaps(a, b) {
				t.Errorf("%s overlaps %s", a.ID, b.ID)
			}
		}
	}
	if !reflect.DeepEqual(res.Ranks, [][]string{{"a1", "b1", "lone"}, {"a2", "b2"}}) {
		t.Errorf("Ranks = %v", res.Ranks)
	}
}

func TestBuild_TallNodeShiftsLaterRanks(t *testing.T) {
	const extra = 55
	nodes := tasks("root", "left", "right", "leaf")
	edges := links("root", "left", "root", "right", "left", "leaf")
	base := mustBuild(t, nodes, edges)

	nodes[0].Height += extra
	tall := mustBuild(t, nodes, edges)

	for _, n := range base.Nodes {
		m := position(t, tall, n.ID)
		want := n.Y
		if n.Rank > 0 {
			want += extra
		}
		if m.Y != want || m.X != n.X {
			t.Errorf("%s moved to (%v, %v), want (%v, %v)", n.ID, m.X, m.Y, n.X, want)
		}
	}
	if tall.Height != base.Height+extra {
		t.Errorf("Height = %v, want %v", tall.Height, base.Height+extra)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	nodes, edges := project()
	first := mustBuild(t, nodes, edges)

	// Re-laying out the placed boxes reproduces the same layout.
	again := make([]dag.Node, len(first.Nodes))
	for i, n := range first.Nodes {
		again[i] = dag.Node{ID: n.ID, Width: n.Width, Height: n.Height}
	}
	second := mustBuild(t, again, edges)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second layout differs:\n%+v\nvs\n%+v", second, first)
	}

	g, err := dag.Build(nodes, edges)
	if err != nil {
		t.Fatalf("dag.Build() error: %v", err)
	}
	computed, err := Compute(g)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if !reflect.DeepEqual(first, computed) {
		t.Error("Compute() differs from Build()")
	}
}

func TestBuild_DefaultSpacing(t *testing.T) {
	res := mustBuild(t, tasks("a", "b", "c"), links("a", "b", "a", "c"))
	b, c := position(t, res, "b"), position(t, res, "c")
	if c.X-(b.X+b.Width) != DefaultNodeSep {
		t.Errorf("node gap = %v, want %v", c.X-(b.X+b.Width), DefaultNodeSep)
	}
	a := position(t, res, "a")
	if b.Y-(a.Y+a.Height) != DefaultRankSep {
		t.Errorf("rank gap = %v, want %v", b.Y-(a.Y+a.Height), DefaultRankSep)
	}
	if want := (b.X + c.X + c.Width) / 2; a.X+a.Width/2 != want {
		t.Errorf("root centre = %v, want %v", a.X+a.Width/2, want)
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative node sep", WithSpacing(-1, 10)},
		{"nan rank sep", WithSpacing(10, math.NaN())},
		{"infinite margin", WithMargin(math.Inf(1))},
		{"unknown direction", WithDirection(Direction(7))},
		{"unknown align", WithAlign(Align(3))},
		{"unknown rank align", WithRankAlign(transform.Align(5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(tasks("a"), nil, tt.opt)
			if res != nil {
				t.Error("Build() returned a result")
			}
			var ve *dag.ValidationError
			if !errors.As(err, &ve) || !errors.Is(err, dag.ErrInvalidOption) {
				t.Errorf("Build() error = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	_, err := Build(tasks("a"), links("a", "ghost"))
	if !errors.Is(err, dag.ErrUnknownTargetNode) {
		t.Errorf("Build() error = %v, want ErrUnknownTargetNode", err)
	}
}

func TestBuild_RejectsOverflowingExtents(t *testing.T) {
	huge := func(w, h float64, ids ...string) []dag.Node {
		nodes := make([]dag.Node, len(ids))
		for i, id := range ids {
			nodes[i] = dag.Node{ID: id, Width: w, Height: h}
		}
		return nodes
	}

	tests := []struct {
		name  string
		nodes []dag.Node
		edges []dag.Edge
		opts  []Option
		want  error
	}{
		{"wide rank", huge(1e308, 100, "a", "b"), nil, nil, dag.ErrInvalidNodeSize},
		{"tall rank sideways", huge(100, 1e308, "a", "b"), nil, []Option{WithDirection(LeftToRight)}, dag.ErrInvalidNodeSize},
		{"deep chain", huge(100, 1e308, "a", "b"), links("a", "b"), nil, dag.ErrInvalidNodeSize},
		{"deep chain upwards", huge(100, 1e308, "a", "b"), links("a", "b"), []Option{WithDirection(BottomToTop)}, dag.ErrInvalidNodeSize},
		{"node separation", tasks("a", "b", "c"), nil, []Option{WithSpacing(1e308, 100)}, dag.ErrInvalidOption},
		{"margin", tasks("a"), nil, []Option{WithMargin(math.MaxFloat64)}, dag.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(tt.nodes, tt.edges, tt.opts...)
			if res != nil {
				t.Errorf("Build() returned a result: width=%v height=%v", res.Width, res.Height)
			}
			var ve *dag.ValidationError
			if !errors.As(err, &ve) || !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}

			g, err := dag.Build(tt.nodes, tt.edges)
			if err != nil {
				t.Fatalf("dag.Build() error: %v", err)
			}
			if _, err := Compute(g, tt.opts...); !errors.Is(err, tt.want) {
				t.Errorf("Compute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuild_LargeFiniteExtents(t *testing.T) {
	res := mustBuild(t, []dag.Node{{ID: "a", Width: 1e307, Height: 1e307}, {ID: "b", Width: 1e307, Height: 1e307}}, links("a", "b"))
	if math.IsInf(res.Width, 0) || math.IsInf(res.Height, 0) || math.IsNaN(res.Width) || math.IsNaN(res.Height) {
		t.Errorf("size = %v x %v, want finite", res.Width, res.Height)
	}
}

func TestBuild_Orderers(t *testing.T) {
	nodes, edges := project()
	for _, o := range []ordering.Orderer{nil, ordering.Stable{}, ordering.Preset(ordering.QualityThorough)} {
		t.Run(fmt.Sprintf("%T", o), func(t *testing.T) {
			res := mustBuild(t, nodes, edges, WithOrderer(o), WithRankAlign(transform.AlignBottom))
			if len(res.Nodes) != len(nodes) || len(res.Edges) != len(edges) {
				t.Errorf("placed %d nodes and %d edges", len(res.Nodes), len(res.Edges))
			}
		})
	}
}

func TestResult_Lookups(t *testing.T) {
	edges := links("a", "b")
	edges[0].Kind = dag.EdgeKindSmoothStep
	res := mustBuild(t, tasks("a", "b"), edges)

	r, ok := res.Route("ea-b")
	if !ok {
		t.Fatal("Route(ea-b) not found")
	}
	if r.Kind != dag.EdgeKindSmoothStep || r.From != "a" || r.To != "b" {
		t.Errorf("Route = %+v", r)
	}
	if _, ok := res.Route("missing"); ok {
		t.Error("Route(missing) found")
	}

	pos := res.Positions()
	if len(pos) != 2 || pos["b"].Y != 200 {
		t.Errorf("Positions() = %v", pos)
	}
}
