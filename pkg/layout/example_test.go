package layout_test

import (
	"errors"
	"fmt"

	"github.com/iloginov/tasker/pkg/dag"
	"github.com/iloginov/tasker/pkg/layout"
)

func ExampleBuild() {
	nodes := []dag.Node{
		{ID: "design", Width: 200, Height: 100},
		{ID: "backend", Width: 200, Height: 140},
		{ID: "frontend", Width: 200, Height: 100},
		{ID: "launch", Width: 200, Height: 100},
	}
	edges := []dag.Edge{
		{From: "design", To: "backend"},
		{From: "design", To: "frontend"},
		{From: "backend", To: "launch"},
		{From: "frontend", To: "launch"},
	}

	res, err := layout.Build(nodes, edges)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range res.Nodes {
		fmt.Printf("%-8s rank %d  (%g, %g)\n", n.ID, n.Rank, n.X, n.Y)
	}
	fmt.Printf("size %gx%g\n", res.Width, res.Height)
	// Output:
	// design   rank 0  (150, 0)
	// backend  rank 1  (0, 200)
	// frontend rank 1  (300, 220)
	// launch   rank 2  (150, 440)
	// size 500x540
}

func ExampleBuild_leftToRight() {
	nodes := []dag.Node{
		{ID: "a", Width: 120, Height: 60},
		{ID: "b", Width: 120, Height: 60},
	}
	res, _ := layout.Build(nodes, []dag.Edge{{From: "a", To: "b"}},
		layout.WithDirection(layout.LeftToRight),
		layout.WithSpacing(50, 80),
		layout.WithMargin(10),
	)

	r, _ := res.Route("ea-b")
	fmt.Println("a:", res.Positions()["a"])
	fmt.Println("b:", res.Positions()["b"])
	fmt.Println("route:", r.Points)
	// Output:
	// a: {10 10}
	// b: {210 10}
	// route: [{130 40} {210 40}]
}

func ExampleBuild_cycle() {
	nodes := []dag.Node{
		{ID: "A", Width: 1, Height: 1},
		{ID: "B", Width: 1, Height: 1},
		{ID: "C", Width: 1, Height: 1},
	}
	_, err := layout.Build(nodes, []dag.Edge{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "A"},
	})
	fmt.Println(errors.Is(err, dag.ErrGraphHasCycle))
	fmt.Println(err)
	// Output:
	// true
	// graph contains a cycle: A -> B -> C -> A
}
