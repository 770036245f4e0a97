package dag_test

import (
	"errors"
	"fmt"

	"github.com/iloginov/tasker/pkg/dag"
)

func ExampleBuild() {
	// design -> build -> ship, with test depending on build as well
	nodes := []dag.Node{
		{ID: "design", Width: 200, Height: 100},
		{ID: "build", Width: 200, Height: 100},
		{ID: "test", Width: 200, Height: 120},
		{ID: "ship", Width: 200, Height: 100},
	}
	edges := []dag.Edge{
		{From: "design", To: "build"},
		{From: "build", To: "test"},
		{From: "build", To: "ship"},
		{From: "test", To: "ship"},
	}

	g, err := dag.Build(nodes, edges)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Sources:", g.Sources())
	fmt.Println("Children of build:", g.Children("build"))
	fmt.Println("Order:", g.TopologicalOrder())
	// Output:
	// Sources: [design]
	// Children of build: [test ship]
	// Order: [design build test ship]
}

func ExampleCycleError() {
	nodes := []dag.Node{
		{ID: "A", Width: 1, Height: 1},
		{ID: "B", Width: 1, Height: 1},
		{ID: "C", Width: 1, Height: 1},
	}
	_, err := dag.Build(nodes, []dag.Edge{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "A"},
	})

	var ce *dag.CycleError
	if errors.As(err, &ce) {
		fmt.Println("Cycle:", ce.Nodes)
	}
	fmt.Println(err)
	// Output:
	// Cycle: [A B C]
	// graph contains a cycle: A -> B -> C -> A
}

func ExampleDAG_CheckEdge() {
	nodes := []dag.Node{
		{ID: "plan", Width: 1, Height: 1},
		{ID: "impl", Width: 1, Height: 1},
	}
	g, _ := dag.Build(nodes, []dag.Edge{{From: "plan", To: "impl"}})

	fmt.Println(g.CheckEdge(dag.Edge{From: "impl", To: "plan"}))
	// Output:
	// graph contains a cycle: impl -> plan -> impl
}
