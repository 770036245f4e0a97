// Package pkg provides the core libraries for tasker task graph layout.
//
// # Overview
//
// tasker turns a project's tasks and their depends-on links into a layered
// drawing: every prerequisite sits on an earlier rank than the tasks that
// wait for it, ranks are ordered to reduce crossing arrows, and every task
// gets a non-overlapping position. The pkg directory is organized into three
// areas:
//
//  1. Engine - graph model, ranking, ordering and placement
//  2. Pipeline - caching, rendering and error mapping around the engine
//  3. Serialization - graph documents and exported layouts
//
// # Architecture
//
// The typical data flow:
//
//	Graph document (JSON/YAML, HTTP body)
//	         ↓
//	    [graph] package (parse, size tasks)
//	         ↓
//	    [dag] package (validate, reject cycles)
//	         ↓
//	    [layout] package (rank → order → place)
//	         ↓
//	    [pipeline] package (cache, render JSON/DOT/SVG)
//
// # Quick Start
//
// Lay out a small graph:
//
//	nodes := []dag.Node{
//	    {ID: "design", Width: 200, Height: 100},
//	    {ID: "build", Width: 200, Height: 120},
//	}
//	edges := []dag.Edge{{From: "design", To: "build"}}
//	res, err := layout.Build(nodes, edges, layout.WithDirection(layout.LeftToRight))
//
// # Main Packages
//
// ## Engine
//
// [dag] - Validated task graph with virtual nodes for long edges, cycle
// checks for proposed dependencies and crossing counts.
//
// [dag/transform] - Longest-path ranking anchored at the sources or sinks,
// plus subdivision of edges that span several ranks.
//
// [layout] - The complete layout pipeline behind functional options.
// [layout/ordering] holds the barycentric sweeps; [layout/placement] turns
// ranks into coordinates for any of the four directions.
//
// ## Pipeline
//
// [pipeline] - Options shared by the CLI and HTTP API, a cached Runner and
// artifact rendering.
//
// [cache] - File, Redis and MongoDB caches behind one interface, with
// project-scoped keys.
//
// [errors] - Coded errors that map engine failures to user-facing messages.
//
// [observability] - Hook registries for layout, cache and HTTP events.
//
// [config] - TOML configuration and environment overrides.
//
// ## Serialization
//
// [graph] - Graph documents and the exported layout format.
//
// [tasks] - Task and dependency records and card sizing.
//
// [render/dot] - Graphviz DOT and SVG previews with pinned positions.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/layout/   # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [dag]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/layout
// [layout/ordering]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/layout/ordering
// [layout/placement]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/layout/placement
// [pipeline]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/cache
// [errors]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/errors
// [observability]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/observability
// [config]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/config
// [graph]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/graph
// [tasks]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/tasks
// [render/dot]: https://pkg.go.dev/github.com/iloginov/tasker/pkg/render/dot
package pkg
