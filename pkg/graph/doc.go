// Package graph provides the file and wire formats for graph snapshots and
// computed layouts.
//
// # Graph Documents
//
// A [Document] is read from JSON or YAML. It carries either sized boxes,
// project task records, or both:
//
//	{
//	  "nodes": [{"id": "design", "width": 200, "height": 100}],
//	  "tasks": [{"id": "build", "title": "Build", "description": "api\nui"}],
//	  "edges": [{"from": "design", "to": "build", "kind": "smoothstep"}],
//	  "dependencies": [{"source_task_id": "build", "dependent_task_id": "ship"}]
//	}
//
// [Document.Input] turns it into engine input, sizing anything without an
// explicit size with a [tasks.Sizer]:
//
//	doc, _ := graph.ReadFile("roadmap.yaml")
//	nodes, edges := doc.Input(tasks.DefaultSizer())
//	res, err := layout.Build(nodes, edges)
//
// # Layout Documents
//
// [Export] wraps a [layout.Result] into a versioned [LayoutDoc] that also
// records the [Hash] of the input it was computed from.
//
// # Errors
//
// Decode failures carry the INVALID_FORMAT code and bad identifiers the
// INVALID_ID code from pkg/errors. Structural problems such as unknown edge
// endpoints are left to the engine.
package graph
