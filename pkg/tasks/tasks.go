// Package tasks converts project task records into layout engine input.
//
// A project is a set of [Task] records linked by [Dependency] records. The
// layout engine needs box sizes and directed edges; [Sizer] derives a box from
// a task's description and [Snapshot] produces both slices in one call:
//
//	nodes, edges := tasks.Snapshot(list, deps, tasks.DefaultSizer())
//	result, err := layout.Build(nodes, edges)
package tasks

import (
	"strings"

	"github.com/iloginov/tasker/pkg/dag"
)

// Task is a unit of work in a project.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"` // Hierarchy only; not a layout edge
}

// Dependency records that DependentTaskID cannot start before SourceTaskID.
type Dependency struct {
	SourceTaskID    string       `json:"source_task_id" yaml:"source_task_id"`
	DependentTaskID string       `json:"dependent_task_id" yaml:"dependent_task_id"`
	Kind            dag.EdgeKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Edge returns the layout edge for d: from the prerequisite to the
// dependent. The ID is left empty so [dag.Build] assigns a unique default.
func (d Dependency) Edge() dag.Edge {
	return dag.Edge{
		From: d.SourceTaskID,
		To:   d.DependentTaskID,
		Kind: d.Kind,
	}
}

// Default card geometry.
const (
	DefaultWidth      = 200.0
	DefaultBaseHeight = 100.0
	DefaultLineHeight = 20.0
)

// Sizer estimates the box of a task card. Each description line adds
// LineHeight to BaseHeight; MaxHeight caps the result when positive.
type Sizer struct {
	Width      float64
	BaseHeight float64
	LineHeight float64
	MaxHeight  float64
}

// DefaultSizer returns a 200-wide card that grows 20 per description line
// from a base of 100, uncapped.
func DefaultSizer() Sizer {
	return Sizer{Width: DefaultWidth, BaseHeight: DefaultBaseHeight, LineHeight: DefaultLineHeight}
}

// Lines counts the newline-separated lines of a description. An empty
// description has none.
func Lines(description string) int {
	if description == "" {
		return 0
	}
	return strings.Count(description, "\n") + 1
}

// Height returns the card height for a description.
func (s Sizer) Height(description string) float64 {
	h := max(s.BaseHeight+float64(Lines(description))*s.LineHeight, s.BaseHeight)
	if s.MaxHeight > 0 {
		h = min(h, s.MaxHeight)
	}
	return h
}

// Node returns the layout node for t.
func (s Sizer) Node(t Task) dag.Node {
	return dag.Node{ID: t.ID, Width: s.Width, Height: s.Height(t.Description)}
}

// Nodes sizes every task, preserving order.
func Nodes(list []Task, s Sizer) []dag.Node {
	out := make([]dag.Node, len(list))
	for i, t := range list {
		out[i] = s.Node(t)
	}
	return out
}

// Edges converts dependency records, preserving order.
func Edges(deps []Dependency) []dag.Edge {
	out := make([]dag.Edge, len(deps))
	for i, d := range deps {
		out[i] = d.Edge()
	}
	return out
}

// Snapshot returns the engine input for a project.
func Snapshot(list []Task, deps []Dependency, s Sizer) ([]dag.Node, []dag.Edge) {
	return Nodes(list, s), Edges(deps)
}
