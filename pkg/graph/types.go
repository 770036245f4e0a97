package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iloginov/tasker/pkg/dag"
	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/tasks"
)

// Document is the file and wire format for a graph snapshot. It accepts two
// shapes that may be mixed in one document:
//
//   - Nodes and Edges: boxes with explicit sizes, as the engine sees them
//   - Tasks and Dependencies: project records sized by a [tasks.Sizer]
type Document struct {
	Nodes        []Node             `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges        []Edge             `json:"edges,omitempty" yaml:"edges,omitempty"`
	Tasks        []tasks.Task       `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Dependencies []tasks.Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Node is a box in a document. A zero Width or Height is filled in by the
// sizer, using Description for the height.
type Node struct {
	ID          string  `json:"id" yaml:"id"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Width       float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height      float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed dependency in a document.
type Edge struct {
	ID   string       `json:"id,omitempty" yaml:"id,omitempty"`
	From string       `json:"from" yaml:"from"`
	To   string       `json:"to" yaml:"to"`
	Kind dag.EdgeKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Input converts the document into engine input: Nodes then Tasks, Edges then
// Dependencies, each in document order.
func (d *Document) Input(s tasks.Sizer) ([]dag.Node, []dag.Edge) {
	nodes := make([]dag.Node, 0, len(d.Nodes)+len(d.Tasks))
	for _, n := range d.Nodes {
		dn := dag.Node{ID: n.ID, Width: n.Width, Height: n.Height}
		if dn.Width == 0 {
			dn.Width = s.Width
		}
		if dn.Height == 0 {
			dn.Height = s.Height(n.Description)
		}
		nodes = append(nodes, dn)
	}
	nodes = append(nodes, tasks.Nodes(d.Tasks, s)...)

	edges := make([]dag.Edge, 0, len(d.Edges)+len(d.Dependencies))
	for _, e := range d.Edges {
		edges = append(edges, dag.Edge{ID: e.ID, From: e.From, To: e.To, Kind: e.Kind})
	}
	edges = append(edges, tasks.Edges(d.Dependencies)...)
	return nodes, edges
}

// Labels maps node IDs to display labels: a node's Label or a task's Title,
// falling back to the ID.
func (d *Document) Labels() map[string]string {
	labels := make(map[string]string, len(d.Nodes)+len(d.Tasks))
	for _, n := range d.Nodes {
		labels[n.ID] = n.DisplayLabel()
	}
	for _, t := range d.Tasks {
		if t.Title != "" {
			labels[t.ID] = t.Title
		} else {
			labels[t.ID] = t.ID
		}
	}
	return labels
}

// Validate checks identifiers before the document reaches the engine, which
// enforces the structural rules. It returns an INVALID_ID error.
func (d *Document) Validate() error {
	for _, n := range d.Nodes {
		if err := terrors.ValidateID("node", n.ID); err != nil {
			return err
		}
	}
	for _, t := range d.Tasks {
		if err := terrors.ValidateID("task", t.ID); err != nil {
			return err
		}
	}
	for _, e := range d.Edges {
		if e.ID == "" {
			continue
		}
		if err := terrors.ValidateID("edge", e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns a content hash of engine input. Equal inputs in equal order
// hash equally, so the hash is usable as a cache key component.
func Hash(nodes []dag.Node, edges []dag.Edge) string {
	type hashNode struct {
		ID string  `json:"i"`
		W  float64 `json:"w"`
		H  float64 `json:"h"`
	}
	type hashEdge struct {
		ID   string `json:"i"`
		From string `json:"f"`
		To   string `json:"t"`
		Kind int    `json:"k"`
	}
	payload := struct {
		Nodes []hashNode `json:"n"`
		Edges []hashEdge `json:"e"`
	}{
		Nodes: make([]hashNode, len(nodes)),
		Edges: make([]hashEdge, len(edges)),
	}
	for i, n := range nodes {
		payload.Nodes[i] = hashNode{n.ID, n.Width, n.Height}
	}
	for i, e := range edges {
		payload.Edges[i] = hashEdge{e.ID, e.From, e.To, int(e.Kind)}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// NaN and Inf sizes have no JSON encoding.
		data = fmt.Appendf(nil, "%v%v", nodes, edges)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
