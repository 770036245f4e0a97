package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iloginov/tasker/pkg/layout"
)

// LayoutVersion is the current version of the [LayoutDoc] format.
const LayoutVersion = 1

// =============================================================================
// LayoutDoc - Layout Export Format
// =============================================================================

// LayoutDoc is the exported form of a computed layout, as written by the CLI
// and returned by the HTTP API.
//
// Node positions are top-left corners in a coordinate space whose origin is
// the top-left of the drawing; x grows rightwards and y downwards.
type LayoutDoc struct {
	Version   int              `json:"version"`
	GraphHash string           `json:"graph_hash,omitempty"`
	Direction layout.Direction `json:"direction"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Nodes     []Block          `json:"nodes"`
	Edges     []layout.Route   `json:"edges"`
	Ranks     [][]string       `json:"ranks"`
}

// Block is a positioned node in a [LayoutDoc].
type Block struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rank   int     `json:"rank"`
	Order  int     `json:"order"`
}

// Export converts a layout into its document form. Labels that equal the
// node ID are omitted; labels may be nil.
func Export(r *layout.Result, graphHash string, labels map[string]string) LayoutDoc {
	doc := LayoutDoc{
		Version:   LayoutVersion,
		GraphHash: graphHash,
		Direction: r.Direction,
		Width:     r.Width,
		Height:    r.Height,
		Nodes:     make([]Block, len(r.Nodes)),
		Edges:     r.Edges,
		Ranks:     r.Ranks,
	}
	for i, n := range r.Nodes {
		b := Block{ID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height, Rank: n.Rank, Order: n.Order}
		if l := labels[n.ID]; l != n.ID {
			b.Label = l
		}
		doc.Nodes[i] = b
	}
	if doc.Edges == nil {
		doc.Edges = []layout.Route{}
	}
	return doc
}

// Positions returns the top-left corner of every block keyed by ID.
func (d *LayoutDoc) Positions() map[string]layout.Point {
	m := make(map[string]layout.Point, len(d.Nodes))
	for _, b := range d.Nodes {
		m[b.ID] = layout.Point{X: b.X, Y: b.Y}
	}
	return m
}

// Block returns the block with the given ID.
func (d *LayoutDoc) Block(id string) (Block, bool) {
	for _, b := range d.Nodes {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalLayout encodes a layout document as indented JSON.
func MarshalLayout(doc LayoutDoc) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalLayout decodes a layout document.
func UnmarshalLayout(data []byte) (LayoutDoc, error) {
	var doc LayoutDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return LayoutDoc{}, err
	}
	if doc.Version != LayoutVersion {
		return LayoutDoc{}, fmt.Errorf("unsupported layout version %d", doc.Version)
	}
	return doc, nil
}

// WriteLayoutFile writes a layout document to path.
func WriteLayoutFile(doc LayoutDoc, path string) error {
	data, err := MarshalLayout(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
