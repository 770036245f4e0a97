package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/iloginov/tasker/pkg/layout"
)

// pointsPerInch converts layout units, treated as points, into the inches
// Graphviz uses for node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Labels maps node IDs to display text. Missing entries show the ID.
	Labels map[string]string

	// Detailed appends rank and order to each label.
	Detailed bool
}

// ToDOT converts a computed layout to Graphviz DOT with every node pinned to
// its layout position. Graphviz flips the y axis, so positions are mirrored
// against the drawing height.
func ToDOT(r *layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range r.Nodes {
		c := n.Center()
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(c.X), fmtFloat(r.Height-c.Y)),
			fmt.Sprintf("width=%s", fmtFloat(n.Width/pointsPerInch)),
			fmt.Sprintf("height=%s", fmtFloat(n.Height/pointsPerInch)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range r.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [id=%q, class=%q];\n", e.From, e.To, e.ID, e.Kind.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n layout.PlacedNode, opts Options) string {
	label := n.ID
	if l, ok := opts.Labels[n.ID]; ok && l != "" {
		label = l
	}
	if opts.Detailed {
		label += fmt.Sprintf("\nrank: %d\norder: %d", n.Rank, n.Order)
	}
	return label
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT produced by [ToDOT] to SVG. The neato engine is used
// so pinned positions are kept as given.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag, which sizes the drawing in
// points, with one whose width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
