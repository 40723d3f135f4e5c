package preview

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/clipperviz/clipper/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Rankdir sets the Graphviz layout direction: "TB", "LR", "BT", or
	// "RL". Empty means top to bottom.
	Rankdir string

	// Detailed appends node IDs and shapes to labels, for inspecting
	// descriptions whose labels hide the underlying identifiers.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format. The resulting source can
// be rendered with [RenderSVG] or [RenderPNG], or fed to external Graphviz
// tooling.
//
// Undirected edges are emitted with dir=none so Graphviz suppresses the
// arrowhead; dashed edge styles and per-element colors carry over.
func ToDOT(g *graph.Graph, opts Options) string {
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if attrs := edgeAttrs(e); len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}

	parts := []string{n.DisplayLabel(), "id: " + n.ID}
	if n.Shape != "" {
		parts = append(parts, "shape: "+string(n.Shape))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n graph.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, detailed))}
	switch n.Shape {
	case graph.ShapeEllipse:
		attrs = append(attrs, "shape=ellipse")
	case graph.ShapeDiamond:
		attrs = append(attrs, "shape=diamond")
	}
	if n.Style.Fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Style.Fill))
	}
	if n.Style.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", n.Style.Stroke))
	}
	return attrs
}

func edgeAttrs(e graph.Edge) []string {
	var attrs []string
	if !e.Directed {
		attrs = append(attrs, "dir=none")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Style.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Style.Color))
	}
	if len(e.Style.Dash) > 0 {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the in-process Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using the in-process Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG root element so the viewBox
// starts at the origin, which keeps preview output consistent with the
// pipeline's own SVG envelope.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
