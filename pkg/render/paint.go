package render

import (
	"math"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/layout"
	"github.com/clipperviz/clipper/pkg/style"
	"github.com/clipperviz/clipper/pkg/surface"
)

// Painting constants, in points unless noted.
const (
	// baselineShift centers a text line vertically on its anchor, as a
	// fraction of the font size.
	baselineShift = 0.35

	// arrowLength is the base arrowhead length before stroke scaling.
	arrowLength = 6.0

	// arrowFlare is the arrowhead half-width as a fraction of its length.
	arrowFlare = 0.45

	// edgeLabelGap lifts edge labels off the edge line.
	edgeLabelGap = 4.0
)

// paint draws a laid-out graph onto a surface. Order is fixed: all edges
// first in insertion order, then all nodes in insertion order, so nodes
// always sit on top of the lines connecting them.
func paint(surf surface.Surface, g *graph.Graph, l *layout.Layout, st style.Style) {
	edges := g.Edges()
	for i, e := range edges {
		if i < len(l.Edges) {
			paintEdge(surf, e, l.Edges[i], st)
		}
	}
	for _, n := range g.Nodes() {
		if p, ok := l.Placement(n.ID); ok {
			paintNode(surf, n, p, st)
		}
	}
}

// =============================================================================
// Edges
// =============================================================================

func paintEdge(surf surface.Surface, e graph.Edge, path layout.EdgePath, st style.Style) {
	if len(path.Points) < 2 {
		return
	}

	stroke := surface.Stroke{
		Color: e.Style.Color,
		Width: e.Style.Width,
		Dash:  e.Style.Dash,
	}
	if stroke.Color == "" {
		stroke.Color = style.DefaultEdgeColor
	}
	if stroke.Width <= 0 {
		stroke.Width = style.DefaultEdgeWidth
	}

	surf.DrawPath(edgePath(path), stroke)

	if kind := resolveArrow(e); kind != graph.ArrowNone {
		paintArrow(surf, path, kind, stroke)
	}

	if e.Label != "" {
		x, y := edgeLabelAnchor(path)
		surf.DrawText(x, y-edgeLabelGap, e.Label, surface.TextStyle{
			Color:  style.DefaultTextColor,
			Size:   st.FontSize,
			Family: st.FontFamily,
			Anchor: surface.AnchorMiddle,
		})
	}
}

// edgePath converts routed edge geometry into a drawable path. Curved
// routes carry control points: three for a quadratic bend, four for a cubic
// self loop. Everything else is a polyline through its vertices.
func edgePath(p layout.EdgePath) *surface.Path {
	pts := p.Points
	path := surface.NewPath()
	path.MoveTo(pts[0].X, pts[0].Y)
	switch {
	case p.Curved && len(pts) == 3:
		path.QuadTo(pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
	case p.Curved && len(pts) == 4:
		path.CubicTo(pts[1].X, pts[1].Y, pts[2].X, pts[2].Y, pts[3].X, pts[3].Y)
	default:
		for _, pt := range pts[1:] {
			path.LineTo(pt.X, pt.Y)
		}
	}
	return path
}

// resolveArrow returns the arrowhead kind for an edge. Undirected edges
// never carry one; directed edges default to the filled kind.
func resolveArrow(e graph.Edge) graph.ArrowKind {
	if !e.Directed {
		return graph.ArrowNone
	}
	if e.Style.Arrow == "" {
		return graph.ArrowNormal
	}
	return e.Style.Arrow
}

// paintArrow draws an arrowhead at the edge's target end, oriented along
// the final path segment. For curved routes the last point before the end
// is a control point, which is exactly the curve's end tangent direction.
func paintArrow(surf surface.Surface, path layout.EdgePath, kind graph.ArrowKind, stroke surface.Stroke) {
	pts := path.Points
	tip := pts[len(pts)-1]
	from := pts[len(pts)-2]

	dx, dy := tip.X-from.X, tip.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	ux, uy := dx/dist, dy/dist

	size := arrowLength + 2*stroke.Width
	baseX, baseY := tip.X-ux*size, tip.Y-uy*size
	flare := size * arrowFlare
	leftX, leftY := baseX-uy*flare, baseY+ux*flare
	rightX, rightY := baseX+uy*flare, baseY-ux*flare

	switch kind {
	case graph.ArrowOpen:
		p := surface.NewPath()
		p.MoveTo(leftX, leftY)
		p.LineTo(tip.X, tip.Y)
		p.LineTo(rightX, rightY)
		surf.DrawPath(p, surface.Stroke{Color: stroke.Color, Width: stroke.Width})
	default:
		p := surface.NewPath()
		p.MoveTo(tip.X, tip.Y)
		p.LineTo(leftX, leftY)
		p.LineTo(rightX, rightY)
		p.Close()
		surf.FillPath(p, surface.Fill{Color: stroke.Color})
	}
}

// edgeLabelAnchor picks the label position for a routed edge: the curve
// midpoint for curved routes, otherwise the midpoint of the middle
// polyline segment.
func edgeLabelAnchor(p layout.EdgePath) (x, y float64) {
	pts := p.Points
	switch {
	case p.Curved && len(pts) == 3:
		// Quadratic point at t = 0.5.
		x = (pts[0].X + 2*pts[1].X + pts[2].X) / 4
		y = (pts[0].Y + 2*pts[1].Y + pts[2].Y) / 4
	case p.Curved && len(pts) == 4:
		// Cubic point at t = 0.5.
		x = (pts[0].X + 3*pts[1].X + 3*pts[2].X + pts[3].X) / 8
		y = (pts[0].Y + 3*pts[1].Y + 3*pts[2].Y + pts[3].Y) / 8
	default:
		i := (len(pts) - 1) / 2
		a, b := pts[i], pts[i+1]
		x, y = (a.X+b.X)/2, (a.Y+b.Y)/2
	}
	return x, y
}

// =============================================================================
// Nodes
// =============================================================================

func paintNode(surf surface.Surface, n graph.Node, p layout.NodePlacement, st style.Style) {
	fill := surface.Fill{Color: n.Style.Fill}
	if fill.Color == "" {
		fill.Color = style.DefaultNodeFill
	}
	stroke := surface.Stroke{
		Color: n.Style.Stroke,
		Width: n.Style.StrokeWidth,
	}
	if stroke.Color == "" {
		stroke.Color = style.DefaultNodeStroke
	}
	if stroke.Width <= 0 {
		stroke.Width = style.DefaultNodeStrokeWidth
	}

	surf.StrokeShape(nodeOutline(n.Shape, p), fill, stroke)

	label := n.DisplayLabel()
	if label == "" {
		return
	}
	surf.DrawText(p.CenterX(), p.CenterY()+st.FontSize*baselineShift, label, surface.TextStyle{
		Color:  style.DefaultTextColor,
		Size:   st.FontSize,
		Family: st.FontFamily,
		Anchor: surface.AnchorMiddle,
	})
}

// nodeOutline returns the closed outline path for a node shape. The empty
// shape kind resolves to a rectangle.
func nodeOutline(shape graph.ShapeKind, p layout.NodePlacement) *surface.Path {
	switch shape {
	case graph.ShapeEllipse:
		return surface.Ellipse(p.CenterX(), p.CenterY(), p.W/2, p.H/2)
	case graph.ShapeDiamond:
		return surface.Diamond(p.CenterX(), p.CenterY(), p.W/2, p.H/2)
	default:
		return surface.Rect(p.X, p.Y, p.W, p.H)
	}
}
