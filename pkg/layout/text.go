package layout

import "github.com/clipperviz/clipper/pkg/graph"

// Label sizing uses a fixed per-character width model instead of real font
// metrics. Real metrics would tie layout geometry to a font file version;
// the estimate keeps node boxes deterministic across backends and still
// tracks label length closely enough for padding purposes.
const (
	fontCharWidth = 0.55

	nodePadX = 14.0
	nodePadY = 10.0

	minNodeW = 54.0
	minNodeH = 30.0

	// Ellipses and diamonds inscribe the label, so the box grows to keep
	// the text inside the shape outline.
	ellipseInflate = 1.18
	diamondInflate = 1.45
)

// EstimateTextWidth returns the estimated rendered width of s at the given
// font size, in points.
func EstimateTextWidth(s string, fontSize float64) float64 {
	n := len([]rune(s))
	return float64(n) * fontSize * fontCharWidth
}

// NodeSize computes the bounding box for a node. Explicit size hints win;
// otherwise the box derives from the display label and font size, inflated
// for non-rectangular shapes.
func NodeSize(n graph.Node, fontSize float64) (w, h float64) {
	w = EstimateTextWidth(n.DisplayLabel(), fontSize) + 2*nodePadX
	h = fontSize + 2*nodePadY

	switch n.Shape {
	case graph.ShapeEllipse:
		w *= ellipseInflate
		h *= ellipseInflate
	case graph.ShapeDiamond:
		w *= diamondInflate
		h *= diamondInflate
	}

	if w < minNodeW {
		w = minNodeW
	}
	if h < minNodeH {
		h = minNodeH
	}

	if n.Width > 0 {
		w = n.Width
	}
	if n.Height > 0 {
		h = n.Height
	}
	return w, h
}
