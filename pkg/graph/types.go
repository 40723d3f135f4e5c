package graph

// =============================================================================
// Enumerations
// =============================================================================

// ShapeKind identifies the outline drawn for a node.
type ShapeKind string

// Supported node shapes. An empty ShapeKind on a node means "use the
// default" and resolves to [ShapeRect].
const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
	ShapeDiamond ShapeKind = "diamond"
)

// Valid reports whether s is a supported shape kind. The empty value is
// valid and means "default".
func (s ShapeKind) Valid() bool {
	switch s {
	case "", ShapeRect, ShapeEllipse, ShapeDiamond:
		return true
	}
	return false
}

// ArrowKind identifies the arrowhead drawn at the target end of a directed
// edge.
type ArrowKind string

// Supported arrowheads. An empty ArrowKind on a directed edge resolves to
// [ArrowNormal]; undirected edges never draw arrowheads.
const (
	ArrowNone   ArrowKind = "none"
	ArrowNormal ArrowKind = "normal"
	ArrowOpen   ArrowKind = "open"
)

// Valid reports whether a is a supported arrow kind. The empty value is
// valid and means "default".
func (a ArrowKind) Valid() bool {
	switch a {
	case "", ArrowNone, ArrowNormal, ArrowOpen:
		return true
	}
	return false
}

// =============================================================================
// Visual Attributes
// =============================================================================

// NodeStyle holds per-node visual attributes. Empty fields fall back to the
// style defaults at paint time.
type NodeStyle struct {
	Fill        string  `json:"fill,omitempty" bson:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty" bson:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty" bson:"stroke_width,omitempty"`
}

// EdgeStyle holds per-edge visual attributes. Empty fields fall back to the
// style defaults at paint time.
type EdgeStyle struct {
	Color string    `json:"color,omitempty" bson:"color,omitempty"`
	Width float64   `json:"width,omitempty" bson:"width,omitempty"`
	Dash  []float64 `json:"dash,omitempty" bson:"dash,omitempty"`
	Arrow ArrowKind `json:"arrow,omitempty" bson:"arrow,omitempty"`
}

// =============================================================================
// Graph Elements
// =============================================================================

// Node is a single graph vertex with its visual attributes.
//
// Width and Height are size hints in points; zero means the node is sized
// automatically from its label.
type Node struct {
	ID     string    `json:"id" bson:"id"`
	Label  string    `json:"label,omitempty" bson:"label,omitempty"`
	Shape  ShapeKind `json:"shape,omitempty" bson:"shape,omitempty"`
	Width  float64   `json:"width,omitempty" bson:"width,omitempty"`
	Height float64   `json:"height,omitempty" bson:"height,omitempty"`
	Style  NodeStyle `json:"style,omitempty" bson:"style,omitempty"`
}

// DisplayLabel returns the text painted inside the node: the label when
// present, the ID otherwise.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge connects two nodes by ID. Source and Target must both exist in the
// graph; self-edges (Source == Target) are allowed and drawn as loops.
type Edge struct {
	Source   string    `json:"source" bson:"source"`
	Target   string    `json:"target" bson:"target"`
	Directed bool      `json:"directed,omitempty" bson:"directed,omitempty"`
	Label    string    `json:"label,omitempty" bson:"label,omitempty"`
	Style    EdgeStyle `json:"style,omitempty" bson:"style,omitempty"`
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }
