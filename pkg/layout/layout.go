package layout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

// Sentinel errors for layout computation.
var (
	// ErrUnknownEngine is returned by [New] for unrecognized engine names.
	ErrUnknownEngine = errors.New("unknown layout engine")

	// ErrLayoutTimeout is returned when the iteration budget is cut short by
	// context cancellation or deadline. Only the force-directed engine can
	// produce it; hierarchical layout is bounded.
	ErrLayoutTimeout = errors.New("layout timed out")
)

// Point is a 2D coordinate in layout space (points, y grows downward).
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodePlacement is the computed geometry for one node: the top-left corner
// of its bounding box plus the box dimensions.
type NodePlacement struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
	W  float64 `json:"w" bson:"w"`
	H  float64 `json:"h" bson:"h"`
}

// CenterX returns the horizontal center of the bounding box.
func (p NodePlacement) CenterX() float64 { return p.X + p.W/2 }

// CenterY returns the vertical center of the bounding box.
func (p NodePlacement) CenterY() float64 { return p.Y + p.H/2 }

// Center returns the center point of the bounding box.
func (p NodePlacement) Center() Point { return Point{X: p.CenterX(), Y: p.CenterY()} }

// EdgePath is the routed geometry for one edge: an ordered sequence of
// points from source to target. When Curved is set the points are control
// points of a smooth curve rather than polyline vertices.
type EdgePath struct {
	Points []Point `json:"points" bson:"points"`
	Curved bool    `json:"curved,omitempty" bson:"curved,omitempty"`
}

// Start returns the first path point.
func (e EdgePath) Start() Point { return e.Points[0] }

// End returns the last path point.
func (e EdgePath) End() Point { return e.Points[len(e.Points)-1] }

// Layout is the read-only result of one layout computation. Nodes and Edges
// parallel the graph's insertion order. Width and Height describe the full
// drawing extent including the margin baked in by the engine.
type Layout struct {
	Nodes  []NodePlacement
	Edges  []EdgePath
	Width  float64
	Height float64

	byID map[string]int
}

// Placement returns the computed geometry for the given node ID.
func (l *Layout) Placement(id string) (NodePlacement, bool) {
	i, ok := l.byID[id]
	if !ok {
		return NodePlacement{}, false
	}
	return l.Nodes[i], true
}

// indexPlacements rebuilds the ID index after Nodes is populated.
func (l *Layout) indexPlacements() {
	l.byID = make(map[string]int, len(l.Nodes))
	for i, p := range l.Nodes {
		l.byID[p.ID] = i
	}
}

// Options carries the layout-relevant slice of the render style plus the
// deterministic seed. The render pipeline builds it; see
// [render.Pipeline].
type Options struct {
	NodeSpacing float64
	RankSpacing float64
	Margin      float64
	EdgeRouting string
	FontSize    float64
	Iterations  int
	Seed        uint64
}

// withDefaults fills zero-value fields so engines can be driven directly
// without going through a normalized [style.Style]. A zero Margin means the
// default; pass a normalized style through the render pipeline to control
// it explicitly.
func (o Options) withDefaults() Options {
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = style.DefaultNodeSpacing
	}
	if o.RankSpacing <= 0 {
		o.RankSpacing = style.DefaultRankSpacing
	}
	if o.Margin <= 0 {
		o.Margin = style.DefaultMargin
	}
	if o.FontSize <= 0 {
		o.FontSize = style.DefaultFontSize
	}
	if o.Iterations <= 0 {
		o.Iterations = style.DefaultIterations
	}
	if o.EdgeRouting == "" {
		o.EdgeRouting = style.RoutingStraight
	}
	return o
}

// finishLayout shifts all geometry so the top-left extent sits at the margin
// and records the overall drawing size. Edge routes can poke outside the node
// boxes (self loops, curve bows), so bounds derive from both.
func finishLayout(l *Layout, margin float64) {
	if len(l.Nodes) == 0 {
		l.Width, l.Height = 2*margin, 2*margin
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, p := range l.Nodes {
		grow(p.X, p.Y)
		grow(p.X+p.W, p.Y+p.H)
	}
	for _, e := range l.Edges {
		for _, pt := range e.Points {
			grow(pt.X, pt.Y)
		}
	}

	dx, dy := margin-minX, margin-minY
	for i := range l.Nodes {
		l.Nodes[i].X += dx
		l.Nodes[i].Y += dy
	}
	for i := range l.Edges {
		for j := range l.Edges[i].Points {
			l.Edges[i].Points[j].X += dx
			l.Edges[i].Points[j].Y += dy
		}
	}
	l.Width = maxX - minX + 2*margin
	l.Height = maxY - minY + 2*margin
}

// Engine computes node and edge geometry for a graph. Implementations must
// be deterministic for identical inputs and safe for concurrent use.
type Engine interface {
	// Name returns the engine's configuration name.
	Name() string

	// Layout computes geometry for g. The context bounds force-directed
	// iteration; hierarchical layout ignores it.
	Layout(ctx context.Context, g *graph.Graph, opts Options) (*Layout, error)
}

// New returns the engine registered under the given configuration name.
func New(name string) (Engine, error) {
	switch name {
	case style.EngineHierarchical:
		return Hierarchical{}, nil
	case style.EngineForce:
		return Force{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// Engines returns the names of all registered engines.
func Engines() []string {
	return []string{style.EngineHierarchical, style.EngineForce}
}
