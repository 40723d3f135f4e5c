package layout

import (
	"math"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

const (
	selfLoopMinExtent = 24.0
	curveBow          = 0.15
)

// routeEdges computes a path for every edge from the final node placements.
// Paths run source to target and start/end on the node box boundary so
// arrowheads sit against the node outline instead of under it.
func routeEdges(edges []graph.Edge, l *Layout, routing string) []EdgePath {
	paths := make([]EdgePath, len(edges))
	for i, e := range edges {
		src, _ := l.Placement(e.Source)
		dst, _ := l.Placement(e.Target)

		if e.IsSelfLoop() {
			paths[i] = selfLoopPath(src)
			continue
		}

		switch routing {
		case style.RoutingOrthogonal:
			paths[i] = orthogonalPath(src, dst)
		case style.RoutingCurved:
			paths[i] = curvedPath(src, dst)
		default:
			paths[i] = straightPath(src, dst)
		}
	}
	return paths
}

func straightPath(src, dst NodePlacement) EdgePath {
	a := boxAnchor(src, dst.Center())
	b := boxAnchor(dst, src.Center())
	return EdgePath{Points: []Point{a, b}}
}

// curvedPath bows the edge sideways by a fraction of its length. The bow
// side is a fixed function of direction, so reversed edges bow apart
// instead of overlapping.
func curvedPath(src, dst NodePlacement) EdgePath {
	a := boxAnchor(src, dst.Center())
	b := boxAnchor(dst, src.Center())

	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return EdgePath{Points: []Point{a, b}}
	}

	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	ctrl := Point{
		X: mid.X + dy/dist*curveBow*dist,
		Y: mid.Y - dx/dist*curveBow*dist,
	}
	return EdgePath{Points: []Point{a, ctrl, b}, Curved: true}
}

// orthogonalPath routes with axis-aligned segments, vertical-first when the
// vertical distance dominates.
func orthogonalPath(src, dst NodePlacement) EdgePath {
	scx, scy := src.CenterX(), src.CenterY()
	tcx, tcy := dst.CenterX(), dst.CenterY()

	dx, dy := tcx-scx, tcy-scy
	if math.Abs(dy) >= math.Abs(dx) {
		// Vertical-dominant: leave the source top/bottom, enter the target
		// top/bottom, jog horizontally halfway between.
		var sy, ty float64
		if dy >= 0 {
			sy, ty = src.Y+src.H, dst.Y
		} else {
			sy, ty = src.Y, dst.Y+dst.H
		}
		if scx == tcx {
			return EdgePath{Points: []Point{{X: scx, Y: sy}, {X: tcx, Y: ty}}}
		}
		midY := (sy + ty) / 2
		return EdgePath{Points: []Point{
			{X: scx, Y: sy},
			{X: scx, Y: midY},
			{X: tcx, Y: midY},
			{X: tcx, Y: ty},
		}}
	}

	// Horizontal-dominant: leave and enter through the side faces.
	var sx, tx float64
	if dx >= 0 {
		sx, tx = src.X+src.W, dst.X
	} else {
		sx, tx = src.X, dst.X+dst.W
	}
	if scy == tcy {
		return EdgePath{Points: []Point{{X: sx, Y: scy}, {X: tx, Y: tcy}}}
	}
	midX := (sx + tx) / 2
	return EdgePath{Points: []Point{
		{X: sx, Y: scy},
		{X: midX, Y: scy},
		{X: midX, Y: tcy},
		{X: tx, Y: tcy},
	}}
}

// selfLoopPath draws a loop bulging out of the node's right face.
func selfLoopPath(p NodePlacement) EdgePath {
	ext := p.H * 0.6
	if ext < selfLoopMinExtent {
		ext = selfLoopMinExtent
	}
	right := p.X + p.W
	cy := p.CenterY()
	return EdgePath{
		Points: []Point{
			{X: right, Y: cy - p.H/4},
			{X: right + ext, Y: cy - p.H/2},
			{X: right + ext, Y: cy + p.H/2},
			{X: right, Y: cy + p.H/4},
		},
		Curved: true,
	}
}

// boxAnchor returns the point where the segment from the box center toward
// `toward` crosses the box boundary. Falls back to the center when the
// target coincides with it.
func boxAnchor(p NodePlacement, toward Point) Point {
	cx, cy := p.CenterX(), p.CenterY()
	dx, dy := toward.X-cx, toward.Y-cy
	if dx == 0 && dy == 0 {
		return Point{X: cx, Y: cy}
	}

	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, (p.W/2)/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, (p.H/2)/math.Abs(dy))
	}
	return Point{X: cx + dx*t, Y: cy + dy*t}
}
