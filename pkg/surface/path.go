package surface

// pathOp discriminates path segments.
type pathOp uint8

const (
	opMoveTo pathOp = iota
	opLineTo
	opQuadTo
	opCubicTo
	opClose
)

// pathSeg is one command plus up to three coordinate pairs.
type pathSeg struct {
	op  pathOp
	pts [6]float64
}

// Path is an ordered sequence of move, line, and curve commands shared by
// all surface backends. The zero value is an empty path.
type Path struct {
	segs []pathSeg
}

// NewPath returns an empty path.
func NewPath() *Path { return &Path{} }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, pathSeg{op: opMoveTo, pts: [6]float64{x, y}})
}

// LineTo extends the current subpath with a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, pathSeg{op: opLineTo, pts: [6]float64{x, y}})
}

// QuadTo extends the current subpath with a quadratic curve through control
// point (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.segs = append(p.segs, pathSeg{op: opQuadTo, pts: [6]float64{cx, cy, x, y}})
}

// CubicTo extends the current subpath with a cubic curve through control
// points (c1x, c1y) and (c2x, c2y) to (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.segs = append(p.segs, pathSeg{op: opCubicTo, pts: [6]float64{c1x, c1y, c2x, c2y, x, y}})
}

// Close closes the current subpath back to its starting point.
func (p *Path) Close() {
	p.segs = append(p.segs, pathSeg{op: opClose})
}

// Empty reports whether the path contains no commands.
func (p *Path) Empty() bool { return len(p.segs) == 0 }

// kappa approximates a quarter circle with one cubic segment.
const kappa = 0.5522847498307936

// Rect returns a closed rectangular path.
func Rect(x, y, w, h float64) *Path {
	p := NewPath()
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// Ellipse returns a closed elliptical path centered at (cx, cy) built from
// four cubic arcs.
func Ellipse(cx, cy, rx, ry float64) *Path {
	ox, oy := rx*kappa, ry*kappa
	p := NewPath()
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
	return p
}

// Diamond returns a closed rhombus path centered at (cx, cy) with the given
// half extents.
func Diamond(cx, cy, rx, ry float64) *Path {
	p := NewPath()
	p.MoveTo(cx, cy-ry)
	p.LineTo(cx+rx, cy)
	p.LineTo(cx, cy+ry)
	p.LineTo(cx-rx, cy)
	p.Close()
	return p
}

// Polyline returns an open path through the given points. Fewer than two
// points yield an empty path.
func Polyline(pts ...[2]float64) *Path {
	p := NewPath()
	if len(pts) < 2 {
		return p
	}
	p.MoveTo(pts[0][0], pts[0][1])
	for _, pt := range pts[1:] {
		p.LineTo(pt[0], pt[1])
	}
	return p
}
