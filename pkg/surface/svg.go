package surface

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// SVG is the vector backend. Elements append to an internal buffer as they
// are drawn; Encode wraps them in the document envelope.
type SVG struct {
	width  float64
	height float64
	body   bytes.Buffer
}

// NewSVG returns an SVG surface with a width x height point canvas. A
// non-empty background paints an opening full-canvas rect.
func NewSVG(width, height float64, background string) *SVG {
	s := &SVG{width: width, height: height}
	if background != "" {
		fmt.Fprintf(&s.body, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", background)
	}
	return s
}

// DrawPath strokes the path. Zero-width or colorless strokes draw nothing.
func (s *SVG) DrawPath(p *Path, stroke Stroke) {
	if p.Empty() || stroke.Width <= 0 || stroke.Color == "" {
		return
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none"%s/>`+"\n", pathData(p), strokeAttrs(stroke))
}

// FillPath fills the path without stroking it.
func (s *SVG) FillPath(p *Path, fill Fill) {
	if p.Empty() || fill.Color == "" {
		return
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="%s" stroke="none"/>`+"\n", pathData(p), fill.Color)
}

// StrokeShape fills and strokes the outline in one element.
func (s *SVG) StrokeShape(p *Path, fill Fill, stroke Stroke) {
	if p.Empty() {
		return
	}
	fillValue := "none"
	if fill.Color != "" {
		fillValue = fill.Color
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="%s"%s/>`+"\n", pathData(p), fillValue, strokeAttrs(stroke))
}

// DrawText emits a text element with its baseline at (x, y).
func (s *SVG) DrawText(x, y float64, text string, ts TextStyle) {
	if text == "" {
		return
	}
	fmt.Fprintf(&s.body, `  <text x="%.2f" y="%.2f"`, x, y)
	if ts.Family != "" {
		fmt.Fprintf(&s.body, ` font-family="%s"`, xmlEscaper.Replace(ts.Family))
	}
	if ts.Size > 0 {
		fmt.Fprintf(&s.body, ` font-size="%.2f"`, ts.Size)
	}
	if ts.Color != "" {
		fmt.Fprintf(&s.body, ` fill="%s"`, ts.Color)
	}
	if ts.Anchor != "" && ts.Anchor != AnchorStart {
		fmt.Fprintf(&s.body, ` text-anchor="%s"`, ts.Anchor)
	}
	s.body.WriteString(">")
	s.body.WriteString(xmlEscaper.Replace(text))
	s.body.WriteString("</text>\n")
}

// Encode writes the SVG document.
func (s *SVG) Encode(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// ContentType returns the SVG MIME type.
func (s *SVG) ContentType() string { return "image/svg+xml" }

func pathData(p *Path) string {
	var b strings.Builder
	for i, seg := range p.segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch seg.op {
		case opMoveTo:
			fmt.Fprintf(&b, "M %.2f %.2f", seg.pts[0], seg.pts[1])
		case opLineTo:
			fmt.Fprintf(&b, "L %.2f %.2f", seg.pts[0], seg.pts[1])
		case opQuadTo:
			fmt.Fprintf(&b, "Q %.2f %.2f %.2f %.2f", seg.pts[0], seg.pts[1], seg.pts[2], seg.pts[3])
		case opCubicTo:
			fmt.Fprintf(&b, "C %.2f %.2f %.2f %.2f %.2f %.2f",
				seg.pts[0], seg.pts[1], seg.pts[2], seg.pts[3], seg.pts[4], seg.pts[5])
		case opClose:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func strokeAttrs(st Stroke) string {
	if st.Width <= 0 || st.Color == "" {
		return ` stroke="none"`
	}
	var b strings.Builder
	fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.2f"`, st.Color, st.Width)
	if len(st.Dash) > 0 {
		b.WriteString(` stroke-dasharray="`)
		for i, d := range st.Dash {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.2f", d)
		}
		b.WriteByte('"')
	}
	return b.String()
}
