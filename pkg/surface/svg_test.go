package surface

import (
	"bytes"
	"strings"
	"testing"
)

func encodeSVG(t *testing.T, s *SVG) string {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return buf.String()
}

func TestSVG_Envelope(t *testing.T) {
	s := NewSVG(200, 100, "#ffffff")

	out := encodeSVG(t, s)

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("output does not start with the svg element:\n%s", out)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("output does not end with </svg>")
	}
	for _, want := range []string{`viewBox="0 0 200.00 100.00"`, `width="200"`, `height="100"`, `fill="#ffffff"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSVG_NoBackground(t *testing.T) {
	s := NewSVG(10, 10, "")

	out := encodeSVG(t, s)

	if strings.Contains(out, "<rect") {
		t.Errorf("transparent surface painted a background rect:\n%s", out)
	}
}

func TestSVG_DrawPath(t *testing.T) {
	s := NewSVG(100, 100, "")
	p := NewPath()
	p.MoveTo(10, 10)
	p.LineTo(50, 30)

	s.DrawPath(p, Stroke{Color: "#5b6570", Width: 1.5})

	out := encodeSVG(t, s)
	for _, want := range []string{`d="M 10.00 10.00 L 50.00 30.00"`, `fill="none"`, `stroke="#5b6570"`, `stroke-width="1.50"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSVG_DashedStroke(t *testing.T) {
	s := NewSVG(100, 100, "")
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	s.DrawPath(p, Stroke{Color: "#000000", Width: 1, Dash: []float64{4, 2}})

	if out := encodeSVG(t, s); !strings.Contains(out, `stroke-dasharray="4.00 2.00"`) {
		t.Errorf("output missing dash array:\n%s", out)
	}
}

func TestSVG_StrokeShape(t *testing.T) {
	s := NewSVG(100, 100, "")

	s.StrokeShape(Rect(10, 10, 30, 20), Fill{Color: "#f2f4f8"}, Stroke{Color: "#2f3437", Width: 1.5})

	out := encodeSVG(t, s)
	if !strings.Contains(out, `fill="#f2f4f8"`) || !strings.Contains(out, `stroke="#2f3437"`) {
		t.Errorf("shape missing fill or stroke:\n%s", out)
	}
	if !strings.Contains(out, "Z") {
		t.Errorf("shape outline not closed:\n%s", out)
	}
}

func TestSVG_TextEscaped(t *testing.T) {
	s := NewSVG(100, 100, "")

	s.DrawText(50, 40, `a<b&c>"d"`, TextStyle{Size: 12, Color: "#1c2126", Anchor: AnchorMiddle})

	out := encodeSVG(t, s)
	if !strings.Contains(out, `a&lt;b&amp;c&gt;&quot;d&quot;`) {
		t.Errorf("text not escaped:\n%s", out)
	}
	if !strings.Contains(out, `text-anchor="middle"`) {
		t.Errorf("anchor attribute missing:\n%s", out)
	}
}

func TestSVG_StartAnchorOmitted(t *testing.T) {
	s := NewSVG(100, 100, "")

	s.DrawText(0, 10, "label", TextStyle{Size: 12, Anchor: AnchorStart})

	if out := encodeSVG(t, s); strings.Contains(out, "text-anchor") {
		t.Errorf("start anchor should be the implicit default:\n%s", out)
	}
}

func TestSVG_EmptyDrawsSkipped(t *testing.T) {
	plain := encodeSVG(t, NewSVG(50, 50, ""))

	s := NewSVG(50, 50, "")
	s.DrawPath(NewPath(), Stroke{Color: "#000", Width: 1})
	s.DrawPath(Polyline([2]float64{0, 0}, [2]float64{1, 1}), Stroke{})
	s.FillPath(Rect(0, 0, 10, 10), Fill{})
	s.DrawText(0, 0, "", TextStyle{Size: 12})

	if got := encodeSVG(t, s); got != plain {
		t.Errorf("no-op draws changed the output:\n%s", got)
	}
}

func TestSVG_Deterministic(t *testing.T) {
	render := func() string {
		s := NewSVG(120, 80, "#ffffff")
		s.StrokeShape(Ellipse(60, 40, 30, 20), Fill{Color: "#f2f4f8"}, Stroke{Color: "#2f3437", Width: 1.5})
		s.DrawPath(Polyline([2]float64{0, 0}, [2]float64{120, 80}), Stroke{Color: "#5b6570", Width: 1})
		s.DrawText(60, 44, "node", TextStyle{Size: 12, Color: "#1c2126", Anchor: AnchorMiddle})
		return encodeSVG(t, s)
	}

	if first, second := render(), render(); first != second {
		t.Errorf("identical command sequences encoded differently")
	}
}
