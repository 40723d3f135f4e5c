package surface

import (
	"strings"
	"testing"
)

func TestPathData_Commands(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3, 4)
	p.QuadTo(5, 6, 7, 8)
	p.CubicTo(9, 10, 11, 12, 13, 14)
	p.Close()

	got := pathData(p)

	want := "M 1.00 2.00 L 3.00 4.00 Q 5.00 6.00 7.00 8.00 C 9.00 10.00 11.00 12.00 13.00 14.00 Z"
	if got != want {
		t.Errorf("pathData() = %q, want %q", got, want)
	}
}

func TestRect(t *testing.T) {
	got := pathData(Rect(0, 0, 10, 5))

	want := "M 0.00 0.00 L 10.00 0.00 L 10.00 5.00 L 0.00 5.00 Z"
	if got != want {
		t.Errorf("Rect() path = %q, want %q", got, want)
	}
}

func TestEllipse_ClosedWithFourArcs(t *testing.T) {
	p := Ellipse(50, 50, 30, 20)

	d := pathData(p)
	if strings.Count(d, "C ") != 4 {
		t.Errorf("ellipse has %d cubic arcs, want 4: %q", strings.Count(d, "C "), d)
	}
	if !strings.HasSuffix(d, "Z") {
		t.Errorf("ellipse not closed: %q", d)
	}
	if !strings.HasPrefix(d, "M 80.00 50.00") {
		t.Errorf("ellipse starts at %q, want the rightmost point", d)
	}
}

func TestDiamond(t *testing.T) {
	got := pathData(Diamond(10, 10, 5, 4))

	want := "M 10.00 6.00 L 15.00 10.00 L 10.00 14.00 L 5.00 10.00 Z"
	if got != want {
		t.Errorf("Diamond() path = %q, want %q", got, want)
	}
}

func TestPolyline(t *testing.T) {
	if !Polyline().Empty() {
		t.Errorf("Polyline() with no points should be empty")
	}
	if !Polyline([2]float64{1, 1}).Empty() {
		t.Errorf("Polyline() with one point should be empty")
	}

	got := pathData(Polyline([2]float64{0, 0}, [2]float64{5, 5}, [2]float64{10, 0}))
	want := "M 0.00 0.00 L 5.00 5.00 L 10.00 0.00"
	if got != want {
		t.Errorf("Polyline() path = %q, want %q", got, want)
	}
}
