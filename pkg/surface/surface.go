package surface

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/clipperviz/clipper/pkg/style"
)

// Anchor controls horizontal text alignment relative to the anchor point.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Stroke describes line appearance. A zero Width or empty Color suppresses
// the stroke.
type Stroke struct {
	Color string
	Width float64
	Dash  []float64
}

// Fill describes interior appearance. An empty Color suppresses the fill.
type Fill struct {
	Color string
}

// TextStyle describes label appearance. The anchor point passed to
// [Surface.DrawText] is the baseline; Anchor shifts the text horizontally
// around it.
type TextStyle struct {
	Color  string
	Size   float64
	Family string
	Anchor Anchor
}

// Surface accumulates drawing commands and encodes them once. Coordinates
// are in points with the origin at the top left and y growing downward.
type Surface interface {
	// DrawPath strokes an open or closed path.
	DrawPath(p *Path, stroke Stroke)

	// FillPath fills a closed path without stroking it.
	FillPath(p *Path, fill Fill)

	// StrokeShape fills and then strokes the same closed outline, so the
	// stroke sits on top of the fill.
	StrokeShape(p *Path, fill Fill, stroke Stroke)

	// DrawText renders one line of text with its baseline at (x, y).
	DrawText(x, y float64, text string, ts TextStyle)

	// Encode writes the finished drawing. Call it once, after all drawing
	// commands.
	Encode(w io.Writer) error

	// ContentType returns the MIME type of the encoded output.
	ContentType() string
}

// Options carries backend settings that not every format needs.
type Options struct {
	// DPI sets the raster resolution. Ignored by vector backends.
	DPI float64

	// Background is the canvas fill color. Empty leaves the canvas
	// transparent.
	Background string
}

// New returns a surface for the given output format with a width x height
// point canvas.
func New(format string, width, height float64, opts Options) (Surface, error) {
	switch format {
	case style.FormatSVG:
		return NewSVG(width, height, opts.Background), nil
	case style.FormatPNG:
		return NewRaster(width, height, opts.DPI, opts.Background)
	default:
		return nil, fmt.Errorf("unsupported surface format %q", format)
	}
}

// parseHexColor converts #rgb, #rrggbb, or #rrggbbaa into an RGBA color.
// Invalid input yields opaque black, matching how browsers treat broken
// style values rather than failing the whole drawing.
func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return c
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return c
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	if len(hex) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	c.G = uint8(v >> 8)
	c.R = uint8(v >> 16)
	return c
}
