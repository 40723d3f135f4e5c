package surface

import (
	"fmt"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	// rasterSupersample renders at double resolution and downscales,
	// which antialiases strokes and glyphs without font hinting.
	rasterSupersample = 2.0

	// baseDPI is the point-to-pixel identity resolution.
	baseDPI = 96.0
)

var (
	regularOnce sync.Once
	regularFnt  *opentype.Font
	regularErr  error
)

func regularFont() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regularFnt, regularErr = opentype.Parse(goregular.TTF)
	})
	return regularFnt, regularErr
}

// Raster rasterizes drawing commands to PNG. The canvas is width x height
// points mapped to pixels at the configured DPI. Drawing happens on a
// supersampled buffer; Encode downscales it with a Lanczos filter.
//
// Text always renders with the embedded Go Regular face. TextStyle.Family
// is a vector-format concern and is ignored here.
type Raster struct {
	dc    *gg.Context
	scale float64 // point -> supersampled pixel
	outW  int
	outH  int
	otf   *opentype.Font
	faces map[float64]font.Face
}

// NewRaster returns a PNG surface. A dpi of zero or less falls back to 96,
// one pixel per point.
func NewRaster(width, height, dpi float64, background string) (*Raster, error) {
	if dpi <= 0 {
		dpi = baseDPI
	}
	otf, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	scale := dpi / baseDPI * rasterSupersample
	r := &Raster{
		dc:    gg.NewContext(pixelDim(width*scale), pixelDim(height*scale)),
		scale: scale,
		outW:  pixelDim(width * dpi / baseDPI),
		outH:  pixelDim(height * dpi / baseDPI),
		otf:   otf,
		faces: make(map[float64]font.Face),
	}
	if background != "" {
		r.dc.SetColor(parseHexColor(background))
		r.dc.Clear()
	}
	return r, nil
}

func pixelDim(v float64) int {
	px := int(math.Round(v))
	if px < 1 {
		px = 1
	}
	return px
}

// PixelSize returns the dimensions of the encoded image.
func (r *Raster) PixelSize() (w, h int) { return r.outW, r.outH }

// DrawPath strokes the path.
func (r *Raster) DrawPath(p *Path, stroke Stroke) {
	if p.Empty() || stroke.Width <= 0 || stroke.Color == "" {
		return
	}
	r.tracePath(p)
	r.applyStroke(stroke)
	r.dc.Stroke()
}

// FillPath fills the path without stroking it.
func (r *Raster) FillPath(p *Path, fill Fill) {
	if p.Empty() || fill.Color == "" {
		return
	}
	r.tracePath(p)
	r.dc.SetColor(parseHexColor(fill.Color))
	r.dc.Fill()
}

// StrokeShape fills and strokes the same outline.
func (r *Raster) StrokeShape(p *Path, fill Fill, stroke Stroke) {
	if p.Empty() {
		return
	}
	hasFill := fill.Color != ""
	hasStroke := stroke.Width > 0 && stroke.Color != ""
	if !hasFill && !hasStroke {
		return
	}
	r.tracePath(p)
	if hasFill {
		r.dc.SetColor(parseHexColor(fill.Color))
		if hasStroke {
			r.dc.FillPreserve()
		} else {
			r.dc.Fill()
		}
	}
	if hasStroke {
		r.applyStroke(stroke)
		r.dc.Stroke()
	}
}

// DrawText renders one line with its baseline at (x, y).
func (r *Raster) DrawText(x, y float64, text string, ts TextStyle) {
	if text == "" || ts.Size <= 0 {
		return
	}
	face := r.face(ts.Size)
	if face == nil {
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(parseHexColor(ts.Color))

	dx := 0.0
	if ts.Anchor == AnchorMiddle || ts.Anchor == AnchorEnd {
		w, _ := r.dc.MeasureString(text)
		if ts.Anchor == AnchorMiddle {
			dx = -w / 2
		} else {
			dx = -w
		}
	}
	r.dc.DrawString(text, x*r.scale+dx, y*r.scale)
}

// Encode downscales the supersampled buffer and writes the PNG.
func (r *Raster) Encode(w io.Writer) error {
	img := imaging.Resize(r.dc.Image(), r.outW, r.outH, imaging.Lanczos)
	return png.Encode(w, img)
}

// ContentType returns the PNG MIME type.
func (r *Raster) ContentType() string { return "image/png" }

func (r *Raster) tracePath(p *Path) {
	r.dc.ClearPath()
	s := r.scale
	for _, seg := range p.segs {
		switch seg.op {
		case opMoveTo:
			r.dc.MoveTo(seg.pts[0]*s, seg.pts[1]*s)
		case opLineTo:
			r.dc.LineTo(seg.pts[0]*s, seg.pts[1]*s)
		case opQuadTo:
			r.dc.QuadraticTo(seg.pts[0]*s, seg.pts[1]*s, seg.pts[2]*s, seg.pts[3]*s)
		case opCubicTo:
			r.dc.CubicTo(seg.pts[0]*s, seg.pts[1]*s, seg.pts[2]*s, seg.pts[3]*s, seg.pts[4]*s, seg.pts[5]*s)
		case opClose:
			r.dc.ClosePath()
		}
	}
}

func (r *Raster) applyStroke(st Stroke) {
	r.dc.SetColor(parseHexColor(st.Color))
	r.dc.SetLineWidth(st.Width * r.scale)
	if len(st.Dash) > 0 {
		dash := make([]float64, len(st.Dash))
		for i, d := range st.Dash {
			dash[i] = d * r.scale
		}
		r.dc.SetDash(dash...)
	} else {
		r.dc.SetDash()
	}
}

// face returns a cached font face sized in supersampled pixels. Face
// construction failing for a valid embedded font does not happen in
// practice; a nil return just skips the glyphs.
func (r *Raster) face(size float64) font.Face {
	px := size * r.scale
	if f, ok := r.faces[px]; ok {
		return f
	}
	f, err := opentype.NewFace(r.otf, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		f = nil
	}
	r.faces[px] = f
	return f
}
