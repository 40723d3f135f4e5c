// Package surface provides drawing backends for rendered graphs.
//
// A [Surface] accepts resolution-independent drawing commands in point
// coordinates and encodes the accumulated drawing into one output format.
// Two backends ship with the package: [SVG] emits vector markup and
// [Raster] rasterizes to PNG through a supersampled pixel buffer.
//
// # Basic Usage
//
//	s := surface.NewSVG(200, 100, "#ffffff")
//	p := surface.Rect(10, 10, 80, 40)
//	s.StrokeShape(p, surface.Fill{Color: "#f2f4f8"}, surface.Stroke{Color: "#2f3437", Width: 1.5})
//	s.DrawText(50, 35, "hello", surface.TextStyle{Size: 12, Anchor: surface.AnchorMiddle})
//	err := s.Encode(w)
//
// Backends are not safe for concurrent use; build one surface per drawing.
// All coordinate formatting is fixed-precision, so the same sequence of
// commands always encodes to identical bytes.
package surface
