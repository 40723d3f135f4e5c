// Package preview renders graphs through Graphviz for quick structural
// inspection.
//
// # Overview
//
// This package produces Graphviz DOT source from a graph description and can
// render it in-process. It is a debugging companion to the main render
// pipeline, not part of it: previews trade the pipeline's deterministic
// layout and caching for Graphviz's familiar diagram style, which makes
// structural mistakes in a description (wrong direction, missing edge,
// unexpected cycle) easy to spot.
//
// # Usage
//
// Convert a graph to DOT, then render it:
//
//	dot := preview.ToDOT(g, preview.Options{})
//	svg, err := preview.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Node shapes, fills, edge direction, labels, and dashing carry over from
// the description; everything else uses Graphviz defaults.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering, so previews need no graphviz binary on the host.
package preview
