// Package pkg provides the core libraries for Clipper graph rendering.
//
// # Overview
//
// Clipper turns declarative graph descriptions (nodes, edges, styling
// options) into deterministic SVG and PNG artifacts. The same description
// always renders to the same bytes, which is what makes artifacts
// addressable by content fingerprint. The pkg directory is organized into
// four main areas:
//
//  1. [graph], [style] - Input model (descriptions, styling, validation)
//  2. [layout], [surface] - Geometry and drawing (engines, backends)
//  3. [render] - Orchestration (fingerprints, caching, the pipeline)
//  4. [store] - Artifact persistence (memory, file, SQLite, Redis, MongoDB)
//
// # Architecture
//
// The typical data flow through Clipper:
//
//	Graph description (JSON)
//	         ↓
//	    [graph] package (parse + validate)
//	         ↓
//	    [layout] package (position nodes, route edges)
//	         ↓
//	    [surface] package (SVG / PNG drawing)
//	         ↓
//	    [render] package (fingerprint, cache, artifact)
//	         ↓
//	    artifact bytes (+ [store] persistence)
//
// # Quick Start
//
// Parse a description and render it to a PNG:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/clipperviz/clipper/pkg/graph"
//	    "github.com/clipperviz/clipper/pkg/render"
//	    "github.com/clipperviz/clipper/pkg/style"
//	)
//
//	g, _ := graph.ParseDescription(data)
//
//	pipe := render.New(render.NewCache(render.CacheConfig{}), nil)
//	defer pipe.Close()
//
//	art, _ := pipe.Render(context.Background(), g, style.Style{
//	    Format: style.FormatPNG,
//	    DPI:    192,
//	})
//	os.WriteFile("graph.png", art.Data, 0o644)
//
// # Main Packages
//
// ## Input Model
//
// [graph] - The graph description codec and validated in-memory model.
// Descriptions are JSON documents listing nodes and edges; building a
// graph rejects duplicate node IDs, dangling edge endpoints, and other
// structural defects before any rendering work starts.
//
// [style] - Styling options (engine, format, colors, fonts, spacing) with
// normalization. A normalized style fills every unset option with its
// default, so two descriptions that differ only in omitted defaults
// fingerprint identically.
//
// ## Geometry and Drawing
//
// [layout] - Layout engines that assign node positions and edge routes:
//
//   - hierarchical: layered placement for mostly-directed graphs
//   - force: force-directed placement seeded by the content fingerprint
//
// [surface] - Resolution-independent drawing backends. The SVG backend
// emits vector documents; the raster backend supersamples onto a PNG
// canvas.
//
// ## Orchestration
//
// [render] - The render pipeline: fingerprint the inputs, consult the
// two-tier cache (in-memory LRU over an optional byte store), run layout
// and drawing on misses, and wrap the result in an [render.Artifact].
// Concurrent requests for the same fingerprint share one render.
//
// [preview] - Graphviz DOT quick looks that bypass the pipeline, for
// inspecting a description's shape without a full render.
//
// ## Persistence
//
// [store] - Byte stores keyed by fingerprint: memory, file, SQLite,
// Redis, MongoDB, and a null store, plus a prefix wrapper for shared
// backends. [store.Open] dials a backend from configuration.
//
// ## Supporting Packages
//
// [errors] - Coded errors that map to HTTP statuses and user-facing
// messages.
//
// [observability] - Hook registries the pipeline, cache, and HTTP layer
// report into; the metrics collectors attach here.
//
// [buildinfo] - Version, commit, and build date stamped at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//
// [graph]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/graph
// [style]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/style
// [layout]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/layout
// [surface]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/surface
// [render]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/render
// [render.Artifact]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/render#Artifact
// [preview]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/preview
// [store]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/store
// [store.Open]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/store#Open
// [errors]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/errors
// [observability]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/clipperviz/clipper/pkg/buildinfo
package pkg
