// Package render turns graphs into encoded image artifacts.
//
// This package implements the fingerprint → cache → layout → paint → encode
// pipeline that CLI and server share. Centralizing it keeps rendering
// behavior identical across every entry point.
//
// # Architecture
//
// A render proceeds in four stages:
//
//  1. Fingerprint: digest the graph content and normalized style
//  2. Cache: return the artifact for that fingerprint, or admit one render
//  3. Layout: compute node and edge geometry via the configured engine
//  4. Paint + encode: draw onto a surface and serialize to the output format
//
// Stages 3 and 4 run only on a cache miss, and at most once per fingerprint
// no matter how many callers ask concurrently.
//
// # Usage
//
// Create a Pipeline once at startup and share it:
//
//	pipe := render.New(render.NewCache(render.CacheConfig{MaxBytes: 64 << 20}), nil)
//	defer pipe.Close()
//
//	artifact, err := pipe.Render(ctx, g, style.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("graph.svg", artifact.Data, 0o644)
//
// RenderWithStats additionally reports cache and timing information, and
// Invalidate force-evicts one fingerprint from every cache tier.
//
// # Determinism
//
// Identical graph and style inputs always produce identical fingerprints and
// byte-identical artifacts. The fingerprint seeds force-directed placement,
// and painting follows the graph's insertion order: all edges first, then
// all nodes, so visual stacking never depends on traversal order.
package render
