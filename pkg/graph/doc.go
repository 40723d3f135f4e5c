// Package graph provides the immutable graph model consumed by the clipper
// rendering pipeline.
//
// # Overview
//
// A graph is a set of nodes with visual attributes (label, shape, colors)
// and a set of edges between them. Graphs are assembled through a [Builder]
// and frozen with [Builder.Finalize]; the resulting [Graph] cannot be
// mutated, which makes it safe to share across concurrent renders and to
// fingerprint for caching.
//
// # Basic Usage
//
// Create a builder with [NewBuilder], add nodes and edges, then finalize:
//
//	b := graph.NewBuilder()
//	b.AddNode(graph.Node{ID: "web", Label: "Web"})
//	b.AddNode(graph.Node{ID: "db", Label: "Database", Shape: graph.ShapeEllipse})
//	b.AddEdge(graph.Edge{Source: "web", Target: "db", Directed: true})
//	g, err := b.Finalize()
//
// Construction errors are sentinel values checked with errors.Is:
// [ErrDuplicateNode] for repeated node IDs, [ErrUnknownNode] for edges
// referencing absent endpoints, and [ErrInvalidState] for any builder use
// after finalize.
//
// # Ordering
//
// [Graph.Nodes] and [Graph.Edges] return elements in insertion order. The
// layout engines and the paint step rely on this: identical construction
// sequences produce identical traversal sequences, which in turn produce
// identical artifacts. Nothing in this package iterates a map to produce
// output.
//
// # Wire Format
//
// [ParseDescription] and [Graph.Description] convert between graphs and the
// external record format (ordered node records, ordered edge records) used
// by the HTTP API and the CLI. Parsing runs through the builder, so wire
// input is held to the same validation rules as programmatic construction.
package graph
