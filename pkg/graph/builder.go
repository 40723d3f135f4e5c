package graph

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors for graph construction. All of them indicate caller bugs,
// not transient conditions; none should be retried.
var (
	// ErrInvalidNodeID is returned when a node has an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNode is returned when a node ID is added twice.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an edge references a node that has not
	// been added.
	ErrUnknownNode = errors.New("unknown node ID")

	// ErrInvalidState is returned when a builder is used after Finalize.
	ErrInvalidState = errors.New("builder already finalized")

	// ErrInvalidShape is returned when a node carries an unsupported shape kind.
	ErrInvalidShape = errors.New("unknown shape kind")

	// ErrInvalidArrow is returned when an edge carries an unsupported arrow kind.
	ErrInvalidArrow = errors.New("unknown arrow kind")

	// ErrInvalidSize is returned when a node carries a negative size hint.
	ErrInvalidSize = errors.New("size hint must not be negative")
)

// Builder assembles a [Graph] incrementally. The zero Builder is not usable;
// create one with [NewBuilder].
//
// Builders are not safe for concurrent use. Once [Builder.Finalize] has
// returned, every further mutation fails with [ErrInvalidState]; build a new
// Builder to construct a different graph.
type Builder struct {
	nodes     []Node
	edges     []Edge
	index     map[string]int
	finalized bool
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// AddNode appends a node to the graph under construction.
//
// The node ID must be non-empty and unique within this builder. Shape and
// size hints are validated here so that a finalized graph never carries
// unpaintable attributes.
func (b *Builder) AddNode(n Node) error {
	if b.finalized {
		return fmt.Errorf("%w: cannot add node %q", ErrInvalidState, n.ID)
	}
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := b.index[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
	}
	if !n.Shape.Valid() {
		return fmt.Errorf("%w: %q on node %q", ErrInvalidShape, n.Shape, n.ID)
	}
	if n.Width < 0 || n.Height < 0 {
		return fmt.Errorf("%w: node %q", ErrInvalidSize, n.ID)
	}

	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return nil
}

// AddEdge appends an edge to the graph under construction.
//
// Both endpoints must already exist; dangling edges are rejected rather than
// silently dropped. Self-edges are allowed.
func (b *Builder) AddEdge(e Edge) error {
	if b.finalized {
		return fmt.Errorf("%w: cannot add edge %q -> %q", ErrInvalidState, e.Source, e.Target)
	}
	if _, ok := b.index[e.Source]; !ok {
		return fmt.Errorf("%w: edge source %q", ErrUnknownNode, e.Source)
	}
	if _, ok := b.index[e.Target]; !ok {
		return fmt.Errorf("%w: edge target %q", ErrUnknownNode, e.Target)
	}
	if !e.Style.Arrow.Valid() {
		return fmt.Errorf("%w: %q on edge %q -> %q", ErrInvalidArrow, e.Style.Arrow, e.Source, e.Target)
	}

	// Own the dash pattern so later caller mutation cannot reach the graph.
	e.Style.Dash = slices.Clone(e.Style.Dash)
	b.edges = append(b.edges, e)
	return nil
}

// Finalize freezes the builder and returns the immutable graph snapshot.
//
// The builder transfers ownership of its internal state to the graph; any
// subsequent AddNode, AddEdge, or Finalize call fails with [ErrInvalidState].
// Empty graphs are legal and render to a blank margin-sized artifact.
func (b *Builder) Finalize() (*Graph, error) {
	if b.finalized {
		return nil, ErrInvalidState
	}
	b.finalized = true

	return &Graph{
		nodes: b.nodes,
		edges: b.edges,
		index: b.index,
	}, nil
}
