package graph

import "slices"

// Graph is an immutable snapshot of nodes and edges produced by
// [Builder.Finalize].
//
// All accessors preserve insertion order and return defensive copies, so a
// Graph can be shared freely across goroutines: concurrent renders of the
// same graph never observe torn state.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[string]int
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// Edges returns the edges in insertion order. Dash patterns are copied so
// the graph's own state stays untouched.
func (g *Graph) Edges() []Edge {
	edges := slices.Clone(g.edges)
	for i := range edges {
		edges[i].Style.Dash = slices.Clone(edges[i].Style.Dash)
	}
	return edges
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}
