package graph_test

import (
	"errors"
	"fmt"

	"github.com/clipperviz/clipper/pkg/graph"
)

func ExampleBuilder() {
	b := graph.NewBuilder()
	b.AddNode(graph.Node{ID: "api", Label: "API"})
	b.AddNode(graph.Node{ID: "db", Label: "Database", Shape: graph.ShapeEllipse})
	b.AddEdge(graph.Edge{Source: "api", Target: "db", Directed: true})

	g, err := b.Finalize()
	if err != nil {
		fmt.Println("finalize:", err)
		return
	}

	fmt.Printf("%d nodes, %d edges\n", g.NodeCount(), g.EdgeCount())
	// Output: 2 nodes, 1 edges
}

func ExampleBuilder_errors() {
	b := graph.NewBuilder()
	b.AddNode(graph.Node{ID: "a"})

	err := b.AddEdge(graph.Edge{Source: "a", Target: "ghost"})
	fmt.Println(errors.Is(err, graph.ErrUnknownNode))

	err = b.AddNode(graph.Node{ID: "a"})
	fmt.Println(errors.Is(err, graph.ErrDuplicateNode))
	// Output:
	// true
	// true
}

func ExampleParseDescription() {
	data := []byte(`{
		"nodes": [{"id": "in"}, {"id": "out"}],
		"edges": [{"source": "in", "target": "out", "directed": true}]
	}`)

	g, err := graph.ParseDescription(data)
	if err != nil {
		fmt.Println("parse:", err)
		return
	}

	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s\n", e.Source, e.Target)
	}
	// Output: in -> out
}
