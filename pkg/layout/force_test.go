package layout

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestForce_Deterministic(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}}
	opts := Options{Seed: 42, Iterations: 50}

	first, err := Force{}.Layout(context.Background(), buildGraph(t, ids, edges), opts)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	second, err := Force{}.Layout(context.Background(), buildGraph(t, ids, edges), opts)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Errorf("same seed produced different placements:\n%v\n%v", first.Nodes, second.Nodes)
	}
	if !reflect.DeepEqual(first.Edges, second.Edges) {
		t.Errorf("same seed produced different edge paths")
	}
}

func TestForce_SeedChangesPlacement(t *testing.T) {
	ids := []string{"a", "b", "c"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}}

	one, err := Force{}.Layout(context.Background(), buildGraph(t, ids, edges), Options{Seed: 1, Iterations: 50})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	two, err := Force{}.Layout(context.Background(), buildGraph(t, ids, edges), Options{Seed: 2, Iterations: 50})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if reflect.DeepEqual(one.Nodes, two.Nodes) {
		t.Errorf("different seeds produced identical placements")
	}
}

func TestForce_CancelledContext(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Force{}.Layout(ctx, g, Options{})
	if !errors.Is(err, ErrLayoutTimeout) {
		t.Errorf("Layout() error = %v, want ErrLayoutTimeout", err)
	}
}

func TestForce_SingleNodeIgnoresContext(t *testing.T) {
	// Trivial geometry needs no simulation, so an expired context is fine.
	g := buildGraph(t, []string{"only"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, err := Force{}.Layout(ctx, g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(l.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(l.Nodes))
	}
}

func TestForce_NoBoxOverlap(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}}

	l, err := Force{}.Layout(context.Background(), buildGraph(t, ids, edges), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	for i := 0; i < len(l.Nodes); i++ {
		for j := i + 1; j < len(l.Nodes); j++ {
			if boxesOverlap(l.Nodes[i], l.Nodes[j]) {
				t.Errorf("nodes %q and %q overlap after separation", l.Nodes[i].ID, l.Nodes[j].ID)
			}
		}
	}
}

func TestForce_IsolatedNodesPacked(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, nil)

	l, err := Force{}.Layout(context.Background(), g, Options{Seed: 3})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if len(l.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(l.Nodes))
	}
	for i := 0; i < len(l.Nodes); i++ {
		for j := i + 1; j < len(l.Nodes); j++ {
			if boxesOverlap(l.Nodes[i], l.Nodes[j]) {
				t.Errorf("isolated nodes %q and %q overlap", l.Nodes[i].ID, l.Nodes[j].ID)
			}
		}
	}
}

func TestForce_SelfLoopDoesNotCollapse(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "a"}})

	l, err := Force{}.Layout(context.Background(), g, Options{Seed: 9, Iterations: 50})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if len(l.Edges) != 2 {
		t.Fatalf("got %d edge paths, want 2", len(l.Edges))
	}
	if !l.Edges[1].Curved {
		t.Errorf("self loop path not curved: %+v", l.Edges[1])
	}
}
