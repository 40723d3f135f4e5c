package layout

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/clipperviz/clipper/pkg/graph"
)

func buildGraph(t *testing.T, nodeIDs []string, edges [][2]string) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for _, id := range nodeIDs {
		if err := b.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q) error: %v", id, err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(graph.Edge{Source: e[0], Target: e[1], Directed: true}); err != nil {
			t.Fatalf("AddEdge(%q -> %q) error: %v", e[0], e[1], err)
		}
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	return g
}

func mustPlacement(t *testing.T, l *Layout, id string) NodePlacement {
	t.Helper()
	p, ok := l.Placement(id)
	if !ok {
		t.Fatalf("Placement(%q) not found", id)
	}
	return p
}

func boxesOverlap(a, b NodePlacement) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestHierarchical_RanksFlowDownward(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	a := mustPlacement(t, l, "a")
	b := mustPlacement(t, l, "b")
	c := mustPlacement(t, l, "c")
	if !(a.Y < b.Y && b.Y < c.Y) {
		t.Errorf("ranks not descending: a.Y=%v b.Y=%v c.Y=%v", a.Y, b.Y, c.Y)
	}
}

func TestHierarchical_SharedRankCentered(t *testing.T) {
	//   a
	//  / \
	// b   c
	g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	a := mustPlacement(t, l, "a")
	b := mustPlacement(t, l, "b")
	c := mustPlacement(t, l, "c")
	if b.Y != c.Y {
		t.Errorf("siblings split ranks: b.Y=%v c.Y=%v", b.Y, c.Y)
	}
	if b.CenterX() >= c.CenterX() {
		t.Errorf("insertion order not preserved: b at %v, c at %v", b.CenterX(), c.CenterX())
	}
	mid := (b.CenterX() + c.CenterX()) / 2
	if math.Abs(a.CenterX()-mid) > 1e-9 {
		t.Errorf("parent not centered: a.CenterX()=%v, want %v", a.CenterX(), mid)
	}
}

func TestHierarchical_Deterministic(t *testing.T) {
	ids := []string{"api", "auth", "db", "cache", "queue"}
	edges := [][2]string{{"api", "auth"}, {"api", "db"}, {"auth", "db"}, {"api", "cache"}, {"cache", "queue"}}

	first, err := Hierarchical{}.Layout(context.Background(), buildGraph(t, ids, edges), Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	second, err := Hierarchical{}.Layout(context.Background(), buildGraph(t, ids, edges), Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Errorf("node placements differ between runs:\n%v\n%v", first.Nodes, second.Nodes)
	}
	if !reflect.DeepEqual(first.Edges, second.Edges) {
		t.Errorf("edge paths differ between runs")
	}
	if first.Width != second.Width || first.Height != second.Height {
		t.Errorf("canvas differs: %vx%v vs %vx%v", first.Width, first.Height, second.Width, second.Height)
	}
}

func TestHierarchical_CycleTerminates(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if len(l.Nodes) != 3 || len(l.Edges) != 3 {
		t.Fatalf("got %d nodes, %d edges, want 3 and 3", len(l.Nodes), len(l.Edges))
	}
	a := mustPlacement(t, l, "a")
	b := mustPlacement(t, l, "b")
	c := mustPlacement(t, l, "c")
	if !(a.Y < b.Y && b.Y < c.Y) {
		t.Errorf("cycle did not layer from its entry point: a.Y=%v b.Y=%v c.Y=%v", a.Y, b.Y, c.Y)
	}
}

func TestHierarchical_SelfLoopRouted(t *testing.T) {
	g := buildGraph(t, []string{"a"}, [][2]string{{"a", "a"}})

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if len(l.Edges) != 1 {
		t.Fatalf("got %d edge paths, want 1", len(l.Edges))
	}
	loop := l.Edges[0]
	if !loop.Curved || len(loop.Points) < 3 {
		t.Errorf("self loop path = %+v, want curved with at least 3 points", loop)
	}
	a := mustPlacement(t, l, "a")
	for _, pt := range loop.Points[1:3] {
		if pt.X <= a.X+a.W {
			t.Errorf("loop point %v does not bulge past the right face at %v", pt, a.X+a.W)
		}
	}
}

func TestHierarchical_DisconnectedComponentsSeparated(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"c", "d"}})

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	for i := 0; i < len(l.Nodes); i++ {
		for j := i + 1; j < len(l.Nodes); j++ {
			if boxesOverlap(l.Nodes[i], l.Nodes[j]) {
				t.Errorf("nodes %q and %q overlap", l.Nodes[i].ID, l.Nodes[j].ID)
			}
		}
	}
}

func TestHierarchical_IsolatedNodePlaced(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "lonely"}, [][2]string{{"a", "b"}})

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	lone := mustPlacement(t, l, "lonely")
	if lone.W <= 0 || lone.H <= 0 {
		t.Errorf("isolated node has degenerate box: %+v", lone)
	}
	for _, other := range []string{"a", "b"} {
		if boxesOverlap(lone, mustPlacement(t, l, other)) {
			t.Errorf("isolated node overlaps %q", other)
		}
	}
}

func TestHierarchical_EmptyGraph(t *testing.T) {
	g := buildGraph(t, nil, nil)

	l, err := Hierarchical{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	if len(l.Nodes) != 0 || len(l.Edges) != 0 {
		t.Errorf("empty graph produced %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("canvas = %vx%v, want positive margin-only extent", l.Width, l.Height)
	}
}

func TestHierarchical_MarginApplied(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	const margin = 32.0
	l, err := Hierarchical{}.Layout(context.Background(), g, Options{Margin: margin})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	for _, p := range l.Nodes {
		if p.X < margin || p.Y < margin {
			t.Errorf("node %q at (%v,%v) inside the margin", p.ID, p.X, p.Y)
		}
		if p.X+p.W > l.Width-margin || p.Y+p.H > l.Height-margin {
			t.Errorf("node %q extends into the trailing margin", p.ID)
		}
	}
}

func TestLongestPathRanks(t *testing.T) {
	// Diamond: 0 -> 1, 0 -> 2, 1 -> 3, 2 -> 3
	keep := [][]int{{1, 2}, {3}, {3}, nil}

	ranks := longestPathRanks(keep)

	want := []int{0, 1, 1, 2}
	if !reflect.DeepEqual(ranks, want) {
		t.Errorf("longestPathRanks() = %v, want %v", ranks, want)
	}
}

func TestLongestPathRanks_LongEdgeWins(t *testing.T) {
	// 0 -> 1 -> 2 and 0 -> 2: node 2 sinks below node 1.
	keep := [][]int{{1, 2}, {2}, nil}

	ranks := longestPathRanks(keep)

	want := []int{0, 1, 2}
	if !reflect.DeepEqual(ranks, want) {
		t.Errorf("longestPathRanks() = %v, want %v", ranks, want)
	}
}

func TestSuppressBackEdges_AcyclicUntouched(t *testing.T) {
	succ := [][]int{{1, 2}, {3}, {3}, nil}

	keep := suppressBackEdges(succ)

	if !reflect.DeepEqual(keep, [][]int{{1, 2}, {3}, {3}, nil}) {
		t.Errorf("suppressBackEdges() = %v, want the input unchanged", keep)
	}
}

func TestSuppressBackEdges_BreaksCycle(t *testing.T) {
	// 0 -> 1 -> 2 -> 0
	succ := [][]int{{1}, {2}, {0}}

	keep := suppressBackEdges(succ)

	total := 0
	for _, vs := range keep {
		total += len(vs)
	}
	if total != 2 {
		t.Errorf("kept %d edges, want 2", total)
	}
	if len(keep[2]) != 0 {
		t.Errorf("cycle-closing edge 2 -> 0 survived: %v", keep[2])
	}
}

func TestSuppressBackEdges_SourceDirectionWins(t *testing.T) {
	// 2 is the only source and enters the 0 <-> 1 cycle at node 1:
	// 2 -> 1, 1 -> 0, 0 -> 1. Starting DFS from the source makes 0 -> 1
	// the back edge; starting from node 0 would flip the cycle instead.
	succ := [][]int{{1}, {0}, {1}}

	keep := suppressBackEdges(succ)

	if len(keep[0]) != 0 {
		t.Errorf("back edge 0 -> 1 survived: %v", keep[0])
	}
	if !reflect.DeepEqual(keep[1], []int{0}) || !reflect.DeepEqual(keep[2], []int{1}) {
		t.Errorf("forward edges dropped: %v", keep)
	}
}
