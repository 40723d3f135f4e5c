package layout

import (
	"math"
	"sort"

	"github.com/clipperviz/clipper/pkg/graph"
)

// component groups node and edge indexes that belong to one connected
// component. Indexes refer to the graph's insertion-order slices, and the
// component list itself is ordered by each component's first node index, so
// downstream processing stays deterministic.
type component struct {
	nodes []int
	edges []int
}

// splitComponents partitions the graph into connected components, treating
// every edge as undirected for connectivity purposes.
func splitComponents(nodes []graph.Node, edges []graph.Edge) []component {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra > rb {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	for _, e := range edges {
		union(index[e.Source], index[e.Target])
	}

	roots := make(map[int]int) // root -> position in comps
	var comps []component
	for i := range nodes {
		r := find(i)
		pos, ok := roots[r]
		if !ok {
			pos = len(comps)
			roots[r] = pos
			comps = append(comps, component{})
		}
		comps[pos].nodes = append(comps[pos].nodes, i)
	}
	for i, e := range edges {
		pos := roots[find(index[e.Source])]
		comps[pos].edges = append(comps[pos].edges, i)
	}
	return comps
}

// assemble runs the per-component placement function over every connected
// component, packs the component drawings, routes edges on the combined
// placements, and bakes in the margin. The place function receives one
// component and returns placements parallel to component.nodes, with local
// coordinates starting at the origin, plus the component's drawing size.
func assemble(nodes []graph.Node, edges []graph.Edge, opts Options, place func(component) ([]NodePlacement, Point, error)) (*Layout, error) {
	l := &Layout{Nodes: make([]NodePlacement, len(nodes))}

	comps := splitComponents(nodes, edges)
	sizes := make([]Point, len(comps))
	placed := make([][]NodePlacement, len(comps))
	for ci, c := range comps {
		p, size, err := place(c)
		if err != nil {
			return nil, err
		}
		placed[ci], sizes[ci] = p, size
	}

	offsets := packComponents(sizes, opts.NodeSpacing*2)
	for ci, c := range comps {
		for k, gi := range c.nodes {
			p := placed[ci][k]
			p.X += offsets[ci].X
			p.Y += offsets[ci].Y
			l.Nodes[gi] = p
		}
	}

	l.indexPlacements()
	l.Edges = routeEdges(edges, l, opts.EdgeRouting)
	finishLayout(l, opts.Margin)
	return l, nil
}

// shelf packing: components are placed left to right on shelves whose width
// targets a roughly square overall drawing. Taller components go first
// (stable by component order) so shelf heights stay tight.
func packComponents(sizes []Point, gap float64) []Point {
	if len(sizes) == 0 {
		return nil
	}
	if len(sizes) == 1 {
		return []Point{{}}
	}

	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sizes[order[a]].Y > sizes[order[b]].Y
	})

	var totalArea, widest float64
	for _, s := range sizes {
		totalArea += s.X * s.Y
		if s.X > widest {
			widest = s.X
		}
	}
	targetW := math.Sqrt(totalArea) * 4 / 3
	if targetW < widest {
		targetW = widest
	}

	offsets := make([]Point, len(sizes))
	var shelfX, shelfY, shelfH float64
	for _, i := range order {
		s := sizes[i]
		if shelfX > 0 && shelfX+s.X > targetW {
			shelfY += shelfH + gap
			shelfX = 0
			shelfH = 0
		}
		offsets[i] = Point{X: shelfX, Y: shelfY}
		shelfX += s.X + gap
		if s.Y > shelfH {
			shelfH = s.Y
		}
	}
	return offsets
}
