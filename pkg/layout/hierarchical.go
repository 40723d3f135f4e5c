package layout

import (
	"context"
	"sort"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

// orderingPasses bounds the barycenter phase. Each pass runs one full down
// sweep and one full up sweep over the ranks.
const orderingPasses = 4

// Hierarchical arranges nodes into horizontal ranks with edges flowing
// downward. It is the default engine and suits dependency graphs, pipelines,
// and other mostly-acyclic structures.
type Hierarchical struct{}

// Name returns the engine's configuration name.
func (Hierarchical) Name() string { return style.EngineHierarchical }

// Layout computes a ranked drawing of g.
//
// # Algorithm
//
// Each connected component is drawn independently and the component drawings
// are packed into one canvas. Within a component:
//
//  1. Cycle-closing edges are suppressed for the ranking passes only; they
//     are still routed and painted.
//  2. Ranks are assigned by longest path from the sources via topological
//     traversal, so every kept edge points strictly downward.
//  3. Crossings are reduced with barycenter sweeps and adjacent-swap
//     refinement, with ties keeping insertion order.
//  4. Each rank is centered horizontally; rank heights follow the tallest
//     node in the rank.
//
// Every stage is bounded, so the context is not consulted. The same graph,
// described in the same order, always produces the same drawing.
func (Hierarchical) Layout(ctx context.Context, g *graph.Graph, opts Options) (*Layout, error) {
	opts = opts.withDefaults()
	nodes, edges := g.Nodes(), g.Edges()
	return assemble(nodes, edges, opts, func(c component) ([]NodePlacement, Point, error) {
		place, size := rankedPlacement(nodes, edges, c, opts)
		return place, size, nil
	})
}

// rankedPlacement lays out one connected component and returns placements
// parallel to c.nodes plus the component's drawing size.
func rankedPlacement(nodes []graph.Node, edges []graph.Edge, c component, opts Options) ([]NodePlacement, Point) {
	n := len(c.nodes)
	localByID := make(map[string]int, n)
	for i, gi := range c.nodes {
		localByID[nodes[gi].ID] = i
	}

	succ := make([][]int, n)
	for _, ei := range c.edges {
		e := edges[ei]
		if e.IsSelfLoop() {
			continue
		}
		u := localByID[e.Source]
		succ[u] = append(succ[u], localByID[e.Target])
	}

	keep := suppressBackEdges(succ)
	rank := longestPathRanks(keep)

	maxRank := 0
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	ranks := make([][]int, maxRank+1)
	for u := 0; u < n; u++ {
		ranks[rank[u]] = append(ranks[rank[u]], u)
	}

	// Only consecutive-rank edges vote on node order; spans longer than one
	// rank are routed around whatever order the short edges settle on.
	down := make([][]int, n)
	up := make([][]int, n)
	for u := range keep {
		for _, v := range keep[u] {
			if rank[v] == rank[u]+1 {
				down[u] = append(down[u], v)
				up[v] = append(up[v], u)
			}
		}
	}

	pos := make([]int, n)
	for _, row := range ranks {
		for i, u := range row {
			pos[u] = i
		}
	}
	orderRanks(ranks, down, up, pos)

	widths := make([]float64, n)
	heights := make([]float64, n)
	for i, gi := range c.nodes {
		widths[i], heights[i] = NodeSize(nodes[gi], opts.FontSize)
	}

	rowW := make([]float64, len(ranks))
	compW := 0.0
	for r, row := range ranks {
		w := opts.NodeSpacing * float64(len(row)-1)
		for _, u := range row {
			w += widths[u]
		}
		rowW[r] = w
		if w > compW {
			compW = w
		}
	}

	place := make([]NodePlacement, n)
	y := 0.0
	for r, row := range ranks {
		rowH := 0.0
		for _, u := range row {
			if heights[u] > rowH {
				rowH = heights[u]
			}
		}
		x := (compW - rowW[r]) / 2
		for _, u := range row {
			place[u] = NodePlacement{
				ID: nodes[c.nodes[u]].ID,
				X:  x,
				Y:  y + (rowH-heights[u])/2,
				W:  widths[u],
				H:  heights[u],
			}
			x += widths[u] + opts.NodeSpacing
		}
		y += rowH + opts.RankSpacing
	}
	return place, Point{X: compW, Y: y - opts.RankSpacing}
}

// suppressBackEdges returns the forward adjacency with cycle-closing edges
// removed. DFS runs from in-degree-zero nodes first so natural sources keep
// their direction, then from the remaining nodes in insertion order.
func suppressBackEdges(succ [][]int) [][]int {
	const (
		white = iota
		gray
		black
	)

	n := len(succ)
	color := make([]int, n)
	keep := make([][]int, n)

	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray
		for _, v := range succ[u] {
			switch color[v] {
			case white:
				keep[u] = append(keep[u], v)
				dfs(v)
			case black:
				keep[u] = append(keep[u], v)
			}
		}
		color[u] = black
	}

	indeg := make([]int, n)
	for _, vs := range succ {
		for _, v := range vs {
			indeg[v]++
		}
	}
	for u := 0; u < n; u++ {
		if indeg[u] == 0 && color[u] == white {
			dfs(u)
		}
	}
	for u := 0; u < n; u++ {
		if color[u] == white {
			dfs(u)
		}
	}
	return keep
}

// longestPathRanks assigns each node one plus the maximum rank of its kept
// parents, so in-degree-zero nodes sit at rank zero. keep must be acyclic.
func longestPathRanks(keep [][]int) []int {
	n := len(keep)
	indeg := make([]int, n)
	for _, vs := range keep {
		for _, v := range vs {
			indeg[v]++
		}
	}

	rank := make([]int, n)
	queue := make([]int, 0, n)
	for u := 0; u < n; u++ {
		if indeg[u] == 0 {
			queue = append(queue, u)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range keep[u] {
			if r := rank[u] + 1; r > rank[v] {
				rank[v] = r
			}
			indeg[v]--
			if indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return rank
}

// orderRanks reduces crossings in place. Barycenter sweeps alternate down
// (nodes follow their predecessors' positions) and up (successors), then an
// adjacent-swap pass cleans up what the averages missed. Stable sorts keep
// tied nodes in their current order, which makes the result reproducible.
func orderRanks(ranks [][]int, down, up [][]int, pos []int) {
	sortRow := func(row []int, nbr [][]int) {
		if len(row) < 2 {
			return
		}
		bary := make([]float64, len(row))
		for i, u := range row {
			if len(nbr[u]) == 0 {
				bary[i] = float64(pos[u])
				continue
			}
			sum := 0.0
			for _, v := range nbr[u] {
				sum += float64(pos[v])
			}
			bary[i] = sum / float64(len(nbr[u]))
		}
		order := make([]int, len(row))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return bary[order[a]] < bary[order[b]] })
		sorted := make([]int, len(row))
		for i, o := range order {
			sorted[i] = row[o]
		}
		copy(row, sorted)
		for i, u := range row {
			pos[u] = i
		}
	}

	for pass := 0; pass < orderingPasses; pass++ {
		for r := 1; r < len(ranks); r++ {
			sortRow(ranks[r], up)
		}
		for r := len(ranks) - 2; r >= 0; r-- {
			sortRow(ranks[r], down)
		}
	}

	if totalCrossings(down, ranks, pos) == 0 {
		return
	}
	for range 2 {
		improved := false
		for r, row := range ranks {
			for i := 0; i+1 < len(row); i++ {
				left, right := row[i], row[i+1]
				before, after := 0, 0
				if r > 0 {
					before += countPairCrossings(up[left], up[right], pos)
					after += countPairCrossings(up[right], up[left], pos)
				}
				if r+1 < len(ranks) {
					before += countPairCrossings(down[left], down[right], pos)
					after += countPairCrossings(down[right], down[left], pos)
				}
				if after < before {
					row[i], row[i+1] = right, left
					pos[right], pos[left] = i, i+1
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
}
