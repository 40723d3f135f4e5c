package layout

import "slices"

// countLayerCrossings counts edge crossings between two adjacent ranks using a
// Fenwick tree for O(E log V) performance, where E is the number of edges
// between the ranks and V is the number of nodes in the lower rank.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is equivalent to counting inversions in the sequence of target
// positions when edges are sorted by source position.
//
// down[u] holds the successors of u that sit exactly one rank below, upper and
// lower are the current left-to-right orders of the two ranks, and pos maps a
// node index to its position within its own rank.
func countLayerCrossings(down [][]int, upper, lower []int, pos []int) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, u := range upper {
		for _, v := range down[u] {
			edges = append(edges, edge{i, pos[v]})
		}
	}
	if len(edges) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position.
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions using the Fenwick tree.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Query: edges seen so far with target <= e.lower.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		// Crossings = edges seen so far with target > e.lower.
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// countPairCrossings counts the crossings among edges from two neighboring
// nodes into an adjacent rank, given that the left node currently precedes the
// right one. lnbr and rnbr are the adjacent-rank neighbors of the pair and pos
// maps node indices to positions within that rank.
//
// Swapping the pair is worthwhile when the count for (left, right) exceeds the
// count for (right, left). Used by the transposition pass after barycenter
// sweeps have settled.
func countPairCrossings(lnbr, rnbr []int, pos []int) int {
	crossings := 0
	for _, ln := range lnbr {
		lp := pos[ln]
		for _, rn := range rnbr {
			// Left's neighbor to the right of right's neighbor means a cross.
			if lp > pos[rn] {
				crossings++
			}
		}
	}
	return crossings
}

// totalCrossings sums the crossings over every consecutive rank pair.
func totalCrossings(down [][]int, ranks [][]int, pos []int) int {
	crossings := 0
	for r := 0; r+1 < len(ranks); r++ {
		crossings += countLayerCrossings(down, ranks[r], ranks[r+1], pos)
	}
	return crossings
}
