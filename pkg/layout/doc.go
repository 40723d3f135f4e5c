// Package layout computes 2D geometry for graphs: a position and bounding
// box for every node and an ordered point path for every edge.
//
// # Engines
//
// Two strategies implement the [Engine] interface and are selected by name
// (see [New]):
//
//   - Hierarchical ([style.EngineHierarchical]): Sugiyama-style layering.
//     Nodes are assigned to discrete ranks by longest path from a source,
//     ordered within ranks by repeated barycenter sweeps plus a bounded
//     transposition pass, then spaced and positioned. Cycles are handled by
//     suppressing back-edges from rank computation; the edges themselves are
//     still routed and drawn. The algorithm is bounded and cannot time out.
//
//   - Force-directed ([style.EngineForce]): Fruchterman-Reingold iteration
//     with pairwise repulsion and attraction along edges. Initial placement
//     comes from a PRNG seeded by the caller (the render pipeline derives
//     the seed from the content fingerprint), never from wall-clock time, so
//     identical inputs produce identical layouts. The iteration count is
//     fixed; the context is checked periodically and deadline expiry
//     surfaces as [ErrLayoutTimeout].
//
// # Determinism
//
// Every code path in this package is deterministic: traversal follows the
// graph's insertion order, ties break on insertion index, and no map
// iteration ever reaches an output. The render cache keys artifacts by a
// content fingerprint, so equal inputs must produce byte-identical
// artifacts.
//
// # Disconnected Graphs
//
// Both engines lay out each connected component independently and pack the
// components onto shelves without overlap. Isolated nodes are single-node
// components and always receive valid positions.
package layout
