package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

const (
	// forceCancelCheck is the number of simulation iterations between
	// context checks.
	forceCancelCheck = 32

	separationPasses = 12
	coolFloor        = 0.1
)

// Force spreads nodes with a spring-embedder simulation: all node pairs
// repel, connected pairs attract, and a falling temperature caps how far a
// node can move per iteration. It suits undirected and cyclic graphs where
// rank structure carries no meaning.
type Force struct{}

// Name returns the engine's configuration name.
func (Force) Name() string { return style.EngineForce }

// Layout runs the simulation for exactly opts.Iterations steps per
// component. All randomness (initial placement jitter) comes from a PCG
// generator seeded with opts.Seed, so identical input always yields
// identical geometry. The context is checked between iteration batches;
// expiry surfaces as [ErrLayoutTimeout].
func (Force) Layout(ctx context.Context, g *graph.Graph, opts Options) (*Layout, error) {
	opts = opts.withDefaults()
	nodes, edges := g.Nodes(), g.Edges()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	return assemble(nodes, edges, opts, func(c component) ([]NodePlacement, Point, error) {
		return springPlacement(ctx, nodes, edges, c, opts, rng)
	})
}

// springPlacement simulates one connected component and returns placements
// parallel to c.nodes plus the component's drawing size.
func springPlacement(ctx context.Context, nodes []graph.Node, edges []graph.Edge, c component, opts Options, rng *rand.Rand) ([]NodePlacement, Point, error) {
	n := len(c.nodes)

	widths := make([]float64, n)
	heights := make([]float64, n)
	for i, gi := range c.nodes {
		widths[i], heights[i] = NodeSize(nodes[gi], opts.FontSize)
	}
	if n == 1 {
		p := NodePlacement{ID: nodes[c.nodes[0]].ID, W: widths[0], H: heights[0]}
		return []NodePlacement{p}, Point{X: widths[0], Y: heights[0]}, nil
	}

	localByID := make(map[string]int, n)
	for i, gi := range c.nodes {
		localByID[nodes[gi].ID] = i
	}
	var springs [][2]int
	for _, ei := range c.edges {
		e := edges[ei]
		if e.IsSelfLoop() {
			continue
		}
		springs = append(springs, [2]int{localByID[e.Source], localByID[e.Target]})
	}

	// Ideal spring length scales with node size so labels do not decide
	// the simulation constants twice (once in box size, once here).
	avgDiag := 0.0
	for i := 0; i < n; i++ {
		avgDiag += math.Hypot(widths[i], heights[i])
	}
	avgDiag /= float64(n)
	k := avgDiag/2 + opts.NodeSpacing

	// Initial placement on a jittered circle. Pure jitter-free circles
	// leave symmetric graphs stuck in unstable equilibria.
	radius := k*math.Sqrt(float64(n))/2 + k
	px := make([]float64, n)
	py := make([]float64, n)
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + (rng.Float64()-0.5)*0.2
		r := radius * (1 + (rng.Float64()-0.5)*0.1)
		px[i] = r * math.Cos(angle)
		py[i] = r * math.Sin(angle)
	}

	iters := opts.Iterations
	t0 := 2 * k
	dispX := make([]float64, n)
	dispY := make([]float64, n)
	for it := 0; it < iters; it++ {
		if it%forceCancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, Point{}, fmt.Errorf("%w: stopped at iteration %d of %d: %v", ErrLayoutTimeout, it, iters, err)
			}
		}

		for i := range dispX {
			dispX[i], dispY[i] = 0, 0
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy := px[i]-px[j], py[i]-py[j]
				dist := math.Hypot(dx, dy)
				if dist < 0.01 {
					// Coincident nodes separate along a fixed axis.
					dx, dy = 0.01*float64(j-i), 0
					dist = dx
				}
				f := k * k / dist
				ux, uy := dx/dist, dy/dist
				dispX[i] += ux * f
				dispY[i] += uy * f
				dispX[j] -= ux * f
				dispY[j] -= uy * f
			}
		}

		for _, s := range springs {
			i, j := s[0], s[1]
			dx, dy := px[i]-px[j], py[i]-py[j]
			dist := math.Hypot(dx, dy)
			if dist < 0.01 {
				continue
			}
			f := dist * dist / k
			ux, uy := dx/dist, dy/dist
			dispX[i] -= ux * f
			dispY[i] -= uy * f
			dispX[j] += ux * f
			dispY[j] += uy * f
		}

		t := t0*(1-float64(it)/float64(iters)) + coolFloor
		for i := 0; i < n; i++ {
			d := math.Hypot(dispX[i], dispY[i])
			if d == 0 {
				continue
			}
			step := math.Min(d, t)
			px[i] += dispX[i] / d * step
			py[i] += dispY[i] / d * step
		}
	}

	separateBoxes(px, py, widths, heights, opts.NodeSpacing/2)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		minX = math.Min(minX, px[i]-widths[i]/2)
		minY = math.Min(minY, py[i]-heights[i]/2)
		maxX = math.Max(maxX, px[i]+widths[i]/2)
		maxY = math.Max(maxY, py[i]+heights[i]/2)
	}

	place := make([]NodePlacement, n)
	for i, gi := range c.nodes {
		place[i] = NodePlacement{
			ID: nodes[gi].ID,
			X:  px[i] - widths[i]/2 - minX,
			Y:  py[i] - heights[i]/2 - minY,
			W:  widths[i],
			H:  heights[i],
		}
	}
	return place, Point{X: maxX - minX, Y: maxY - minY}, nil
}

// separateBoxes nudges overlapping boxes apart along the axis needing the
// smaller correction. Runs a bounded number of relaxation passes; any
// leftover overlap on dense graphs is tolerated.
func separateBoxes(px, py, w, h []float64, gap float64) {
	n := len(px)
	for range separationPasses {
		changed := false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				overlapX := (w[i]+w[j])/2 + gap - math.Abs(px[i]-px[j])
				overlapY := (h[i]+h[j])/2 + gap - math.Abs(py[i]-py[j])
				if overlapX <= 0 || overlapY <= 0 {
					continue
				}
				changed = true
				if overlapX <= overlapY {
					half := overlapX / 2
					if px[i] <= px[j] {
						px[i] -= half
						px[j] += half
					} else {
						px[i] += half
						px[j] -= half
					}
				} else {
					half := overlapY / 2
					if py[i] <= py[j] {
						py[i] -= half
						py[j] += half
					} else {
						py[i] += half
						py[j] -= half
					}
				}
			}
		}
		if !changed {
			break
		}
	}
}
