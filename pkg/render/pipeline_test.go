package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clipperviz/clipper/pkg/errors"
	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/observability"
	"github.com/clipperviz/clipper/pkg/style"
)

// recordingPipelineHooks counts layout starts, which is how these tests
// observe whether a render actually ran or was served from cache.
type recordingPipelineHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	layouts int
}

func (h *recordingPipelineHooks) OnLayoutStart(ctx context.Context, engine string, nodeCount int) {
	h.mu.Lock()
	h.layouts++
	h.mu.Unlock()
}

func (h *recordingPipelineHooks) layoutCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layouts
}

func chainGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	var d graph.Description
	for i := range n {
		d.Nodes = append(d.Nodes, graph.Node{ID: fmt.Sprintf("n%d", i)})
	}
	for i := range n - 1 {
		d.Edges = append(d.Edges, graph.Edge{
			Source: fmt.Sprintf("n%d", i), Target: fmt.Sprintf("n%d", i+1), Directed: true,
		})
	}
	return buildGraph(t, d)
}

func TestPipelineRender(t *testing.T) {
	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()

	art, stats, err := p.RenderWithStats(ctx, twoNodeGraph(t), style.Style{})
	if err != nil {
		t.Fatalf("RenderWithStats error: %v", err)
	}
	if !strings.HasPrefix(string(art.Data), "<svg") {
		t.Errorf("artifact is not an SVG document: %.40s", art.Data)
	}
	if art.Format != style.FormatSVG || art.ContentType != "image/svg+xml" {
		t.Errorf("format = %s, content type = %s", art.Format, art.ContentType)
	}
	if len(stats.Fingerprint) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(stats.Fingerprint))
	}
	if art.Fingerprint != stats.Fingerprint {
		t.Error("artifact and stats disagree on the fingerprint")
	}
	if stats.CacheHit {
		t.Error("first render should be a miss")
	}
	if stats.NodeCount != 2 || stats.EdgeCount != 1 {
		t.Errorf("counts = %d nodes %d edges, want 2/1", stats.NodeCount, stats.EdgeCount)
	}
	// Two nodes plus margins always exceed the bare margin box.
	if art.Width <= 2*style.DefaultMargin || art.Height <= 2*style.DefaultMargin {
		t.Errorf("artifact dimensions %gx%g too small", art.Width, art.Height)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	ctx := context.Background()

	render := func() (*Artifact, Stats) {
		p := New(nil, nil)
		defer p.Close()
		art, stats, err := p.RenderWithStats(ctx, twoNodeGraph(t), style.Style{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		return art, stats
	}

	a1, s1 := render()
	a2, s2 := render()
	if s1.Fingerprint != s2.Fingerprint {
		t.Errorf("fingerprints diverge: %s vs %s", s1.Fingerprint, s2.Fingerprint)
	}
	if !bytes.Equal(a1.Data, a2.Data) {
		t.Error("same graph and style should produce identical artifacts")
	}
}

func TestPipelineCacheHit(t *testing.T) {
	rec := &recordingPipelineHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()
	g := twoNodeGraph(t)

	first, s1, err := p.RenderWithStats(ctx, g, style.Style{})
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, s2, err := p.RenderWithStats(ctx, g, style.Style{})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	if s1.CacheHit || !s2.CacheHit {
		t.Errorf("cache hits = %v then %v, want miss then hit", s1.CacheHit, s2.CacheHit)
	}
	if second != first {
		t.Error("hit should return the cached artifact")
	}
	if got := rec.layoutCount(); got != 1 {
		t.Errorf("layout ran %d times, want 1", got)
	}
	if s2.LayoutDuration != 0 || s2.RenderDuration != 0 {
		t.Errorf("hit reported stage durations %v/%v, want zero", s2.LayoutDuration, s2.RenderDuration)
	}
}

func TestPipelineConcurrentSameGraph(t *testing.T) {
	rec := &recordingPipelineHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()
	g := twoNodeGraph(t)

	const callers = 8
	arts := make([]*Artifact, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			arts[i], _, errs[i] = p.RenderWithStats(ctx, g, style.Style{})
		}()
	}
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if !bytes.Equal(arts[i].Data, arts[0].Data) {
			t.Errorf("caller %d received different bytes", i)
		}
	}
	if got := rec.layoutCount(); got != 1 {
		t.Errorf("layout ran %d times for one fingerprint, want 1", got)
	}
}

func TestPipelineIsolatedNodes(t *testing.T) {
	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()

	g := buildGraph(t, graph.Description{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	})
	art, _, err := p.RenderWithStats(ctx, g, style.Style{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.Count(string(art.Data), "<text"); got != 3 {
		t.Errorf("labels = %d, want one per isolated node", got)
	}
}

func TestPipelineSelfLoop(t *testing.T) {
	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()

	g := buildGraph(t, graph.Description{
		Nodes: []graph.Node{{ID: "a", Label: "Loop"}},
		Edges: []graph.Edge{{Source: "a", Target: "a", Directed: true}},
	})
	art, _, err := p.RenderWithStats(ctx, g, style.Style{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	svg := string(art.Data)
	if !strings.Contains(svg, style.DefaultEdgeColor) {
		t.Error("self-loop edge not drawn")
	}
	if !strings.Contains(svg, "C ") {
		t.Error("self-loop should route as a curve")
	}
}

func TestPipelineForceEngineDeterministic(t *testing.T) {
	ctx := context.Background()
	st := style.Style{Engine: style.EngineForce}

	render := func() *Artifact {
		p := New(nil, nil)
		defer p.Close()
		art, err := p.Render(ctx, twoNodeGraph(t), st)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		return art
	}

	if !bytes.Equal(render().Data, render().Data) {
		t.Error("force layout should be reproducible for the same fingerprint")
	}
}

func TestPipelineNilGraph(t *testing.T) {
	p := New(nil, nil)
	defer p.Close()

	_, _, err := p.RenderWithStats(context.Background(), nil, style.Style{})
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidGraph)
	}
}

func TestPipelineInvalidStyle(t *testing.T) {
	p := New(nil, nil)
	defer p.Close()
	g := twoNodeGraph(t)

	t.Run("unknown engine", func(t *testing.T) {
		_, err := p.Render(context.Background(), g, style.Style{Engine: "quantum"})
		if !errors.Is(err, errors.ErrCodeInvalidEngine) {
			t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidEngine)
		}
	})
	t.Run("unknown format", func(t *testing.T) {
		_, err := p.Render(context.Background(), g, style.Style{Format: "gif"})
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidFormat)
		}
	})
}

func TestPipelineRenderDescription(t *testing.T) {
	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()

	t.Run("valid", func(t *testing.T) {
		data := []byte(`{"nodes":[{"id":"a","label":"Alpha"},{"id":"b"}],"edges":[{"source":"a","target":"b","directed":true}]}`)
		art, stats, err := p.RenderDescription(ctx, data, style.Style{})
		if err != nil {
			t.Fatalf("RenderDescription: %v", err)
		}
		if art == nil || stats.NodeCount != 2 {
			t.Errorf("stats = %+v", stats)
		}
	})
	t.Run("unknown endpoint", func(t *testing.T) {
		data := []byte(`{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"ghost"}]}`)
		_, _, err := p.RenderDescription(ctx, data, style.Style{})
		if !errors.Is(err, errors.ErrCodeInvalidGraph) {
			t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidGraph)
		}
	})
	t.Run("duplicate node", func(t *testing.T) {
		data := []byte(`{"nodes":[{"id":"a"},{"id":"a"}]}`)
		_, _, err := p.RenderDescription(ctx, data, style.Style{})
		if !errors.Is(err, errors.ErrCodeInvalidGraph) {
			t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidGraph)
		}
	})
	t.Run("malformed json", func(t *testing.T) {
		_, _, err := p.RenderDescription(ctx, []byte(`{"nodes":`), style.Style{})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})
}

func TestPipelinePNG(t *testing.T) {
	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()
	g := twoNodeGraph(t)

	base, _, err := p.RenderWithStats(ctx, g, style.Style{Format: style.FormatPNG})
	if err != nil {
		t.Fatalf("png render: %v", err)
	}
	if !bytes.HasPrefix(base.Data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("artifact is not a PNG")
	}
	if base.ContentType != "image/png" {
		t.Errorf("content type = %s", base.ContentType)
	}

	// Doubling the DPI doubles the pixel grid, modulo rounding.
	dense, _, err := p.RenderWithStats(ctx, g, style.Style{Format: style.FormatPNG, DPI: 2 * style.DefaultDPI})
	if err != nil {
		t.Fatalf("png render at high dpi: %v", err)
	}
	if d := dense.Width - 2*base.Width; d < -2 || d > 2 {
		t.Errorf("widths %g and %g, want roughly double", base.Width, dense.Width)
	}
	if d := dense.Height - 2*base.Height; d < -2 || d > 2 {
		t.Errorf("heights %g and %g, want roughly double", base.Height, dense.Height)
	}
}

func TestPipelineInvalidate(t *testing.T) {
	rec := &recordingPipelineHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	p := New(nil, nil)
	defer p.Close()
	g := twoNodeGraph(t)

	first, stats, err := p.RenderWithStats(ctx, g, style.Style{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, s, _ := p.RenderWithStats(ctx, g, style.Style{}); !s.CacheHit {
		t.Fatal("expected a hit before invalidation")
	}

	if err := p.Invalidate(ctx, stats.Fingerprint); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	again, s3, err := p.RenderWithStats(ctx, g, style.Style{})
	if err != nil {
		t.Fatalf("render after invalidate: %v", err)
	}
	if s3.CacheHit {
		t.Error("invalidation should force a fresh render")
	}
	if !bytes.Equal(again.Data, first.Data) {
		t.Error("re-render should reproduce the same bytes")
	}
	if got := rec.layoutCount(); got != 2 {
		t.Errorf("layout ran %d times, want 2", got)
	}
}

func TestPipelineLayoutTimeout(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(CacheConfig{MaxBytes: 1 << 20, RenderTimeout: time.Millisecond})
	p := New(cache, nil)
	defer p.Close()

	g := chainGraph(t, 60)
	st := style.Style{Engine: style.EngineForce, Iterations: style.MaxIterations}
	_, _, err := p.RenderWithStats(ctx, g, st)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeTimeout)
	}
	if p.Cache().Len() != 0 {
		t.Error("timed-out render must not leave a cache entry")
	}
}
