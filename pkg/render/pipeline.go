package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clipperviz/clipper/pkg/errors"
	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/layout"
	"github.com/clipperviz/clipper/pkg/observability"
	"github.com/clipperviz/clipper/pkg/style"
	"github.com/clipperviz/clipper/pkg/surface"
)

// sourceInline labels parse hook events for descriptions that arrive as
// bytes rather than from a named file.
const sourceInline = "inline"

// Pipeline turns graphs into encoded image artifacts, memoized by content
// fingerprint.
//
// The Pipeline is stateless except for the cache and logger. It is created
// once at service start, shared by every goroutine, and torn down with
// Close.
type Pipeline struct {
	cache *Cache
	log   *log.Logger
}

// New creates a pipeline backed by the given cache.
// If cache is nil, a default in-memory cache with no backing store is used.
// If logger is nil, log.Default() is used.
func New(cache *Cache, logger *log.Logger) *Pipeline {
	if cache == nil {
		cache = NewCache(CacheConfig{})
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{cache: cache, log: logger}
}

// Stats reports where one render call's time went and whether a cache tier
// served it.
type Stats struct {
	// Fingerprint is the content digest of the rendered inputs.
	Fingerprint string

	// CacheHit reports whether the artifact came from a cache tier or a
	// shared in-flight render rather than a render paid for by this call.
	CacheHit bool

	// NodeCount and EdgeCount describe the rendered graph.
	NodeCount int
	EdgeCount int

	// LayoutDuration and RenderDuration are zero on cache hits.
	LayoutDuration time.Duration
	RenderDuration time.Duration
}

// renderTiming carries stage durations out of a render attempt. It is
// written inside the render function and read only after the cache reports
// a miss, which orders the accesses.
type renderTiming struct {
	layout time.Duration
	render time.Duration
}

// Render produces the artifact for a graph and style. It is the cache-aware
// entry point: the render runs at most once per fingerprint regardless of
// concurrent callers.
func (p *Pipeline) Render(ctx context.Context, g *graph.Graph, st style.Style) (*Artifact, error) {
	art, _, err := p.RenderWithStats(ctx, g, st)
	return art, err
}

// RenderWithStats renders and additionally reports cache and timing
// information for display by the CLI and server.
func (p *Pipeline) RenderWithStats(ctx context.Context, g *graph.Graph, st style.Style) (*Artifact, Stats, error) {
	if g == nil {
		return nil, Stats{}, errors.New(errors.ErrCodeInvalidGraph, "nil graph")
	}
	if err := st.Normalize(); err != nil {
		return nil, Stats{}, err
	}

	fp, err := Fingerprint(g, st)
	if err != nil {
		return nil, Stats{}, errors.Wrap(errors.ErrCodeInternal, err, "fingerprint graph")
	}
	stats := Stats{
		Fingerprint: fp,
		NodeCount:   g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
	}

	var timing renderTiming
	art, hit, err := p.cache.GetOrRender(ctx, fp, func(rctx context.Context) (*Artifact, error) {
		return p.renderOnce(rctx, g, st, fp, &timing)
	})
	if err != nil {
		return nil, stats, err
	}

	stats.CacheHit = hit
	if !hit {
		stats.LayoutDuration = timing.layout
		stats.RenderDuration = timing.render
	}
	return art, stats, nil
}

// RenderDescription parses a serialized graph description and renders it.
// Construction failures surface as coded errors: structural violations as
// ErrCodeInvalidGraph, malformed encoding as ErrCodeInvalidInput.
func (p *Pipeline) RenderDescription(ctx context.Context, data []byte, st style.Style) (*Artifact, Stats, error) {
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnParseStart(ctx, sourceInline)
	g, err := graph.ParseDescription(data)
	if err != nil {
		hooks.OnParseComplete(ctx, sourceInline, 0, time.Since(start), err)
		return nil, Stats{}, codeParseError(err)
	}
	hooks.OnParseComplete(ctx, sourceInline, g.NodeCount(), time.Since(start), nil)

	return p.RenderWithStats(ctx, g, st)
}

// Invalidate force-evicts the artifact for a fingerprint from every cache
// tier. An in-flight render is not interrupted and may repopulate the cache
// when it completes.
func (p *Pipeline) Invalidate(ctx context.Context, fingerprint string) error {
	if err := p.cache.Invalidate(ctx, fingerprint); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "invalidate %s", shortFP(fingerprint))
	}
	p.log.Debug("invalidated artifact", "fingerprint", shortFP(fingerprint))
	return nil
}

// Cache exposes the artifact cache for introspection.
func (p *Pipeline) Cache() *Cache { return p.cache }

// Close tears down the pipeline's process-scoped resources.
func (p *Pipeline) Close() error { return p.cache.Close() }

// renderOnce runs the layout → paint → encode sequence for one cache miss.
// Failures carry a code for the service boundary and never leave partial
// cache state behind.
func (p *Pipeline) renderOnce(ctx context.Context, g *graph.Graph, st style.Style, fp string, timing *renderTiming) (*Artifact, error) {
	hooks := observability.Pipeline()

	engine, err := layout.New(st.Engine)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEngine, err, "select layout engine")
	}

	opts := layout.Options{
		NodeSpacing: st.NodeSpacing,
		RankSpacing: st.RankSpacing,
		Margin:      st.Margin,
		EdgeRouting: st.EdgeRouting,
		FontSize:    st.FontSize,
		Iterations:  st.Iterations,
		Seed:        Seed(fp),
	}

	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, engine.Name(), g.NodeCount())
	l, err := engine.Layout(ctx, g, opts)
	timing.layout = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, engine.Name(), timing.layout, err)
	if err != nil {
		if stderrors.Is(err, layout.ErrLayoutTimeout) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "layout %d nodes", g.NodeCount())
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "layout %d nodes", g.NodeCount())
	}

	renderStart := time.Now()
	hooks.OnRenderStart(ctx, st.Format)

	surf, err := surface.New(st.Format, l.Width, l.Height, surface.Options{
		DPI:        float64(st.DPI),
		Background: st.Background,
	})
	if err != nil {
		hooks.OnRenderComplete(ctx, st.Format, 0, time.Since(renderStart), err)
		return nil, errors.Wrap(errors.ErrCodeRender, err, "create %s surface", st.Format)
	}

	paint(surf, g, l, st)

	var buf bytes.Buffer
	if err := surf.Encode(&buf); err != nil {
		hooks.OnRenderComplete(ctx, st.Format, 0, time.Since(renderStart), err)
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode %s artifact", st.Format)
	}
	timing.render = time.Since(renderStart)

	art := &Artifact{
		Data:        buf.Bytes(),
		Format:      st.Format,
		ContentType: surf.ContentType(),
		Width:       l.Width,
		Height:      l.Height,
		Fingerprint: fp,
	}
	// Raster artifacts report the encoded pixel grid, which scales with
	// DPI; vector artifacts report the logical point extent.
	if r, ok := surf.(*surface.Raster); ok {
		w, h := r.PixelSize()
		art.Width, art.Height = float64(w), float64(h)
	}

	hooks.OnRenderComplete(ctx, st.Format, len(art.Data), timing.render, nil)
	p.log.Debug("rendered artifact",
		"fingerprint", shortFP(fp),
		"format", st.Format,
		"nodes", g.NodeCount(),
		"bytes", len(art.Data),
		"layout", timing.layout,
		"render", timing.render)
	return art, nil
}

// codeParseError maps graph construction failures onto service error codes.
func codeParseError(err error) error {
	switch {
	case stderrors.Is(err, graph.ErrDuplicateNode),
		stderrors.Is(err, graph.ErrUnknownNode),
		stderrors.Is(err, graph.ErrInvalidNodeID),
		stderrors.Is(err, graph.ErrInvalidShape),
		stderrors.Is(err, graph.ErrInvalidArrow),
		stderrors.Is(err, graph.ErrInvalidSize):
		return errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph description")
	default:
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse graph description")
	}
}
