// Package metrics exposes the render service's prometheus instrumentation.
//
// The collectors register with the default prometheus registry at import
// time; [Register] then points the observability registry at hook
// implementations that feed them. The server exposes the default registry
// on /metrics via promhttp.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/clipperviz/clipper/pkg/observability"
)

var (
	// rendersTotal counts completed render stages by artifact format.
	rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipper_renders_total",
			Help: "Completed render stages by artifact format and status",
		},
		[]string{"format", "status"},
	)

	// renderDuration tracks how long the paint and encode stage takes.
	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipper_render_duration_seconds",
			Help:    "Render stage duration by artifact format",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	// layoutsTotal counts layout runs by engine.
	layoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipper_layouts_total",
			Help: "Completed layout runs by engine and status",
		},
		[]string{"engine", "status"},
	)

	// layoutDuration tracks how long the layout stage takes.
	layoutDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipper_layout_duration_seconds",
			Help:    "Layout stage duration by engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	// cacheEventsTotal counts cache traffic by tier and event kind.
	cacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipper_cache_events_total",
			Help: "Cache hits, misses, sets, and evictions by tier",
		},
		[]string{"tier", "event"},
	)

	// cacheBytes tracks the bytes currently held by the in-memory tier.
	cacheBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipper_cache_bytes",
			Help: "Bytes of render artifacts held in the in-memory cache",
		},
	)

	// httpRequestsTotal counts API requests by route and status code.
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipper_http_requests_total",
			Help: "HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	// httpDuration tracks request handling time by route.
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipper_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		rendersTotal,
		renderDuration,
		layoutsTotal,
		layoutDuration,
		cacheEventsTotal,
		cacheBytes,
		httpRequestsTotal,
		httpDuration,
	)
}

// Register points the global observability registry at the prometheus hook
// implementations. Call it once at serve start, before traffic arrives.
func Register() {
	observability.SetPipelineHooks(pipelineHooks{})
	observability.SetCacheHooks(cacheHooks{})
	observability.SetHTTPHooks(httpHooks{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type pipelineHooks struct{ observability.NoopPipelineHooks }

func (pipelineHooks) OnLayoutComplete(_ context.Context, engine string, duration time.Duration, err error) {
	layoutsTotal.WithLabelValues(engine, outcome(err)).Inc()
	layoutDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

func (pipelineHooks) OnRenderComplete(_ context.Context, format string, _ int, duration time.Duration, err error) {
	rendersTotal.WithLabelValues(format, outcome(err)).Inc()
	renderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

type cacheHooks struct{ observability.NoopCacheHooks }

func (cacheHooks) OnCacheHit(_ context.Context, tier string) {
	cacheEventsTotal.WithLabelValues(tier, "hit").Inc()
}

func (cacheHooks) OnCacheMiss(_ context.Context, tier string) {
	cacheEventsTotal.WithLabelValues(tier, "miss").Inc()
}

func (cacheHooks) OnCacheSet(_ context.Context, tier string, bytes int) {
	cacheEventsTotal.WithLabelValues(tier, "set").Inc()
	if tier == observability.TierMemory {
		cacheBytes.Add(float64(bytes))
	}
}

// OnCacheEvict only ever fires for the in-memory tier; the backing store
// expires entries by TTL on its own.
func (cacheHooks) OnCacheEvict(_ context.Context, bytes int) {
	cacheEventsTotal.WithLabelValues(observability.TierMemory, "evict").Inc()
	cacheBytes.Sub(float64(bytes))
}

type httpHooks struct{ observability.NoopHTTPHooks }

func (httpHooks) OnResponse(_ context.Context, method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
