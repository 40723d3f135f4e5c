package render

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clipperviz/clipper/pkg/observability"
	"github.com/clipperviz/clipper/pkg/store"
)

// Cache defaults, applied by [NewCache] for zero-valued config fields.
const (
	// DefaultMaxBytes is the in-memory artifact byte budget.
	DefaultMaxBytes = 64 << 20

	// DefaultRenderTimeout bounds one render attempt wall-clock.
	DefaultRenderTimeout = 30 * time.Second

	// DefaultStoreTTL is how long artifacts live in the backing store.
	DefaultStoreTTL = 24 * time.Hour
)

// CacheConfig configures a render cache.
type CacheConfig struct {
	// MaxBytes is the artifact byte budget for the in-memory tier. Entries
	// are evicted least recently used first once the total exceeds it.
	MaxBytes int64

	// RenderTimeout bounds one render attempt. The render runs on a
	// context detached from the requesting caller, so this timeout is the
	// only thing that can cut it short.
	RenderTimeout time.Duration

	// TTL is the lifetime of artifacts written to Store.
	TTL time.Duration

	// Store is the optional second tier, consulted on memory misses and
	// written best-effort after successful renders. Nil disables it.
	Store store.Store

	// Logger receives cache diagnostics. Nil means log.Default().
	Logger *log.Logger
}

// RenderFunc produces the artifact for one fingerprint on a cache miss.
type RenderFunc func(ctx context.Context) (*Artifact, error)

// renderSlot is one in-flight render. artifact, err, and fromStore are
// written exactly once, before done is closed; closing done publishes them
// to every waiter.
type renderSlot struct {
	done      chan struct{}
	artifact  *Artifact
	err       error
	fromStore bool
}

// entry is one materialized artifact plus its LRU bookkeeping.
type entry struct {
	fingerprint string
	artifact    *Artifact
	added       time.Time
}

// Cache memoizes render artifacts by fingerprint in two tiers: a bounded
// in-memory LRU and an optional byte-addressed store behind it.
//
// Each fingerprint moves through three states. Absent: no entry and no
// render under way. Pending: exactly one render in flight; callers arriving
// meanwhile wait on it instead of starting another. Ready: the artifact is
// materialized in the LRU. A failed or timed-out render returns the
// fingerprint to Absent, so any later caller retries with a fresh attempt.
//
// Pending renders live in the slot table, not the LRU, so eviction pressure
// can never interrupt one. A fingerprint evicted under pressure is simply
// re-rendered on next use.
type Cache struct {
	cfg CacheConfig
	log *log.Logger

	mu    sync.Mutex
	slots map[string]*renderSlot
	lru   *list.List
	index map[string]*list.Element
	bytes int64
}

// NewCache creates a render cache. Zero-valued config fields take the
// package defaults.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = DefaultRenderTimeout
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultStoreTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Cache{
		cfg:   cfg,
		log:   cfg.Logger,
		slots: make(map[string]*renderSlot),
		lru:   list.New(),
		index: make(map[string]*list.Element),
	}
}

// GetOrRender returns the artifact for a fingerprint, invoking render at
// most once across all concurrent callers of the same fingerprint.
//
// The bool result reports whether the artifact came from a cache tier
// rather than a render paid for by this caller: memory hits, store hits,
// and joining an already in-flight render all count as hits; the caller
// that started the render counts as a miss.
//
// Cancelling the caller's context abandons only that caller's wait. The
// render itself runs on a detached context bounded by the configured
// timeout and keeps going for any remaining waiters.
func (c *Cache) GetOrRender(ctx context.Context, fingerprint string, render RenderFunc) (*Artifact, bool, error) {
	c.mu.Lock()

	if el, ok := c.index[fingerprint]; ok {
		c.lru.MoveToFront(el)
		art := el.Value.(*entry).artifact
		c.mu.Unlock()
		observability.Cache().OnCacheHit(ctx, observability.TierMemory)
		return art, true, nil
	}

	if slot, ok := c.slots[fingerprint]; ok {
		c.mu.Unlock()
		return c.wait(ctx, slot, true)
	}

	slot := &renderSlot{done: make(chan struct{})}
	c.slots[fingerprint] = slot
	c.mu.Unlock()

	observability.Cache().OnCacheMiss(ctx, observability.TierMemory)
	go c.produce(ctx, fingerprint, slot, render)
	return c.wait(ctx, slot, false)
}

// wait blocks until the slot resolves or the caller's context ends. joined
// marks callers that attached to a render someone else started.
func (c *Cache) wait(ctx context.Context, slot *renderSlot, joined bool) (*Artifact, bool, error) {
	select {
	case <-slot.done:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
	if slot.err != nil {
		return nil, false, slot.err
	}
	return slot.artifact, joined || slot.fromStore, nil
}

// produce runs one render attempt and resolves the slot exactly once. It
// detaches from the requesting caller's cancellation so that waiter
// cancellation never aborts the render, keeping only the caller's values
// for hooks and loggers.
func (c *Cache) produce(ctx context.Context, fingerprint string, slot *renderSlot, render RenderFunc) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.RenderTimeout)
	defer cancel()

	art := c.lookupStore(rctx, fingerprint)
	var err error
	if art != nil {
		slot.fromStore = true
	} else {
		art, err = render(rctx)
	}

	c.mu.Lock()
	delete(c.slots, fingerprint)
	var admitted int64
	var evicted []int64
	if err == nil {
		admitted, evicted = c.admitLocked(fingerprint, art)
	}
	c.mu.Unlock()

	// Slot fields must be in place before done closes; the close is what
	// publishes them to waiters.
	slot.artifact = art
	slot.err = err
	close(slot.done)

	hooks := observability.Cache()
	if admitted > 0 {
		hooks.OnCacheSet(rctx, observability.TierMemory, int(admitted))
	}
	for _, size := range evicted {
		hooks.OnCacheEvict(rctx, int(size))
	}

	if err == nil && !slot.fromStore {
		c.writeStore(rctx, fingerprint, art)
	}
}

// admitLocked materializes a finished artifact under the byte budget and
// returns its admitted size plus the sizes of anything evicted to make
// room. Callers hold c.mu.
//
// An artifact larger than the whole budget is served to its waiters but
// never admitted; caching it would immediately evict everything else.
func (c *Cache) admitLocked(fingerprint string, art *Artifact) (admitted int64, evicted []int64) {
	size := art.Size()
	if size > c.cfg.MaxBytes {
		c.log.Debug("artifact exceeds cache budget, serving uncached",
			"fingerprint", shortFP(fingerprint), "bytes", size, "budget", c.cfg.MaxBytes)
		return 0, nil
	}

	if el, ok := c.index[fingerprint]; ok {
		old := el.Value.(*entry).artifact.Size()
		c.bytes -= old
		c.lru.Remove(el)
		delete(c.index, fingerprint)
		evicted = append(evicted, old)
	}

	c.index[fingerprint] = c.lru.PushFront(&entry{
		fingerprint: fingerprint,
		artifact:    art,
		added:       time.Now(),
	})
	c.bytes += size

	for c.bytes > c.cfg.MaxBytes && c.lru.Len() > 0 {
		el := c.lru.Back()
		ent := el.Value.(*entry)
		c.lru.Remove(el)
		delete(c.index, ent.fingerprint)
		c.bytes -= ent.artifact.Size()
		evicted = append(evicted, ent.artifact.Size())
		c.log.Debug("evicted artifact",
			"fingerprint", shortFP(ent.fingerprint), "bytes", ent.artifact.Size())
	}
	return size, evicted
}

// lookupStore consults the second tier. Store failures and corrupt
// envelopes degrade to a render rather than an error; corrupt entries are
// deleted so they stop costing a decode on every miss.
func (c *Cache) lookupStore(ctx context.Context, fingerprint string) *Artifact {
	if c.cfg.Store == nil {
		return nil
	}

	data, ok, err := c.cfg.Store.Get(ctx, fingerprint)
	if err != nil {
		c.log.Warn("artifact store get failed", "fingerprint", shortFP(fingerprint), "err", err)
		return nil
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, observability.TierStore)
		return nil
	}

	var art Artifact
	if err := art.UnmarshalBinary(data); err != nil {
		c.log.Warn("dropping corrupt artifact envelope",
			"fingerprint", shortFP(fingerprint), "err", err)
		_ = c.cfg.Store.Delete(ctx, fingerprint)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, observability.TierStore)
	return &art
}

// writeStore persists a fresh artifact to the second tier. Best effort:
// retryable store errors get a backoff, and anything still failing degrades
// to a log line rather than failing the render.
func (c *Cache) writeStore(ctx context.Context, fingerprint string, art *Artifact) {
	if c.cfg.Store == nil {
		return
	}

	data, err := art.MarshalBinary()
	if err != nil {
		c.log.Warn("encode artifact envelope failed", "fingerprint", shortFP(fingerprint), "err", err)
		return
	}

	err = store.RetryWithBackoff(ctx, func() error {
		return c.cfg.Store.Set(ctx, fingerprint, data, c.cfg.TTL)
	})
	if err != nil {
		c.log.Warn("artifact store set failed", "fingerprint", shortFP(fingerprint), "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, observability.TierStore, len(data))
}

// Invalidate force-evicts a fingerprint from memory and from the backing
// store. An in-flight render for the fingerprint is not interrupted and
// will repopulate the cache when it completes.
func (c *Cache) Invalidate(ctx context.Context, fingerprint string) error {
	var removed int64
	c.mu.Lock()
	if el, ok := c.index[fingerprint]; ok {
		removed = el.Value.(*entry).artifact.Size()
		c.bytes -= removed
		c.lru.Remove(el)
		delete(c.index, fingerprint)
	}
	c.mu.Unlock()

	if removed > 0 {
		observability.Cache().OnCacheEvict(ctx, int(removed))
	}

	if c.cfg.Store == nil {
		return nil
	}
	return c.cfg.Store.Delete(ctx, fingerprint)
}

// EntryInfo describes one materialized cache entry.
type EntryInfo struct {
	Fingerprint string
	Format      string
	Bytes       int64
	Age         time.Duration
}

// Entries returns a snapshot of the materialized entries, most recently
// used first.
func (c *Cache) Entries() []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	out := make([]EntryInfo, 0, c.lru.Len())
	for el := c.lru.Front(); el != nil; el = el.Next() {
		ent := el.Value.(*entry)
		out = append(out, EntryInfo{
			Fingerprint: ent.fingerprint,
			Format:      ent.artifact.Format,
			Bytes:       ent.artifact.Size(),
			Age:         now.Sub(ent.added),
		})
	}
	return out
}

// Size returns the total bytes of materialized artifacts.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// Len returns the number of materialized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Budget returns the configured byte budget.
func (c *Cache) Budget() int64 { return c.cfg.MaxBytes }

// Close releases the backing store, if any.
func (c *Cache) Close() error {
	if c.cfg.Store == nil {
		return nil
	}
	return c.cfg.Store.Close()
}
