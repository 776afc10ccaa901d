package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quest-sync/core/classify"
	"quest-sync/core/models"
	"quest-sync/core/source"
)

// ErrNilSource is returned when the mandatory source is missing.
var ErrNilSource = errors.New("reconcile: source A is required")

// cacheEntry is replaced wholesale, never mutated after it is stored.
type cacheEntry struct {
	result *Result
	byID   map[int]int
}

func (c *cacheEntry) isExpired(now time.Time, ttl time.Duration) bool {
	if ttl < 0 {
		return true
	}
	return now.Sub(c.result.Built) > ttl
}

// Reconciler produces the reconciled record set and caches it briefly.
type Reconciler struct {
	a, b   source.Source
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	current atomic.Pointer[cacheEntry]
	sf      singleflight.Group
}

// NewReconciler creates a Reconciler. Source b may be nil.
func NewReconciler(a, b source.Source, opts Options, logger *zap.Logger) (*Reconciler, error) {
	if a == nil {
		return nil, ErrNilSource
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Reconciler{a: a, b: b, ttl: ttl, now: now, logger: logger}, nil
}

// Refresh always fetches both sources, merges, classifies and replaces the cache.
func (r *Reconciler) Refresh(ctx context.Context) (*Result, error) {
	v, err, _ := r.sf.Do("refresh", func() (interface{}, error) {
		return r.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// Records returns the cached record set, rebuilding it if missing or expired.
func (r *Reconciler) Records(ctx context.Context) ([]models.Quest, error) {
	entry, err := r.entry(ctx)
	if err != nil {
		return nil, err
	}
	return entry.result.Records, nil
}

// Get returns one reconciled record from the cached set.
func (r *Reconciler) Get(ctx context.Context, id int) (*models.Quest, error) {
	entry, err := r.entry(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := entry.byID[id]
	if !ok {
		return nil, source.ErrNotFound
	}
	q := entry.result.Records[i]
	return &q, nil
}

// Invalidate drops the cached set. Every write path must call it.
func (r *Reconciler) Invalidate() {
	r.current.Store(nil)
}

// Cached reports whether a fresh set is currently held.
func (r *Reconciler) Cached() bool {
	entry := r.current.Load()
	return entry != nil && !entry.isExpired(r.now(), r.ttl)
}

func (r *Reconciler) entry(ctx context.Context) (*cacheEntry, error) {
	// Fast path: check if cache exists and is fresh
	if entry := r.current.Load(); entry != nil && !entry.isExpired(r.now(), r.ttl) {
		return entry, nil
	}

	// Slow path: build using singleflight to prevent stampedes
	_, err, _ := r.sf.Do("refresh", func() (interface{}, error) {
		if entry := r.current.Load(); entry != nil && !entry.isExpired(r.now(), r.ttl) {
			return entry.result, nil
		}
		return r.build(ctx)
	})
	if err != nil {
		return nil, err
	}

	entry := r.current.Load()
	if entry == nil {
		// Invalidated between build and read, or caching disabled.
		res, err := r.build(ctx)
		if err != nil {
			return nil, err
		}
		return newEntry(res), nil
	}
	return entry, nil
}

func (r *Reconciler) build(ctx context.Context) (*Result, error) {
	fetched, err := source.FetchAll(ctx, r.a, r.b, r.logger)
	if err != nil {
		return nil, err
	}

	merged := Merge(fetched.A, fetched.B)
	classify.ApplyAll(merged)

	res := &Result{
		Records: merged,
		Built:   r.now(),
		Summary: summarize(fetched, merged),
	}
	r.current.Store(newEntry(res))

	r.logger.Info("Reconciled sources",
		zap.Int("source_a", res.Summary.SourceA),
		zap.Int("source_b", res.Summary.SourceB),
		zap.Int("merged", res.Summary.Merged),
		zap.Int("enriched", res.Summary.Enriched),
		zap.Int("dropped_b_only", res.Summary.DroppedBOnly),
	)
	return res, nil
}

func newEntry(res *Result) *cacheEntry {
	byID := make(map[int]int, len(res.Records))
	for i, q := range res.Records {
		byID[q.ID] = i
	}
	return &cacheEntry{result: res, byID: byID}
}

func summarize(f *source.Fetched, merged []models.Quest) Summary {
	aIDs := make(map[int]struct{}, len(f.A))
	for _, q := range f.A {
		aIDs[q.ID] = struct{}{}
	}
	bIDs := make(map[int]struct{}, len(f.B))
	for _, q := range f.B {
		bIDs[q.ID] = struct{}{}
	}

	s := Summary{
		SourceA:          len(f.A),
		SourceB:          len(f.B),
		SourceAAvailable: f.AAvailable,
		SourceBAvailable: f.BAvailable,
		Merged:           len(merged),
	}
	for id := range bIDs {
		if _, ok := aIDs[id]; ok {
			s.Enriched++
		} else {
			s.DroppedBOnly++
		}
	}
	return s
}
