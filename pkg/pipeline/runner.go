package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iloginov/tasker/pkg/cache"
	"github.com/iloginov/tasker/pkg/dag"
	terrors "github.com/iloginov/tasker/pkg/errors"
	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/layout"
	"github.com/iloginov/tasker/pkg/observability"
	"github.com/iloginov/tasker/pkg/tasks"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL, when positive, replaces cache.TTLLayout and cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// WithKeyer returns a runner sharing r's cache and logger but deriving keys
// with keyer. The HTTP API uses it to scope keys per project.
func (r *Runner) WithKeyer(keyer cache.Keyer) *Runner {
	cp := *r
	cp.Keyer = keyer
	return &cp
}

// Execute lays out doc and renders every requested format.
func (r *Runner) Execute(ctx context.Context, doc *graph.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Layout, result.Labels, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out doc, serving the layout from cache when the
// same input was laid out with the same options before.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc *graph.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	nodes, edges := doc.Input(opts.Sizer())
	result := &Result{
		GraphHash: graph.Hash(nodes, edges),
		Labels:    doc.Labels(),
		Stats:     Stats{NodeCount: len(nodes), EdgeCount: len(edges)},
	}

	start := time.Now()
	res, hit, err := r.layout(ctx, nodes, edges, result.GraphHash, opts)
	result.Stats.LayoutTime = time.Since(start)
	if err != nil {
		r.Logger.Debug("layout failed", "nodes", len(nodes), "edges", len(edges), "err", err)
		return nil, err
	}
	result.Layout = res
	result.Stats.RankCount = len(res.Ranks)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"ranks", result.Stats.RankCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and returns
// only the layout.
func (r *Runner) Layout(ctx context.Context, doc *graph.Document, opts Options) (*layout.Result, error) {
	result, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	return result.Layout, nil
}

func (r *Runner) layout(ctx context.Context, nodes []dag.Node, edges []dag.Edge, graphHash string, opts Options) (*layout.Result, bool, error) {
	hooks := observability.Layout()
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedLayout(ctx, cacheKey); ok {
			return res, true, nil
		}
	}

	hooks.OnLayoutStart(ctx, len(nodes), len(edges))
	start := time.Now()
	res, err := layout.Build(nodes, edges, opts.LayoutOptions()...)
	if err != nil {
		err = terrors.FromLayout(err)
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, len(res.Ranks), time.Since(start), nil)

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, keyTypeLayout, cacheKey, data, r.ttl(cache.TTLLayout))
	}
	return res, false, nil
}

// cachedLayout returns the layout stored under key. Undecodable entries are
// treated as misses.
func (r *Runner) cachedLayout(ctx context.Context, key string) (*layout.Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		hooks.OnCacheError(ctx, keyTypeLayout, err)
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		return nil, false
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyTypeLayout)
	return &res, true
}

// store writes to the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// CheckDependency reports whether the edge from -> to could be added to doc.
// It returns nil when the edge is acceptable, a CYCLE_DETECTED error naming
// the cycle it would close, or INVALID_GRAPH when doc itself is invalid or
// the edge is malformed.
func (r *Runner) CheckDependency(ctx context.Context, doc *graph.Document, from, to string) error {
	nodes, edges := doc.Input(tasks.DefaultSizer())
	g, err := dag.Build(nodes, edges)
	if err != nil {
		return terrors.FromLayout(err)
	}
	err = terrors.FromLayout(g.CheckEdge(dag.Edge{From: from, To: to}))
	observability.Layout().OnDependencyCheck(ctx, from, to, err)
	if err != nil {
		r.Logger.Debug("dependency rejected", "from", from, "to", to, "err", terrors.UserMessage(err))
	}
	return err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}
