package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iloginov/tasker/pkg/cache"
	"github.com/iloginov/tasker/pkg/graph"
	"github.com/iloginov/tasker/pkg/layout"
	"github.com/iloginov/tasker/pkg/observability"
	"github.com/iloginov/tasker/pkg/render/dot"
)

// RenderWithCacheInfo renders every requested format and reports whether all
// of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, labels map[string]string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, labels))
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				observability.Cache().OnCacheError(ctx, keyTypeArtifact, err)
			}
			if err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
		allCached = false

		data, err := RenderFormat(ctx, res, labels, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.store(ctx, keyTypeArtifact, key, data, r.ttl(cache.TTLArtifact))
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *layout.Result, labels map[string]string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, labels, opts)
	return artifacts, err
}

// RenderFormat renders a layout in one format without caching.
func RenderFormat(ctx context.Context, res *layout.Result, labels map[string]string, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		doc := graph.Export(res, "", labels)
		return graph.MarshalLayout(doc)
	case FormatDOT:
		return []byte(dot.ToDOT(res, dot.Options{Labels: labels, Detailed: opts.Detailed})), nil
	case FormatSVG:
		svg, err := dot.RenderSVG(ctx, dot.ToDOT(res, dot.Options{Labels: labels, Detailed: opts.Detailed}))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	default:
		return nil, ValidateFormat(format)
	}
}
