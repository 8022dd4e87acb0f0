package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sumnatarya/Synapse/pkg/cache"
	"github.com/sumnatarya/Synapse/pkg/errors"
	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/observability"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	h, root, truncated, err := r.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Hierarchy = h
	result.Truncated = truncated
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = h.Len()
	result.Stats.MaxDepth = h.MaxDepth()

	if data, err := json.Marshal(root); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	r.Logger.Info("built hierarchy",
		"nodes", h.Len(),
		"depth", h.MaxDepth(),
		"duration", result.Stats.BuildTime)
	if truncated {
		r.Logger.Warn("tree exceeds depth cap, deeper levels dropped",
			"max_depth", tree.MaxDepth)
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	lay, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, h, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = lay
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"positions", len(lay.Positions),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, h, lay, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build parses the input tree document into an indexed hierarchy.
// The returned bool reports whether the tree was truncated at the depth cap.
func (r *Runner) Build(ctx context.Context, opts Options) (*tree.Hierarchy, *tree.RawNode, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	source := opts.Input
	if source == "" {
		source = "inline"
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, source)
	start := time.Now()

	root := opts.Tree
	if root == nil {
		var err error
		root, err = tree.ReadTreeFile(opts.Input)
		if err != nil {
			hooks.OnBuildComplete(ctx, source, 0, time.Since(start), err)
			return nil, nil, false, err
		}
	}

	h, err := tree.Build(root)
	truncated := false
	if err != nil {
		if errors.GetCode(err) != errors.ErrCodeTreeTooDeep {
			hooks.OnBuildComplete(ctx, source, 0, time.Since(start), err)
			return nil, nil, false, err
		}
		// Deep trees are cut off at the cap rather than rejected.
		truncated = true
	}

	hooks.OnBuildComplete(ctx, source, h.Len(), time.Since(start), nil)
	return h, root, truncated, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info. treeHash keys the cache entry; pass "" to skip caching.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, h *tree.Hierarchy, treeHash string, opts Options) (*layout.Layout, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, h.Len())
	start := time.Now()

	var cacheKey string
	if treeHash != "" {
		cacheKey = r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil && len(cached.Positions) == h.Len() {
				// Node IDs are deterministic for a given document, so a
				// cached layout is valid for this build; only the
				// generation tag needs refreshing.
				cached.Generation = h.Generation()
				observability.Cache().OnCacheHit(ctx, "layout")
				hooks.OnLayoutComplete(ctx, time.Since(start), nil)
				return &cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	lay, err := layout.Compute(h, opts.Bounds(), layout.Options{MarginY: opts.MarginY})
	if err != nil {
		hooks.OnLayoutComplete(ctx, time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if cacheKey != "" {
		if data, err := json.Marshal(lay); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	hooks.OnLayoutComplete(ctx, time.Since(start), nil)
	return lay, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, h *tree.Hierarchy, opts Options) (*layout.Layout, error) {
	lay, _, err := r.ComputeLayoutWithCacheInfo(ctx, h, "", opts)
	return lay, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, h *tree.Hierarchy, lay *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from layout data. The generation tag changes on
	// every build of the same document, so it is excluded from the key.
	keyLayout := *lay
	keyLayout.Generation = ""
	layoutData, err := json.Marshal(&keyLayout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	// Render all formats
	rendered, err := renderArtifacts(ctx, h, lay, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, h *tree.Hierarchy, lay *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, h, lay, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
