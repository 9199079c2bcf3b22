// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package devscholar bundles reference extraction, metadata resolution,
// and the two-tier cache behind one engine facade.
package devscholar

import (
	"context"
	"io"

	"github.com/pdiddy/devscholar/internal/cache"
	"github.com/pdiddy/devscholar/internal/metadata"
	"github.com/pdiddy/devscholar/internal/refextract"
	"github.com/pdiddy/devscholar/pkg/types"
)

// Engine is the top-level entry point. It owns the extractor, the
// provider set, and the cache; one Engine is intended to live for the
// whole process.
type Engine struct {
	extractor *refextract.Extractor
	cache     *cache.Cache
	resolver  *metadata.Resolver
	providers map[types.IdentifierType]metadata.Provider
}

// New builds an engine from the given configuration. Warnings (cache IO
// degradation, failed provider calls) go to w; a nil w discards them.
func New(cfg types.EngineConfig, w io.Writer) *Engine {
	if w == nil {
		w = io.Discard
	}
	c := cache.New(cfg.Cache, w)
	providers := metadata.DefaultProviders(cfg.Resolver)
	return &Engine{
		extractor: refextract.NewExtractor(nil),
		cache:     c,
		resolver:  metadata.NewResolver(c, providers, w),
		providers: providers,
	}
}

// Extract scans document lines for references in comment lines,
// deduplicated per document.
func (e *Engine) Extract(lines []string) []types.Reference {
	return e.extractor.ScanDocument(lines)
}

// ExtractLine scans a single line without the comment filter or
// deduplication. Used for hover-style lookups where the caller already
// knows the line is of interest.
func (e *Engine) ExtractLine(line string) []types.Reference {
	return e.extractor.ScanLine(line)
}

// Resolve returns metadata for the given references, consulting the
// cache first and fetching misses concurrently.
func (e *Engine) Resolve(ctx context.Context, refs []types.Reference) []types.Metadata {
	return e.resolver.Resolve(ctx, refs)
}

// GetCached returns the cached record for an identifier without going
// to the network, or nil when absent or expired.
func (e *Engine) GetCached(t types.IdentifierType, id string) *types.Metadata {
	return e.cache.Get(t, id)
}

// CachedRecords returns every live cache entry.
func (e *Engine) CachedRecords() []types.Metadata {
	return e.cache.Records()
}

// ClearCache drops both cache tiers.
func (e *Engine) ClearCache() error {
	return e.cache.Clear()
}

// CacheStats reports entry counts for both cache tiers.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Search runs a free-text paper search through OpenAlex.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	p := e.providers[types.TypeOpenAlex].(*metadata.OpenAlexProvider)
	return p.Search(ctx, query, limit)
}

// Close flushes and releases the cache.
func (e *Engine) Close() {
	e.cache.Close()
}
