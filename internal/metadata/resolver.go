// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/devscholar/internal/cache"
	"github.com/pdiddy/devscholar/pkg/types"
)

// Resolver orchestrates metadata resolution: cache hits return
// immediately, misses fan out concurrently through the provider
// adapters, and successes flow back into both cache tiers.
type Resolver struct {
	cache     *cache.Cache
	providers map[types.IdentifierType]Provider
	w         io.Writer
}

// NewResolver builds a resolver over the given cache and provider set.
// Warnings (failed provider calls, unknown namespaces) go to w.
func NewResolver(c *cache.Cache, providers map[types.IdentifierType]Provider, w io.Writer) *Resolver {
	if w == nil {
		w = io.Discard
	}
	return &Resolver{cache: c, providers: providers, w: w}
}

// Resolve returns metadata for the given references. Cache misses are
// fetched concurrently — one task per reference, with same-provider
// tasks serialized only by that provider's rate limiter. A failing
// provider call is logged and skipped; it never aborts sibling calls.
// Output order is not guaranteed to match input order.
func (r *Resolver) Resolve(ctx context.Context, refs []types.Reference) []types.Metadata {
	var hits []types.Metadata
	var misses []types.Reference

	seen := make(map[string]bool)
	for _, ref := range refs {
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		if m := r.cache.Get(ref.Type, ref.ID); m != nil {
			hits = append(hits, *m)
			continue
		}
		misses = append(misses, ref)
	}

	if len(misses) == 0 {
		return hits
	}

	type result struct {
		ref types.Reference
		md  *types.Metadata
		err error
	}

	ch := make(chan result, len(misses))
	var wg sync.WaitGroup
	for _, ref := range misses {
		wg.Add(1)
		go func(ref types.Reference) {
			defer wg.Done()
			p, ok := r.providers[ref.Type]
			if !ok {
				ch <- result{ref: ref, err: fmt.Errorf("no provider configured for %s", ref.Type)}
				return
			}
			md, err := p.Resolve(ctx, ref.ID, ref.Version)
			ch <- result{ref: ref, md: md, err: err}
		}(ref)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var resolved []types.Metadata
	for res := range ch {
		if res.err != nil {
			fmt.Fprintf(r.w, "warning: resolving %s:%s failed: %v\n", res.ref.Type, res.ref.ID, res.err)
			continue
		}
		if res.md == nil {
			// Identifier unknown upstream; not an error.
			continue
		}
		resolved = append(resolved, *res.md)
	}

	r.cache.PutAll(resolved)
	return append(hits, resolved...)
}
