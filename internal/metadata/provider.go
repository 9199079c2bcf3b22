// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata resolves paper identifiers against external metadata
// providers and orchestrates caching of the results.
package metadata

import (
	"context"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/devscholar/internal/httputil"
	"github.com/pdiddy/devscholar/internal/ratelimit"
	"github.com/pdiddy/devscholar/pkg/types"
)

// Provider resolves one identifier namespace. Resolve returns (nil, nil)
// when the identifier is unknown upstream (a 404-equivalent); transport
// failures are returned as errors for the resolver to log and treat as
// absent. Implementations must not write shared state beyond their rate
// limiter's clock.
type Provider interface {
	Type() types.IdentifierType
	Resolve(ctx context.Context, id, versionHint string) (*types.Metadata, error)
}

// DefaultProviders builds the full provider set sharing one HTTP client.
// OpenAlex and PubMed lookups hit the same upstream API, so they share a
// limiter; every other provider is gated independently.
func DefaultProviders(cfg types.ResolverConfig) map[types.IdentifierType]Provider {
	client := httputil.NewClient(cfg.HTTPConfig)

	arxivLimiter := ratelimit.New(orDefault(cfg.ArxivInterval, ratelimit.DefaultArxivInterval))
	crossrefLimiter := ratelimit.New(orDefault(cfg.CrossRefInterval, ratelimit.DefaultCrossRefInterval))
	semanticLimiter := ratelimit.New(orDefault(cfg.SemanticScholarInterval, ratelimit.DefaultSemanticScholarInterval))
	openAlexLimiter := ratelimit.New(orDefault(cfg.OpenAlexInterval, ratelimit.DefaultOpenAlexInterval))

	return map[types.IdentifierType]Provider{
		types.TypeArxiv:           &ArxivProvider{Client: client, Limiter: arxivLimiter, Config: cfg},
		types.TypeDOI:             &CrossRefProvider{Client: client, Limiter: crossrefLimiter, Config: cfg},
		types.TypeSemanticScholar: &SemanticScholarProvider{Client: client, Limiter: semanticLimiter, Config: cfg},
		types.TypeOpenAlex:        &OpenAlexProvider{Client: client, Limiter: openAlexLimiter, Config: cfg, IDType: types.TypeOpenAlex},
		types.TypePubMed:          &OpenAlexProvider{Client: client, Limiter: openAlexLimiter, Config: cfg, IDType: types.TypePubMed},
		types.TypeIEEE:            &IEEEProvider{},
	}
}

func orDefault(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

// normalizeSpace collapses runs of whitespace (arXiv wraps free-text
// fields with hard newlines).
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup tags and entities from provider abstracts
// (CrossRef ships JATS-flavored XML inside the abstract field).
func stripHTML(s string) string {
	return normalizeSpace(html.UnescapeString(tagRe.ReplaceAllString(s, " ")))
}
