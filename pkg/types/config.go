// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "devscholar/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts on HTTP 429. Zero
	// disables retries; the engine treats 429 as absent and leaves
	// retry policy to the caller.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResolverConfig holds settings for the metadata resolver and its
// provider adapters.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// CrossRefMailto is appended to the CrossRef User-Agent per their
	// etiquette guidelines.
	CrossRefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`

	// Minimum intervals between requests to the same provider. Zero
	// selects the provider default (arXiv 334ms, others 100ms).
	ArxivInterval           time.Duration `json:"arxiv_interval" yaml:"arxiv_interval"`
	CrossRefInterval        time.Duration `json:"crossref_interval" yaml:"crossref_interval"`
	SemanticScholarInterval time.Duration `json:"semantic_scholar_interval" yaml:"semantic_scholar_interval"`
	OpenAlexInterval        time.Duration `json:"openalex_interval" yaml:"openalex_interval"`
}

// CacheConfig holds settings for the two-tier metadata cache.
type CacheConfig struct {
	// Path is the location of the JSON snapshot file.
	Path string `json:"path" yaml:"path"`

	// MaxAgeDays is the cache entry lifetime in days (minimum 1,
	// default 7). Entries older than this read as a miss.
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
}

// MaxAge returns the entry lifetime as a duration, applying the default
// and minimum.
func (c CacheConfig) MaxAge() time.Duration {
	days := c.MaxAgeDays
	if days < 1 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// IndexConfig holds settings for the full-text metadata index.
type IndexConfig struct {
	// Path is the location of the SQLite index database.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Index    IndexConfig    `json:"index" yaml:"index"`
}
