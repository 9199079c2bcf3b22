// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Metadata is a resolved bibliographic record for one identifier.
type Metadata struct {
	// Type and ID key the record in the cache.
	Type IdentifierType `json:"type" yaml:"type"`
	ID   string         `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Published is an ISO-ish publication date. It may be partial:
	// "2017", "2017-06", or "2017-06-12".
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Volume and Pages locate the paper within the venue.
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// DOI is the paper's DOI when known, regardless of Type.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Canonical URLs for the abstract page, the PDF, and the DOI resolver.
	AbstractURL string `json:"abstract_url,omitempty" yaml:"abstract_url,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	DOIURL      string `json:"doi_url,omitempty" yaml:"doi_url,omitempty"`

	// CitationCount is the citation count reported by the provider.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// Categories lists subject categories or keywords.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Partial marks a placeholder record synthesized without a metadata
	// API (e.g. IEEE), so callers can re-resolve from a richer source.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`

	// FetchedAt is the resolution time in epoch milliseconds. It is
	// non-decreasing across re-fetches of the same (type, id).
	FetchedAt int64 `json:"fetched_at" yaml:"fetched_at"`
}

// Key returns the cache key for the record.
func (m Metadata) Key() string {
	return string(m.Type) + ":" + m.ID
}
