// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the devscholar engine.
package types

// IdentifierType names the provider namespace a reference belongs to.
type IdentifierType string

const (
	TypeArxiv           IdentifierType = "arxiv"
	TypeDOI             IdentifierType = "doi"
	TypeSemanticScholar IdentifierType = "s2cid"
	TypeOpenAlex        IdentifierType = "openalex"
	TypePubMed          IdentifierType = "pubmed"
	TypeIEEE            IdentifierType = "ieee"
)

// Reference is a single paper citation detected in source text.
type Reference struct {
	// Type is the provider namespace of the identifier.
	Type IdentifierType `json:"type" yaml:"type"`

	// ID is the canonical identifier value, normalized per type
	// (e.g. an arXiv ID without its version suffix).
	ID string `json:"id" yaml:"id"`

	// Version is the arXiv version suffix digits ("2" for v2), if any.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Line is the zero-based line number the match was found on.
	Line int `json:"line" yaml:"line"`

	// Column is the byte offset of the match within the line.
	Column int `json:"column" yaml:"column"`

	// Raw is the matched substring as it appeared in the text.
	Raw string `json:"raw" yaml:"raw"`

	// Context is surrounding comment text (≤500 chars), populated by
	// whole-document scans only.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Key returns the cache key for the reference. The type prefix keeps
// keys collision-free across provider namespaces.
func (r Reference) Key() string {
	return string(r.Type) + ":" + r.ID
}
