// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refextract recognizes paper identifiers inside source-code
// comments and emits normalized reference records.
package refextract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/devscholar/pkg/types"
)

// Rule recognizes one textual form of a paper identifier. IDGroup names
// the capture group holding the identifier; VersionGroup (arXiv only)
// names the group holding version suffix digits, zero when absent.
type Rule struct {
	Type         types.IdentifierType
	Pattern      *regexp.Regexp
	IDGroup      int
	VersionGroup int
}

// Match is one recognized identifier occurrence within a line.
type Match struct {
	Type    types.IdentifierType
	ID      string
	Version string
	Start   int
	End     int
	Raw     string
}

// Registry holds the ordered identifier rule set. Order matters: more
// specific forms (URL-qualified, bracketed) come first so a single
// physical substring is claimed by exactly one rule.
type Registry struct {
	rules []Rule
}

// Identifier fragments shared across rules.
const (
	newArxivID    = `(\d{4}\.\d{4,5})`
	arxivVersion  = `(?:v(\d+))?`
	legacyArxivID = `([a-z][a-z-]*(?:\.[a-z]{2})?/\d{7})`
	doiID         = `(10\.\d{4,9}/[^\s"'<>\[\]{}]+)`
)

// DefaultRegistry returns the rule set covering every supported textual
// form, ordered most-specific first.
func DefaultRegistry() *Registry {
	return &Registry{rules: []Rule{
		// arXiv URL forms, with optional version suffix.
		{types.TypeArxiv, regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/` + newArxivID + arxivVersion), 1, 2},
		{types.TypeArxiv, regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/` + legacyArxivID), 1, 0},

		// arXiv bracket notation: [arxiv:1810.04805].
		{types.TypeArxiv, regexp.MustCompile(`(?i)\[\s*arxiv:\s*` + newArxivID + arxivVersion + `\s*\]`), 1, 2},

		// Semantic Scholar paper URL (40-hex paper id) and corpus-id prefix.
		{types.TypeSemanticScholar, regexp.MustCompile(`(?i)semanticscholar\.org/paper/[^\s"'<>]*?([0-9a-f]{40})`), 1, 0},
		{types.TypeSemanticScholar, regexp.MustCompile(`(?i)\b(?:s2-cid|s2cid|corpusid):\s*(\d+)`), 1, 0},

		// OpenAlex work URL and bare prefix.
		{types.TypeOpenAlex, regexp.MustCompile(`(?i)openalex\.org/(?:works/)?(W\d+)\b`), 1, 0},
		{types.TypeOpenAlex, regexp.MustCompile(`(?i)\bopenalex:\s*(W\d+)\b`), 1, 0},

		// DOI: URL, prefixed, then bare. These run before the bare arXiv
		// forms so an arXiv-style number inside a DOI suffix is not
		// claimed twice.
		{types.TypeDOI, regexp.MustCompile(`(?i)doi\.org/` + doiID), 1, 0},
		{types.TypeDOI, regexp.MustCompile(`(?i)\bdoi:\s*` + doiID), 1, 0},
		{types.TypeDOI, regexp.MustCompile(`(?i)\b` + doiID), 1, 0},

		// arXiv bare prefix, legacy prefix, and free-text forms.
		{types.TypeArxiv, regexp.MustCompile(`(?i)\barxiv:\s*` + newArxivID + arxivVersion), 1, 2},
		{types.TypeArxiv, regexp.MustCompile(`(?i)\barxiv:\s*` + legacyArxivID), 1, 0},
		{types.TypeArxiv, regexp.MustCompile(`(?i)\b(?:implements|based\s+on|see)[:\s]\s*` + newArxivID + arxivVersion + `\b`), 1, 2},

		// PubMed id.
		{types.TypePubMed, regexp.MustCompile(`(?i)\b(?:pmid|pubmed):\s*(\d{1,9})\b`), 1, 0},

		// IEEE Xplore document URL and bare prefix.
		{types.TypeIEEE, regexp.MustCompile(`(?i)ieeexplore\.ieee\.org/(?:abstract/)?document/(\d+)`), 1, 0},
		{types.TypeIEEE, regexp.MustCompile(`(?i)\bieee:\s*(\d+)\b`), 1, 0},
	}}
}

// Match runs every rule against the line and returns the recognized
// identifiers in left-to-right order. A match overlapping a span already
// claimed by an earlier rule is dropped (first-match-wins), so one
// physical substring never yields two logical identifiers.
func (r *Registry) Match(line string) []Match {
	type span struct{ start, end int }
	var claimed []span
	var matches []Match

	overlaps := func(start, end int) bool {
		for _, s := range claimed {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	for _, rule := range r.rules {
		for _, idx := range rule.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := idx[0], idx[1]
			if overlaps(start, end) {
				continue
			}
			idStart, idEnd := idx[2*rule.IDGroup], idx[2*rule.IDGroup+1]
			if idStart < 0 {
				continue
			}

			m := Match{
				Type:  rule.Type,
				ID:    normalizeID(rule.Type, line[idStart:idEnd]),
				Start: start,
				End:   end,
				Raw:   line[start:end],
			}
			if rule.VersionGroup > 0 {
				vs, ve := idx[2*rule.VersionGroup], idx[2*rule.VersionGroup+1]
				if vs >= 0 {
					m.Version = line[vs:ve]
				}
			}

			claimed = append(claimed, span{start, end})
			matches = append(matches, m)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return matches
}

// normalizeID canonicalizes an identifier value per type so the same
// paper referenced through different textual forms keys identically.
func normalizeID(t types.IdentifierType, id string) string {
	switch t {
	case types.TypeDOI:
		// Sentence punctuation sticks to bare DOIs. A trailing paren is
		// only trimmed when unbalanced, since DOIs may contain parens
		// (e.g. 10.1016/S0092-8674(00)80211-1).
		id = strings.TrimRight(id, ".,;")
		if strings.HasSuffix(id, ")") && !strings.Contains(id, "(") {
			id = strings.TrimSuffix(id, ")")
		}
		return id
	case types.TypeArxiv:
		return strings.ToLower(id)
	case types.TypeSemanticScholar:
		return strings.ToLower(id)
	case types.TypeOpenAlex:
		return "W" + strings.TrimLeft(id, "wW")
	default:
		return id
	}
}
