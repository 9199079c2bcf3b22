// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refextract

import (
	"strings"

	"github.com/pdiddy/devscholar/pkg/types"
)

const (
	// contextRadius is how many adjacent comment lines contribute to a
	// reference's surrounding context in each direction.
	contextRadius = 3

	// maxContextLen bounds the assembled context string.
	maxContextLen = 500
)

// Extractor scans text against a pattern registry and emits normalized
// reference records.
type Extractor struct {
	registry *Registry
}

// NewExtractor returns an Extractor backed by the given registry.
// A nil registry selects the default rule set.
func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Extractor{registry: registry}
}

// ScanLine scans a single line without comment-line filtering, context
// assembly, or deduplication. Every occurrence is reported in
// left-to-right order, which interactive callers need for cursor-hover
// resolution.
func (e *Extractor) ScanLine(line string) []types.Reference {
	var refs []types.Reference
	for _, m := range e.registry.Match(line) {
		refs = append(refs, types.Reference{
			Type:    m.Type,
			ID:      m.ID,
			Version: m.Version,
			Column:  m.Start,
			Raw:     m.Raw,
		})
	}
	return refs
}

// ScanDocument scans every comment line of a document and returns the
// deduplicated references in order of first occurrence. Non-comment
// lines never contribute references. Each reference carries surrounding
// context assembled from adjacent comment lines.
func (e *Extractor) ScanDocument(lines []string) []types.Reference {
	seen := make(map[string]bool)
	var refs []types.Reference

	for i, line := range lines {
		if !IsCommentLine(line) {
			continue
		}
		for _, m := range e.registry.Match(line) {
			key := string(m.Type) + ":" + m.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			refs = append(refs, types.Reference{
				Type:    m.Type,
				ID:      m.ID,
				Version: m.Version,
				Line:    i,
				Column:  m.Start,
				Raw:     m.Raw,
				Context: buildContext(lines, i),
			})
		}
	}
	return refs
}

// buildContext assembles human-readable context around line i from up to
// contextRadius comment lines in each direction, stopping at the first
// non-comment line. Comment markers are stripped and the result is
// truncated to maxContextLen.
func buildContext(lines []string, i int) string {
	start := i
	for start > i-contextRadius && start > 0 && IsCommentLine(lines[start-1]) {
		start--
	}
	end := i
	for end < i+contextRadius && end < len(lines)-1 && IsCommentLine(lines[end+1]) {
		end++
	}

	var parts []string
	for _, line := range lines[start : end+1] {
		if s := StripMarkers(line); s != "" {
			parts = append(parts, s)
		}
	}

	ctx := strings.Join(parts, " ")
	if len(ctx) > maxContextLen {
		ctx = ctx[:maxContextLen]
	}
	return ctx
}
