package refextract

import (
	"testing"

	"github.com/pdiddy/devscholar/pkg/types"
)

// --- arXiv forms ---

func TestMatchArxivForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		id   string
	}{
		{"bare prefix", "Implements: arxiv:1706.03762 (Attention Is All You Need)", "1706.03762"},
		{"bare prefix no space", "arxiv:1706.03762", "1706.03762"},
		{"uppercase prefix", "See arXiv:1706.03762", "1706.03762"},
		{"bracket notation", "Reference: [arxiv:1810.04805] (BERT)", "1810.04805"},
		{"abstract URL", "Based on https://arxiv.org/abs/2301.07041 (ChatGPT paper)", "2301.07041"},
		{"pdf URL", "https://arxiv.org/pdf/2005.14165", "2005.14165"},
		{"legacy URL", "https://arxiv.org/abs/cond-mat/0207270", "cond-mat/0207270"},
		{"legacy prefix", "arxiv:hep-th/9901001", "hep-th/9901001"},
		{"legacy with class", "https://arxiv.org/abs/math.gt/0309136", "math.gt/0309136"},
		{"free-text see", "see 1706.03762 for details", "1706.03762"},
		{"free-text based on", "based on 2005.14165", "2005.14165"},
		{"five digit suffix", "arxiv:2301.07041", "2301.07041"},
	}
	reg := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := reg.Match(tt.line)
			if len(matches) != 1 {
				t.Fatalf("Match(%q) returned %d matches, want 1: %+v", tt.line, len(matches), matches)
			}
			m := matches[0]
			if m.Type != types.TypeArxiv {
				t.Errorf("type = %s, want arxiv", m.Type)
			}
			if m.ID != tt.id {
				t.Errorf("id = %q, want %q", m.ID, tt.id)
			}
		})
	}
}

func TestMatchArxivVersionSuffix(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		id      string
		version string
	}{
		{"versioned URL", "https://arxiv.org/abs/1706.03762v2", "1706.03762", "2"},
		{"versioned prefix", "arxiv:1810.04805v3", "1810.04805", "3"},
		{"versioned bracket", "[arxiv:2301.07041v1]", "2301.07041", "1"},
		{"unversioned", "arxiv:1706.03762", "1706.03762", ""},
	}
	reg := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := reg.Match(tt.line)
			if len(matches) != 1 {
				t.Fatalf("got %d matches, want 1", len(matches))
			}
			if matches[0].ID != tt.id {
				t.Errorf("id = %q, want %q (version must not bleed into the id)", matches[0].ID, tt.id)
			}
			if matches[0].Version != tt.version {
				t.Errorf("version = %q, want %q", matches[0].Version, tt.version)
			}
		})
	}
}

func TestMatchTwoArxivIDsLeftToRight(t *testing.T) {
	line := "Papers: arxiv:2005.14165 and arxiv:1706.03762"
	matches := DefaultRegistry().Match(line)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "2005.14165" || matches[1].ID != "1706.03762" {
		t.Errorf("matches out of order: %q, %q", matches[0].ID, matches[1].ID)
	}
}

// --- other identifier types ---

func TestMatchOtherTypes(t *testing.T) {
	tests := []struct {
		name string
		line string
		typ  types.IdentifierType
		id   string
	}{
		{"doi prefix", "See: doi:10.1038/nature14539 (Deep Learning)", types.TypeDOI, "10.1038/nature14539"},
		{"doi URL", "https://doi.org/10.1145/3442188.3445922", types.TypeDOI, "10.1145/3442188.3445922"},
		{"bare doi", "published as 10.30574/wjarr.2025.26.2.2015", types.TypeDOI, "10.30574/wjarr.2025.26.2.2015"},
		{"doi trailing period", "doi:10.1038/nature14539.", types.TypeDOI, "10.1038/nature14539"},
		{"s2 corpus prefix", "Citation: s2-cid:220453896", types.TypeSemanticScholar, "220453896"},
		{"s2 paper URL", "https://www.semanticscholar.org/paper/Attention-is-All-you-Need-Vaswani-Shazeer/204e3073870fae3d05bcbc2f6a8e263d9b72e776", types.TypeSemanticScholar, "204e3073870fae3d05bcbc2f6a8e263d9b72e776"},
		{"openalex prefix", "openalex:W2741809807", types.TypeOpenAlex, "W2741809807"},
		{"openalex URL", "https://openalex.org/W2741809807", types.TypeOpenAlex, "W2741809807"},
		{"pmid", "pmid:25719670", types.TypePubMed, "25719670"},
		{"pubmed prefix", "PubMed: 31452104", types.TypePubMed, "31452104"},
		{"ieee prefix", "IEEE Link: ieee:726791", types.TypeIEEE, "726791"},
		{"ieee URL", "https://ieeexplore.ieee.org/document/726791", types.TypeIEEE, "726791"},
	}
	reg := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := reg.Match(tt.line)
			if len(matches) != 1 {
				t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
			}
			if matches[0].Type != tt.typ {
				t.Errorf("type = %s, want %s", matches[0].Type, tt.typ)
			}
			if matches[0].ID != tt.id {
				t.Errorf("id = %q, want %q", matches[0].ID, tt.id)
			}
		})
	}
}

// --- overlap disambiguation ---

func TestMatchArxivInsideDOINotDoubleCounted(t *testing.T) {
	// The arXiv DOI namespace embeds an arXiv-style number in the DOI
	// suffix. The DOI rule must claim the whole substring.
	line := "doi:10.48550/arXiv.2301.07041"
	matches := DefaultRegistry().Match(line)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].Type != types.TypeDOI {
		t.Errorf("type = %s, want doi", matches[0].Type)
	}
	if matches[0].ID != "10.48550/arXiv.2301.07041" {
		t.Errorf("id = %q", matches[0].ID)
	}
}

func TestMatchBracketedArxivClaimedOnce(t *testing.T) {
	matches := DefaultRegistry().Match("[arxiv:1810.04805]")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
}

func TestMatchMixedLine(t *testing.T) {
	line := "// See arxiv:1706.03762 and doi:10.1038/nature14539"
	matches := DefaultRegistry().Match(line)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(matches), matches)
	}
	if matches[0].Type != types.TypeArxiv || matches[0].ID != "1706.03762" {
		t.Errorf("first match = %+v", matches[0])
	}
	if matches[1].Type != types.TypeDOI || matches[1].ID != "10.1038/nature14539" {
		t.Errorf("second match = %+v", matches[1])
	}
}

func TestMatchNoIdentifiers(t *testing.T) {
	for _, line := range []string{
		"",
		"plain code: x := compute(y)",
		"version 2.5 of the parser",
		"// an ordinary comment",
	} {
		if matches := DefaultRegistry().Match(line); len(matches) != 0 {
			t.Errorf("Match(%q) = %+v, want none", line, matches)
		}
	}
}
