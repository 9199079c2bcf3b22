// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/devscholar/internal/httputil"
	"github.com/pdiddy/devscholar/internal/ratelimit"
	"github.com/pdiddy/devscholar/pkg/types"
)

// arxivAPIBase is the arXiv Atom query endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivProvider resolves arXiv IDs through the public Atom feed.
type ArxivProvider struct {
	Client  *http.Client
	Limiter *ratelimit.Limiter
	Config  types.ResolverConfig
}

// Type returns the provider's identifier namespace.
func (p *ArxivProvider) Type() types.IdentifierType { return types.TypeArxiv }

// Resolve queries the Atom feed with id_list. A zero-entry feed means
// the identifier is unknown and resolves to absent.
func (p *ArxivProvider) Resolve(ctx context.Context, id, versionHint string) (*types.Metadata, error) {
	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?id_list=%s&start=0&max_results=1", arxivAPIBase, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Config.UserAgent)

	resp, err := httputil.Do(ctx, p.Client, req, p.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}
	entry := feed.Entries[0]
	// An unknown ID sometimes yields a single entry with an error title
	// instead of an empty feed.
	if entry.Title == "Error" || entry.ID == "" {
		return nil, nil
	}

	m := &types.Metadata{
		Type:        types.TypeArxiv,
		ID:          id,
		Title:       normalizeSpace(entry.Title),
		Abstract:    normalizeSpace(entry.Summary),
		Venue:       normalizeSpace(entry.JournalRef),
		DOI:         entry.DOI,
		AbstractURL: "https://arxiv.org/abs/" + id,
		PDFURL:      "https://arxiv.org/pdf/" + withVersion(id, versionHint),
		FetchedAt:   time.Now().UnixMilli(),
	}
	if m.DOI != "" {
		m.DOIURL = "https://doi.org/" + m.DOI
	}
	for _, a := range entry.Authors {
		m.Authors = append(m.Authors, normalizeSpace(a.Name))
	}
	for _, c := range entry.Categories {
		if c.Term != "" {
			m.Categories = append(m.Categories, c.Term)
		}
	}
	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		m.Published = t.Format("2006-01-02")
	}
	return m, nil
}

func withVersion(id, versionHint string) string {
	if versionHint == "" {
		return id
	}
	return id + "v" + versionHint
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	TotalResults int          `xml:"totalResults"`
	Entries      []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	JournalRef string          `xml:"journal_ref"`
	DOI        string          `xml:"doi"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}
