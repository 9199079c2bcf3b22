// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/devscholar/internal/httputil"
	"github.com/pdiddy/devscholar/internal/ratelimit"
	"github.com/pdiddy/devscholar/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API paper endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/"

const semanticFields = "title,abstract,authors,year,publicationDate,venue,externalIds,citationCount,url,openAccessPdf,fieldsOfStudy"

// SemanticScholarProvider resolves Semantic Scholar corpus ids (and raw
// 40-hex paper ids taken from paper URLs) through the Graph API.
type SemanticScholarProvider struct {
	Client  *http.Client
	Limiter *ratelimit.Limiter
	Config  types.ResolverConfig
}

// Type returns the provider's identifier namespace.
func (p *SemanticScholarProvider) Type() types.IdentifierType { return types.TypeSemanticScholar }

// Resolve fetches the paper record. Numeric ids are corpus ids and use
// the CorpusId: lookup form; hex ids are paper ids and are passed as-is.
func (p *SemanticScholarProvider) Resolve(ctx context.Context, id, _ string) (*types.Metadata, error) {
	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	lookup := id
	if isDigits(id) {
		lookup = "CorpusId:" + id
	}
	reqURL := semanticAPIBase + lookup + "?fields=" + semanticFields

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Config.UserAgent)
	if p.Config.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", p.Config.SemanticScholarAPIKey)
	}

	resp, err := httputil.Do(ctx, p.Client, req, p.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var paper semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	m := &types.Metadata{
		Type:          types.TypeSemanticScholar,
		ID:            id,
		Title:         paper.Title,
		Abstract:      paper.Abstract,
		Venue:         paper.Venue,
		AbstractURL:   paper.URL,
		CitationCount: paper.CitationCount,
		Categories:    paper.FieldsOfStudy,
		FetchedAt:     time.Now().UnixMilli(),
	}
	for _, a := range paper.Authors {
		m.Authors = append(m.Authors, a.Name)
	}
	if paper.PublicationDate != "" {
		m.Published = paper.PublicationDate
	} else if paper.Year > 0 {
		m.Published = fmt.Sprintf("%04d", paper.Year)
	}

	// Backfill cross-reference URLs from external ids.
	if paper.ExternalIDs.DOI != "" {
		m.DOI = paper.ExternalIDs.DOI
		m.DOIURL = "https://doi.org/" + paper.ExternalIDs.DOI
	}
	if paper.ExternalIDs.ArXiv != "" {
		m.PDFURL = "https://arxiv.org/pdf/" + paper.ExternalIDs.ArXiv
		if m.AbstractURL == "" {
			m.AbstractURL = "https://arxiv.org/abs/" + paper.ExternalIDs.ArXiv
		}
	}
	if paper.OpenAccessPdf.URL != "" {
		m.PDFURL = paper.OpenAccessPdf.URL
	}
	return m, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Semantic Scholar Graph API JSON structures.
type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	Venue           string              `json:"venue"`
	URL             string              `json:"url"`
	CitationCount   int                 `json:"citationCount"`
	FieldsOfStudy   []string            `json:"fieldsOfStudy"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
	OpenAccessPdf   semanticOpenAccess  `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int64  `json:"CorpusId"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}
