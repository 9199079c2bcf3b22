// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/devscholar/internal/httputil"
	"github.com/pdiddy/devscholar/internal/ratelimit"
	"github.com/pdiddy/devscholar/pkg/types"
)

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works/"

// CrossRefProvider resolves DOIs through the CrossRef REST API.
type CrossRefProvider struct {
	Client  *http.Client
	Limiter *ratelimit.Limiter
	Config  types.ResolverConfig
}

// Type returns the provider's identifier namespace.
func (p *CrossRefProvider) Type() types.IdentifierType { return types.TypeDOI }

// Resolve fetches works/{doi} and maps the record.
func (p *CrossRefProvider) Resolve(ctx context.Context, doi, _ string) (*types.Metadata, error) {
	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+doi, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	ua := p.Config.UserAgent
	if p.Config.CrossRefMailto != "" {
		// CrossRef etiquette: include a contact address in the UA.
		ua = strings.TrimSpace(ua + " (mailto:" + p.Config.CrossRefMailto + ")")
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httputil.Do(ctx, p.Client, req, p.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}
	work := cr.Message

	m := &types.Metadata{
		Type:          types.TypeDOI,
		ID:            doi,
		Abstract:      stripHTML(work.Abstract),
		Volume:        work.Volume,
		Pages:         work.Page,
		DOI:           doi,
		DOIURL:        "https://doi.org/" + doi,
		AbstractURL:   work.URL,
		CitationCount: work.IsReferencedByCount,
		Categories:    work.Subject,
		FetchedAt:     time.Now().UnixMilli(),
	}
	if len(work.Title) > 0 {
		m.Title = normalizeSpace(work.Title[0])
	}
	if len(work.ContainerTitle) > 0 {
		m.Venue = work.ContainerTitle[0]
	}
	for _, a := range work.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			m.Authors = append(m.Authors, name)
		}
	}
	m.Published = partialDate(work.Issued.DateParts)
	if m.Published == "" {
		m.Published = partialDate(work.Created.DateParts)
	}
	return m, nil
}

// partialDate renders a CrossRef {year, [month, [day]]} triple, leaving
// missing components off rather than padding with zeroes.
func partialDate(dateParts [][]int) string {
	if len(dateParts) == 0 || len(dateParts[0]) == 0 {
		return ""
	}
	parts := dateParts[0]
	switch {
	case len(parts) >= 3:
		return fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
	case len(parts) == 2:
		return fmt.Sprintf("%04d-%02d", parts[0], parts[1])
	default:
		return fmt.Sprintf("%04d", parts[0])
	}
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title               []string         `json:"title"`
	ContainerTitle      []string         `json:"container-title"`
	Abstract            string           `json:"abstract"`
	Author              []crossrefAuthor `json:"author"`
	Issued              crossrefDate     `json:"issued"`
	Created             crossrefDate     `json:"created"`
	Volume              string           `json:"volume"`
	Page                string           `json:"page"`
	URL                 string           `json:"URL"`
	IsReferencedByCount int              `json:"is-referenced-by-count"`
	Subject             []string         `json:"subject"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
