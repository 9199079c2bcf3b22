// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/devscholar/internal/httputil"
	"github.com/pdiddy/devscholar/internal/ratelimit"
	"github.com/pdiddy/devscholar/pkg/types"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

const openAlexSelect = "id,doi,title,publication_date,publication_year,authorships,abstract_inverted_index,biblio,primary_location,cited_by_count"

// OpenAlexProvider resolves OpenAlex work ids, and — because the works
// endpoint also accepts pmid: lookups — doubles as the PubMed provider.
// Both instances share one rate limiter since they hit the same API.
type OpenAlexProvider struct {
	Client  *http.Client
	Limiter *ratelimit.Limiter
	Config  types.ResolverConfig

	// IDType is the namespace this instance serves: TypeOpenAlex for
	// native W-prefixed ids, TypePubMed for pmid lookups.
	IDType types.IdentifierType
}

// Type returns the provider's identifier namespace.
func (p *OpenAlexProvider) Type() types.IdentifierType { return p.IDType }

// Resolve fetches works/{id} where id is a native W id, a pmid: lookup,
// or a doi: lookup depending on the instance's namespace.
func (p *OpenAlexProvider) Resolve(ctx context.Context, id, _ string) (*types.Metadata, error) {
	lookup := id
	if p.IDType == types.TypePubMed {
		lookup = "pmid:" + id
	}

	reqURL := openAlexAPIBase + "/" + lookup + "?select=" + openAlexSelect
	if p.Config.OpenAlexEmail != "" {
		reqURL += "&mailto=" + url.QueryEscape(p.Config.OpenAlexEmail)
	}

	work, err := p.fetchWork(ctx, reqURL)
	if err != nil || work == nil {
		return nil, err
	}
	m := p.mapWork(work)
	m.ID = id
	return m, nil
}

// Search runs a free-text works search and maps the top results. Used by
// the CLI for looking papers up by title rather than identifier.
func (p *OpenAlexProvider) Search(ctx context.Context, query string, limit int) ([]types.Metadata, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"search":   {query},
		"select":   {openAlexSelect},
		"per_page": {fmt.Sprintf("%d", limit)},
	}
	if p.Config.OpenAlexEmail != "" {
		params.Set("mailto", p.Config.OpenAlexEmail)
	}

	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Config.UserAgent)

	resp, err := httputil.Do(ctx, p.Client, req, p.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var sr openAlexSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var results []types.Metadata
	for i := range sr.Results {
		m := p.mapWork(&sr.Results[i])
		m.ID = strings.TrimPrefix(sr.Results[i].ID, "https://openalex.org/")
		results = append(results, *m)
	}
	return results, nil
}

func (p *OpenAlexProvider) fetchWork(ctx context.Context, reqURL string) (*openAlexWork, error) {
	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Config.UserAgent)

	resp, err := httputil.Do(ctx, p.Client, req, p.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return &work, nil
}

func (p *OpenAlexProvider) mapWork(work *openAlexWork) *types.Metadata {
	m := &types.Metadata{
		Type:          p.IDType,
		Title:         work.Title,
		Abstract:      ReconstructAbstract(work.AbstractInvertedIndex),
		Volume:        work.Biblio.Volume,
		Pages:         pageRange(work.Biblio.FirstPage, work.Biblio.LastPage),
		Venue:         work.PrimaryLocation.Source.DisplayName,
		AbstractURL:   work.PrimaryLocation.LandingPageURL,
		PDFURL:        work.PrimaryLocation.PDFURL,
		CitationCount: work.CitedByCount,
		FetchedAt:     time.Now().UnixMilli(),
	}
	if work.DOI != "" {
		m.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
		m.DOIURL = work.DOI
	}
	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName != "" {
			m.Authors = append(m.Authors, authorship.Author.DisplayName)
		}
	}
	if work.PublicationDate != "" {
		m.Published = work.PublicationDate
	} else if work.PublicationYear > 0 {
		m.Published = fmt.Sprintf("%04d", work.PublicationYear)
	}
	return m
}

func pageRange(first, last string) string {
	switch {
	case first == "":
		return ""
	case last == "" || last == first:
		return first
	default:
		return first + "-" + last
	}
}

// ReconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the list of token
// positions it occupies; sorting the (position, word) pairs recovers the
// original order. Unlisted positions are simply omitted, so a sparse or
// gappy index still reconstructs cleanly.
func ReconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexSearchResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	Biblio                openAlexBiblio       `json:"biblio"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	CitedByCount          int                  `json:"cited_by_count"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

type openAlexLocation struct {
	LandingPageURL string         `json:"landing_page_url"`
	PDFURL         string         `json:"pdf_url"`
	Source         openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}
