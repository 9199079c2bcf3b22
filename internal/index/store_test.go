// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pdiddy/devscholar/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := NewStore(types.IndexConfig{Path: path})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func sampleRecords() []types.Metadata {
	return []types.Metadata{
		{
			Type:      types.TypeArxiv,
			ID:        "1706.03762",
			Title:     "Attention Is All You Need",
			Authors:   []string{"Ashish Vaswani", "Noam Shazeer"},
			Abstract:  "The dominant sequence transduction models are based on recurrent networks.",
			Published: "2017-06-12",
			DOI:       "10.48550/arXiv.1706.03762",
		},
		{
			Type:      types.TypeDOI,
			ID:        "10.1038/nature14539",
			Title:     "Deep learning",
			Authors:   []string{"Yann LeCun", "Yoshua Bengio", "Geoffrey Hinton"},
			Abstract:  "Deep learning allows computational models to learn representations of data.",
			Published: "2015-05-27",
			Venue:     "Nature",
			DOI:       "10.1038/nature14539",
		},
	}
}

func TestIndexFullTextQuery(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RebuildFrom(ctx, sampleRecords()); err != nil {
		t.Fatalf("RebuildFrom: %v", err)
	}

	results, err := s.Retrieve(ctx, QueryOptions{Query: "transduction"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	got := results[0]
	if got.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "Ashish Vaswani" {
		t.Errorf("authors = %v (must round-trip through JSON column)", got.Authors)
	}
	if got.DOIURL != "https://doi.org/10.48550/arXiv.1706.03762" {
		t.Errorf("doi URL = %q", got.DOIURL)
	}
}

func TestIndexAuthorSearch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RebuildFrom(ctx, sampleRecords()); err != nil {
		t.Fatalf("RebuildFrom: %v", err)
	}

	results, err := s.Retrieve(ctx, QueryOptions{Query: "Hinton"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].ID != "10.1038/nature14539" {
		t.Fatalf("results = %v, want the Nature record", results)
	}
}

func TestIndexTypeFilter(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RebuildFrom(ctx, sampleRecords()); err != nil {
		t.Fatalf("RebuildFrom: %v", err)
	}

	results, err := s.Retrieve(ctx, QueryOptions{Type: types.TypeArxiv})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].Type != types.TypeArxiv {
		t.Fatalf("results = %v, want only the arXiv record", results)
	}
}

func TestIndexUpsertReplaces(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	m := sampleRecords()[0]
	if err := s.Upsert(ctx, m); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	m.Title = "Attention Is All You Need (v7)"
	if err := s.Upsert(ctx, m); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	results, err := s.Retrieve(ctx, QueryOptions{Query: "v7"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("updated row not visible through FTS, got %d results", len(results))
	}
}

func TestIndexRebuildReplacesContents(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RebuildFrom(ctx, sampleRecords()); err != nil {
		t.Fatalf("RebuildFrom: %v", err)
	}
	n, err := s.RebuildFrom(ctx, sampleRecords()[:1])
	if err != nil {
		t.Fatalf("second RebuildFrom: %v", err)
	}
	if n != 1 {
		t.Errorf("rebuild reported %d records, want 1", n)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d after rebuild, want 1", count)
	}
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RebuildFrom(ctx, sampleRecords()); err != nil {
		t.Fatalf("RebuildFrom: %v", err)
	}
	s.Close()

	reopened, err := NewStore(types.IndexConfig{Path: path})
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d after reopen, want 2", n)
	}
}
