// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package devscholar

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pdiddy/devscholar/pkg/types"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	e := New(types.EngineConfig{
		Cache: types.CacheConfig{Path: filepath.Join(dir, "cache.json")},
	}, nil)
	t.Cleanup(e.Close)
	return e
}

func TestEngineExtract(t *testing.T) {
	e := testEngine(t)

	lines := []string{
		"package attention",
		"",
		"// Implements the transformer from arxiv:1706.03762.",
		"// See also doi:10.1038/nature14539 for background.",
		"func main() {}",
		"// x := compute(arxiv:1706.03762)  (duplicate, still one ref)",
	}
	refs := e.Extract(lines)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2: %v", len(refs), refs)
	}
	if refs[0].Type != types.TypeArxiv || refs[0].ID != "1706.03762" {
		t.Errorf("first ref = %+v", refs[0])
	}
	if refs[1].Type != types.TypeDOI || refs[1].ID != "10.1038/nature14539" {
		t.Errorf("second ref = %+v", refs[1])
	}
}

func TestEngineExtractLine(t *testing.T) {
	e := testEngine(t)

	refs := e.ExtractLine("see https://arxiv.org/abs/2301.07041v2 for details")
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(refs))
	}
	if refs[0].ID != "2301.07041" || refs[0].Version != "2" {
		t.Errorf("ref = %+v", refs[0])
	}
}

func TestEngineResolveAndCache(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	// The IEEE adapter synthesizes records locally, which makes it the
	// one namespace resolvable without a network.
	refs := e.ExtractLine("% https://ieeexplore.ieee.org/document/8967562")
	if len(refs) != 1 || refs[0].Type != types.TypeIEEE {
		t.Fatalf("refs = %v", refs)
	}

	got := e.Resolve(ctx, refs)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if !got[0].Partial {
		t.Error("IEEE record must be marked partial")
	}

	cached := e.GetCached(types.TypeIEEE, "8967562")
	if cached == nil {
		t.Fatal("resolved record not cached")
	}
	if stats := e.CacheStats(); stats.MemoryCount != 1 || stats.DiskCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if records := e.CachedRecords(); len(records) != 1 {
		t.Errorf("cached records = %v", records)
	}

	if err := e.ClearCache(); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if e.GetCached(types.TypeIEEE, "8967562") != nil {
		t.Error("record survived ClearCache")
	}
}

func TestEngineCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	cfg := types.EngineConfig{
		Cache: types.CacheConfig{Path: filepath.Join(dir, "cache.json")},
	}

	e := New(cfg, nil)
	refs := e.ExtractLine("// https://ieeexplore.ieee.org/document/8967562")
	e.Resolve(context.Background(), refs)
	e.Close()

	e2 := New(cfg, nil)
	defer e2.Close()
	if e2.GetCached(types.TypeIEEE, "8967562") == nil {
		t.Error("cache snapshot not reloaded by a fresh engine")
	}
}
