// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/devscholar/pkg/types"
)

func testConfig(t *testing.T) types.CacheConfig {
	t.Helper()
	return types.CacheConfig{
		Path:       filepath.Join(t.TempDir(), "metadata.json"),
		MaxAgeDays: 7,
	}
}

func record(id string) types.Metadata {
	return types.Metadata{
		Type:      types.TypeArxiv,
		ID:        id,
		Title:     "Attention Is All You Need",
		Authors:   []string{"Ashish Vaswani", "Noam Shazeer"},
		Published: "2017-06-12",
		FetchedAt: time.Now().UnixMilli(),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, nil)
	c.Put(record("1706.03762"))

	got := c.Get(types.TypeArxiv, "1706.03762")
	require.NotNil(t, got)
	assert.Equal(t, "Attention Is All You Need", got.Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, got.Authors)
}

func TestDiskRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, nil)
	c.Put(record("1706.03762"))

	// A fresh cache over the same snapshot reproduces the record.
	reopened := New(cfg, nil)
	got := reopened.Get(types.TypeArxiv, "1706.03762")
	require.NotNil(t, got)
	assert.Equal(t, "Attention Is All You Need", got.Title)
	assert.Equal(t, "2017-06-12", got.Published)
}

func TestGetMissesUnknownKey(t *testing.T) {
	c := New(testConfig(t), nil)
	assert.Nil(t, c.Get(types.TypeDOI, "10.1038/nature14539"))
}

func TestExpiredEntryReadsAsMiss(t *testing.T) {
	c := New(testConfig(t), nil)
	m := record("1706.03762")
	m.FetchedAt = time.Now().Add(-8 * 24 * time.Hour).UnixMilli()
	c.Put(m)

	assert.Nil(t, c.Get(types.TypeArxiv, "1706.03762"))
}

func TestLoadPrunesExpiredEntries(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, nil)
	fresh := record("2301.07041")
	stale := record("1706.03762")
	stale.FetchedAt = time.Now().Add(-30 * 24 * time.Hour).UnixMilli()
	c.PutAll([]types.Metadata{fresh, stale})

	reopened := New(cfg, nil)
	stats := reopened.Stats()
	assert.Equal(t, 1, stats.MemoryCount, "stale entry must be pruned at load")
	assert.NotNil(t, reopened.Get(types.TypeArxiv, "2301.07041"))
}

func TestClearRemovesSnapshotFile(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, nil)
	c.Put(record("1706.03762"))
	require.FileExists(t, cfg.Path)

	require.NoError(t, c.Clear())
	assert.Nil(t, c.Get(types.TypeArxiv, "1706.03762"))
	assert.NoFileExists(t, cfg.Path)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestStats(t *testing.T) {
	c := New(testConfig(t), nil)
	c.PutAll([]types.Metadata{record("1706.03762"), record("1810.04805")})

	stats := c.Stats()
	assert.Equal(t, 2, stats.MemoryCount)
	assert.Equal(t, 2, stats.DiskCount)
}

func TestFetchedAtNeverMovesBackwards(t *testing.T) {
	c := New(testConfig(t), nil)
	first := record("1706.03762")
	first.FetchedAt = 2_000_000
	c.Put(first)

	second := record("1706.03762")
	second.FetchedAt = 1_000_000
	second.Title = "Updated Title"
	c.Put(second)

	got := c.Get(types.TypeArxiv, "1706.03762")
	require.NotNil(t, got)
	assert.Equal(t, "Updated Title", got.Title, "replacement is wholesale")
	assert.Equal(t, int64(2_000_000), got.FetchedAt)
}

func TestConcurrentPutsLoseNoEntries(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, nil)

	var wg sync.WaitGroup
	ids := []string{"2301.07041", "1706.03762", "1810.04805", "2005.14165"}
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			c.Put(record(id))
		}(id)
	}
	wg.Wait()

	// Both tiers must hold every entry; a lost-update race between
	// overlapping flushes would drop some from the snapshot.
	assert.Equal(t, len(ids), c.Stats().MemoryCount)
	reopened := New(cfg, nil)
	assert.Equal(t, len(ids), reopened.Stats().MemoryCount)
}

func TestFlushErrorDegradesToMemoryOnly(t *testing.T) {
	var warnings bytes.Buffer
	c := New(types.CacheConfig{
		Path:       filepath.Join(t.TempDir(), "missing", "metadata.json"),
		MaxAgeDays: 7,
	}, &warnings)

	c.Put(record("1706.03762"))

	require.NotNil(t, c.Get(types.TypeArxiv, "1706.03762"), "memory tier keeps working")
	assert.Contains(t, warnings.String(), "cache flush failed")
}

func TestCorruptSnapshotStartsFresh(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Path, []byte("{not json"), 0o644))

	var warnings bytes.Buffer
	c := New(cfg, &warnings)
	assert.Equal(t, 0, c.Stats().MemoryCount)
	assert.Contains(t, warnings.String(), "cache snapshot unreadable")
}

func TestRecordsSortedAndLive(t *testing.T) {
	c := New(testConfig(t), nil)
	fresh := record("1706.03762")
	stale := record("1512.03385")
	stale.FetchedAt = 1 // far past the max-age cutoff
	c.PutAll([]types.Metadata{fresh, stale})

	got := c.Records()
	require.Len(t, got, 1, "expired entries are excluded")
	assert.Equal(t, "1706.03762", got[0].ID)
}
