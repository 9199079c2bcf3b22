// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores resolved metadata in two tiers: an in-memory map
// with lazy TTL expiry, and a JSON snapshot file rewritten wholesale on
// every change. The memory tier is authoritative for freshness; the disk
// tier is a write-behind durability backstop loaded once at construction.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/devscholar/pkg/types"
)

// Stats reports entry counts per tier.
type Stats struct {
	MemoryCount int `json:"memory_count"`
	DiskCount   int `json:"disk_count"`
}

// Cache is the two-tier metadata cache. All operations, including the
// snapshot flush, serialize through one mutex so overlapping resolve
// batches cannot clobber each other's writes.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]types.Metadata
	path      string
	maxAge    time.Duration
	diskCount int
	w         io.Writer
}

// New opens the cache, loading the snapshot at cfg.Path if it exists.
// Entries older than the configured max-age are discarded during load.
// Disk errors degrade the cache to memory-only operation; warnings go
// to w.
func New(cfg types.CacheConfig, w io.Writer) *Cache {
	if w == nil {
		w = io.Discard
	}
	c := &Cache{
		entries: make(map[string]types.Metadata),
		path:    cfg.Path,
		maxAge:  cfg.MaxAge(),
		w:       w,
	}
	c.load()
	return c
}

func (c *Cache) load() {
	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(c.w, "warning: cache read failed, continuing memory-only: %v\n", err)
		}
		return
	}

	var records []types.Metadata
	if err := json.Unmarshal(data, &records); err != nil {
		fmt.Fprintf(c.w, "warning: cache snapshot unreadable, starting fresh: %v\n", err)
		return
	}

	cutoff := time.Now().Add(-c.maxAge).UnixMilli()
	for _, m := range records {
		if m.FetchedAt < cutoff {
			continue
		}
		c.entries[m.Key()] = m
	}
	c.diskCount = len(c.entries)
}

// Get returns the cached record for (type, id), or nil when absent or
// expired. Expired entries are dropped on read.
func (c *Cache) Get(t types.IdentifierType, id string) *types.Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := string(t) + ":" + id
	m, ok := c.entries[key]
	if !ok {
		return nil
	}
	if m.FetchedAt < time.Now().Add(-c.maxAge).UnixMilli() {
		delete(c.entries, key)
		return nil
	}
	return &m
}

// Put stores one record in both tiers, replacing any previous record for
// the same key wholesale.
func (c *Cache) Put(m types.Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(m)
	c.flushLocked()
}

// PutAll stores a batch of records with a single snapshot flush.
func (c *Cache) PutAll(records []types.Metadata) {
	if len(records) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range records {
		c.putLocked(m)
	}
	c.flushLocked()
}

func (c *Cache) putLocked(m types.Metadata) {
	if m.FetchedAt == 0 {
		m.FetchedAt = time.Now().UnixMilli()
	}
	// fetchedAt never moves backwards for a key (clock steps happen).
	if prev, ok := c.entries[m.Key()]; ok && m.FetchedAt < prev.FetchedAt {
		m.FetchedAt = prev.FetchedAt
	}
	c.entries[m.Key()] = m
}

// Records returns every live entry, sorted by key. Expired entries are
// skipped but not dropped; they expire on their next Get.
func (c *Cache) Records() []types.Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.maxAge).UnixMilli()
	records := make([]types.Metadata, 0, len(c.entries))
	for _, m := range c.entries {
		if m.FetchedAt < cutoff {
			continue
		}
		records = append(records, m)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key() < records[j].Key() })
	return records
}

// Clear empties the memory tier and deletes the snapshot file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]types.Metadata)
	c.diskCount = 0
	if c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache snapshot: %w", err)
	}
	return nil
}

// Stats returns entry counts for both tiers.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{MemoryCount: len(c.entries), DiskCount: c.diskCount}
}

// Close flushes the memory tier to disk one final time.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()
}

// flushLocked rewrites the snapshot from the full memory tier. The
// caller must hold c.mu; holding it across the write is what prevents
// the read-modify-write race between overlapping flushes. Write errors
// degrade to memory-only operation rather than failing the caller.
func (c *Cache) flushLocked() {
	if c.path == "" {
		return
	}

	records := make([]types.Metadata, 0, len(c.entries))
	for _, m := range c.entries {
		records = append(records, m)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key() < records[j].Key() })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Fprintf(c.w, "warning: cache marshal failed: %v\n", err)
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".cache-*.tmp")
	if err != nil {
		fmt.Fprintf(c.w, "warning: cache flush failed, continuing memory-only: %v\n", err)
		return
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		fmt.Fprintf(c.w, "warning: cache flush failed, continuing memory-only: %v\n", writeErr)
		return
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		fmt.Fprintf(c.w, "warning: cache flush failed, continuing memory-only: %v\n", err)
		return
	}
	c.diskCount = len(records)
}
