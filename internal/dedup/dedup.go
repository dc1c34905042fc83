// Package dedup remembers which job URLs previous runs already produced.
// Persistence dedup is handled by the store's upsert key; this cache only
// decides which jobs count as NEW for the run-summary notification.
package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cacheFileName = "seen_jobs.json"

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type SeenCache struct {
	mu       sync.Mutex
	filePath string
	expiry   time.Duration
	seen     map[string]int64
}

// NewSeenCache loads (or creates) the cache under cacheDir. Entries older
// than expiry are dropped on load so the file cannot grow without bound.
func NewSeenCache(cacheDir string, expiry time.Duration) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	c := &SeenCache{
		filePath: filepath.Join(cacheDir, cacheFileName),
		expiry:   expiry,
		seen:     make(map[string]int64),
	}
	c.load()
	return c
}

// FilterNew returns the subset of urls this cache has never seen, and marks
// every given URL as seen.
func (c *SeenCache) FilterNew(urls []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	var fresh []string
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := c.seen[u]; !ok {
			fresh = append(fresh, u)
		}
		c.seen[u] = now
	}

	if len(urls) > 0 {
		c.save()
	}
	return fresh
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", cacheFileName, err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", cacheFileName, err)
		return
	}

	cutoff := time.Now().Add(-c.expiry).UnixMilli()
	kept := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			kept++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired)", kept, len(entries)-kept)
}

func (c *SeenCache) save() {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write %s: %v", cacheFileName, err)
	}
}
