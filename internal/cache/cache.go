// Package cache memoizes whole-document parse results and per-image OCR
// text. Entries carry a TTL; eviction removes the entry closest to expiry,
// not the least recently used one.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/studykit/pdfparse/internal/common"
)

// Key derives the stable cache key for a document + options pair. Identical
// bytes with identical options always map to the same key; any option that
// affects extraction output must be part of opts.
func Key(contentHash string, opts any) string {
	bs, _ := json.Marshal(opts)
	sum := md5.Sum([]byte(contentHash + ":" + string(bs)))
	return hex.EncodeToString(sum[:])
}

// Store is an optional persistence layer behind the in-memory cache.
type Store interface {
	Get(key string) (value []byte, expiry time.Time, err error)
	Put(key string, value []byte, expiry time.Time) error
	Delete(key string) error
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"maxSize"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

type entry struct {
	value  []byte
	expiry time.Time
}

// Cache is the whole-document result cache.
type Cache struct {
	maxEntries int
	defaultTTL time.Duration
	store      Store
	logger     *slog.Logger

	mu     sync.Mutex
	m      map[string]entry
	hits   int64
	misses int64
}

func New(cfg common.CacheConfig, store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	max := cfg.MaxEntries
	if max <= 0 {
		max = 100
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Cache{
		maxEntries: max,
		defaultTTL: ttl,
		store:      store,
		logger:     logger,
		m:          make(map[string]entry),
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		if time.Now().Before(e.expiry) {
			c.hits++
			return e.value, true
		}
		delete(c.m, key)
	}

	if c.store != nil {
		if value, expiry, err := c.store.Get(key); err == nil && time.Now().Before(expiry) {
			c.m[key] = entry{value: value, expiry: expiry}
			c.hits++
			return value, true
		}
	}

	c.misses++
	return nil, false
}

// Put stores value under key. ttl <= 0 uses the configured default.
func (c *Cache) Put(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiry := time.Now().Add(ttl)

	c.mu.Lock()
	if len(c.m) >= c.maxEntries {
		c.evictOldest()
	}
	c.m[key] = entry{value: value, expiry: expiry}
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Put(key, value, expiry); err != nil {
			c.logger.Warn("cache.store.put_failed", "key", key, "error", err)
		}
	}
}

// Clear drops every entry and resets counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]entry)
	c.hits, c.misses = 0, 0
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Size: len(c.m), MaxSize: c.maxEntries, Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// evictOldest removes the entry with the earliest expiry. Caller holds mu.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.m {
		if oldestKey == "" || e.expiry.Before(oldest) {
			oldestKey, oldest = k, e.expiry
		}
	}
	if oldestKey != "" {
		delete(c.m, oldestKey)
		c.logger.Debug("cache.evicted", "key", oldestKey)
	}
}

// OCRCache memoizes per-image OCR text, keyed by image hash and language.
// FIFO eviction: OCR output for a given image never changes, so recency
// does not matter.
type OCRCache struct {
	max int

	mu    sync.Mutex
	order []string
	m     map[string]string
}

func NewOCRCache(max int) *OCRCache {
	if max <= 0 {
		max = 50
	}
	return &OCRCache{max: max, m: make(map[string]string)}
}

// OCRKey builds the cache key for one image + language pair.
func OCRKey(imageHash, language string) string {
	return "ocr:" + imageHash + ":" + language
}

func (c *OCRCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.m[key]
	return text, ok
}

func (c *OCRCache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		c.m[key] = text
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.m, oldest)
	}
	c.order = append(c.order, key)
	c.m[key] = text
}
