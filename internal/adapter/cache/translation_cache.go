package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"readscore/internal/port"
)

// TranslationCache is a bounded LRU of translations with a per-entry TTL.
type TranslationCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	text      string
	timestamp time.Time
}

func NewTranslationCache(maxSize int, ttl time.Duration) *TranslationCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TranslationCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(target, text string) string {
	hash := sha256.Sum256([]byte(target + "\x00" + text))
	return hex.EncodeToString(hash[:16])
}

func (c *TranslationCache) Get(target, text string) (string, bool) {
	key := cacheKey(target, text)

	// A hit reorders the LRU list, so lookups take the write lock too.
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return "", false
	}

	if c.now().Sub(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return "", false
	}

	c.moveToEnd(key)
	return entry.text, true
}

func (c *TranslationCache) Put(target, text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(target, text)
	entry := &cacheEntry{text: translated, timestamp: c.now()}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *TranslationCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TranslationCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *TranslationCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *TranslationCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedTranslator serves repeated texts from a TranslationCache.
type CachedTranslator struct {
	translator port.Translator
	cache      *TranslationCache
	target     string
}

func NewCachedTranslator(translator port.Translator, cache *TranslationCache, target string) *CachedTranslator {
	return &CachedTranslator{
		translator: translator,
		cache:      cache,
		target:     target,
	}
}

func (t *CachedTranslator) Translate(ctx context.Context, text string) (string, error) {
	if out, hit := t.cache.Get(t.target, text); hit {
		return out, nil
	}

	out, err := t.translator.Translate(ctx, text)
	if err != nil {
		return "", err
	}

	t.cache.Put(t.target, text, out)
	return out, nil
}

var _ port.Translator = (*CachedTranslator)(nil)
