package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"doctrans/internal/domain"
	"doctrans/internal/logger"
	"doctrans/internal/port"
)

// ParseCache is an in-memory LRU of parsed IR keyed by Key.
type ParseCache struct {
	mu      sync.Mutex
	entries map[string]domain.IR
	order   []string
	maxSize int
}

func NewParseCache(maxSize int) *ParseCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &ParseCache{
		entries: make(map[string]domain.IR),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Key identifies one parse: the same text parsed with the same options
// always yields the same IR.
func Key(text string, opts domain.ParseOptions) string {
	h := sha256.New()
	h.Write([]byte(opts.Style))
	if opts.EmitDefaultDoc {
		h.Write([]byte{0, 1, 0})
	} else {
		h.Write([]byte{0, 0, 0})
	}
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ParseCache) Get(key string) (domain.IR, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ir, exists := c.entries[key]
	if !exists {
		return domain.IR{}, false
	}
	c.moveToEnd(key)
	return ir.Clone(), true
}

func (c *ParseCache) Put(key string, ir domain.IR) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = ir.Clone()
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = ir.Clone()
	c.order = append(c.order, key)
}

func (c *ParseCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]domain.IR)
	c.order = c.order[:0]
}

func (c *ParseCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ParseCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ParseCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ParseCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedParser consults the memory cache, then the persistent store, before
// parsing. Failed parses are never cached.
type CachedParser struct {
	parser port.DocstringParser
	cache  *ParseCache
	store  port.IRStore
	hits   atomic.Int64
}

// NewCachedParser wraps parser. store may be nil.
func NewCachedParser(parser port.DocstringParser, cache *ParseCache, store port.IRStore) *CachedParser {
	return &CachedParser{
		parser: parser,
		cache:  cache,
		store:  store,
	}
}

func (p *CachedParser) Parse(text string, opts domain.ParseOptions) (domain.IR, error) {
	key := Key(text, opts)

	if ir, hit := p.cache.Get(key); hit {
		p.hits.Add(1)
		return ir, nil
	}

	if p.store != nil {
		ir, found, err := p.store.GetIR(key)
		if err != nil {
			logger.Logger.Warnw("parse cache read failed", logger.FieldError, err)
		} else if found {
			p.hits.Add(1)
			p.cache.Put(key, ir)
			return ir, nil
		}
	}

	ir, err := p.parser.Parse(text, opts)
	if err != nil {
		return domain.IR{}, err
	}

	p.cache.Put(key, ir)
	if p.store != nil {
		if err := p.store.PutIR(key, ir); err != nil {
			logger.Logger.Warnw("parse cache write failed", logger.FieldError, err)
		}
	}
	return ir, nil
}

// Hits returns how many parses were answered from a cache.
func (p *CachedParser) Hits() int64 {
	return p.hits.Load()
}
