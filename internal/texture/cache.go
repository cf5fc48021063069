package texture

import (
	"sync"

	"scanline-renderer/internal/logging"
	"scanline-renderer/internal/picture"
)

// Resolver resolves a texture name to a decoded Picture.
type Resolver interface {
	Resolve(texName string) *picture.Picture
}

// Cache is a concurrency-safe picture cache. Cached pictures are shared
// between render workers and must be treated as read-only.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

// cacheEntry records a load attempt; pic is nil when it failed.
type cacheEntry struct {
	pic *picture.Picture
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a picture by name. Returns nil if not found or
// if decoding failed; failures are cached too.
func (c *Cache) Resolve(texName string) *picture.Picture {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		logging.Logger().Warn("texture not indexed", "name", texName)
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.pic
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	pic, err := LoadPicture(path)
	if err != nil {
		logging.Logger().Warn("texture load failed", "path", path, "err", err)
	} else {
		logging.Logger().Debug("texture loaded", "path", path, "width", pic.Width, "height", pic.Height)
	}

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.pic
	}
	c.items[path] = &cacheEntry{pic: pic}
	c.mu.Unlock()

	return pic
}
