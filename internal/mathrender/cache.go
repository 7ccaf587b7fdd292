package mathrender

import (
	"container/list"

	"github.com/dshills/draftsmith/internal/renderer/overlay"
)

// DefaultCacheSize bounds the number of renders a Terminal keeps.
const DefaultCacheSize = 256

// renderCache is an LRU cache of rendered output. It is not safe for
// concurrent use; the owning renderer serializes access.
type renderCache struct {
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	key      string
	rendered overlay.Rendered
}

func newRenderCache(maxSize int) *renderCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &renderCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *renderCache) get(key string) (overlay.Rendered, bool) {
	elem, ok := c.items[key]
	if !ok {
		return overlay.Rendered{}, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).rendered, true
}

func (c *renderCache) put(key string, r overlay.Rendered) {
	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).rendered = r
		return
	}
	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, rendered: r})
}

func (c *renderCache) len() int {
	return c.lru.Len()
}
