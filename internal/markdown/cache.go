package markdown

import "container/list"

// cacheKey identifies one rendered document at one width. The same
// assistant message is re-rendered every frame while untouched, so
// (width, text) hits are the common case.
type cacheKey struct {
	width int
	text  string
}

type cacheEntry struct {
	key   cacheKey
	lines []string
}

// lruCache is a bounded map with least-recently-used eviction.
type lruCache struct {
	capacity int
	order    *list.List // front = most recent
	items    map[cacheKey]*list.Element
}

func newLRUCache(capacity int) *lruCache {
	if capacity < 1 {
		capacity = 1
	}
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[cacheKey]*list.Element, capacity),
	}
}

func (c *lruCache) get(key cacheKey) ([]string, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).lines, true
}

func (c *lruCache) put(key cacheKey, lines []string) {
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).lines = lines
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, lines: lines})
	c.items[key] = el
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) len() int { return c.order.Len() }
