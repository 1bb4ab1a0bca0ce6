package markdown

import "testing"

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := newLRUCache(2)
	a := cacheKey{width: 40, text: "a"}
	b := cacheKey{width: 40, text: "b"}
	d := cacheKey{width: 40, text: "d"}

	c.put(a, []string{"a"})
	c.put(b, []string{"b"})
	if c.len() != 2 {
		t.Fatalf("len = %d, want 2", c.len())
	}

	// Touch a so b becomes the eviction candidate.
	if _, ok := c.get(a); !ok {
		t.Fatal("expected hit for a")
	}
	c.put(d, []string{"d"})

	if c.len() != 2 {
		t.Errorf("len = %d, want 2 after eviction", c.len())
	}
	if _, ok := c.get(b); ok {
		t.Error("expected b evicted")
	}
	if _, ok := c.get(a); !ok {
		t.Error("expected a retained")
	}
	if _, ok := c.get(d); !ok {
		t.Error("expected d retained")
	}
}

func TestLRUCachePutExistingUpdates(t *testing.T) {
	c := newLRUCache(2)
	k := cacheKey{width: 40, text: "k"}
	c.put(k, []string{"one"})
	c.put(k, []string{"two"})
	if c.len() != 1 {
		t.Fatalf("len = %d, want 1", c.len())
	}
	lines, ok := c.get(k)
	if !ok || len(lines) != 1 || lines[0] != "two" {
		t.Errorf("get = %v, %v; want updated lines", lines, ok)
	}
}

func TestLRUCacheMinimumCapacity(t *testing.T) {
	c := newLRUCache(0)
	c.put(cacheKey{width: 40, text: "x"}, []string{"x"})
	c.put(cacheKey{width: 40, text: "y"}, []string{"y"})
	if c.len() != 1 {
		t.Errorf("len = %d, want 1 with clamped capacity", c.len())
	}
}
