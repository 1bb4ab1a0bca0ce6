package tui

import (
	"fmt"
	"testing"
)

func numberedLines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i)
	}
	return out
}

func TestViewportCacheHitReturnsSameSlice(t *testing.T) {
	var c ViewportCache
	calls := 0
	render := func() []string {
		calls++
		return []string{"a", "b"}
	}

	first := c.Lines("s1", 2, 80, render)
	second := c.Lines("s1", 2, 80, render)
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
	if &first[0] != &second[0] {
		t.Error("cache hit should return the identical slice")
	}
}

func TestViewportCacheMissOnAnyKeyChange(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		length int
		width  int
	}{
		{"length grew", "s1", 3, 80},
		{"width changed", "s1", 2, 60},
		{"source changed", "s2", 2, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ViewportCache
			calls := 0
			render := func() []string { calls++; return []string{"x"} }
			c.Lines("s1", 2, 80, render)
			c.Lines(tt.id, tt.length, tt.width, render)
			if calls != 2 {
				t.Errorf("render called %d times, want 2", calls)
			}
		})
	}
}

func TestViewportCacheInvalidate(t *testing.T) {
	var c ViewportCache
	calls := 0
	render := func() []string { calls++; return []string{"x"} }
	c.Lines("s1", 1, 80, render)
	c.Invalidate()
	c.Lines("s1", 1, 80, render)
	if calls != 2 {
		t.Errorf("render called %d times after invalidate, want 2", calls)
	}
}

func TestViewportFollowsTail(t *testing.T) {
	v := NewViewport()
	lines := numberedLines(50)

	visible := v.Visible(lines, 10)
	if visible[0] != "line 40" || visible[len(visible)-1] != "line 49" {
		t.Errorf("tail window = %v", visible)
	}

	// New lines appended: still pinned to the new tail.
	lines = numberedLines(60)
	visible = v.Visible(lines, 10)
	if visible[len(visible)-1] != "line 59" {
		t.Errorf("not following tail: %v", visible)
	}
}

func TestViewportScrollAwayUnpins(t *testing.T) {
	v := NewViewport()
	lines := numberedLines(50)
	v.Visible(lines, 10)

	v.ScrollBy(-5, 50, 10)
	if v.FollowingTail() {
		t.Error("scroll up should unpin the tail")
	}
	visible := v.Visible(lines, 10)
	if visible[0] != "line 35" {
		t.Errorf("window after scroll = %v", visible[0])
	}

	// Appends no longer move the window.
	visible = v.Visible(numberedLines(80), 10)
	if visible[0] != "line 35" {
		t.Errorf("unpinned window moved: %v", visible[0])
	}

	// Scrolling back to the bottom re-pins.
	v.ScrollBy(100, 80, 10)
	if !v.FollowingTail() {
		t.Error("reaching bottom should re-pin the tail")
	}
}

func TestViewportScrollClamps(t *testing.T) {
	v := NewViewport()
	v.ScrollBy(-100, 50, 10)
	visible := v.Visible(numberedLines(50), 10)
	if visible[0] != "line 0" {
		t.Errorf("top clamp failed: %v", visible[0])
	}

	v.ScrollBy(1000, 50, 10)
	visible = v.Visible(numberedLines(50), 10)
	if visible[len(visible)-1] != "line 49" {
		t.Errorf("bottom clamp failed: %v", visible)
	}
}

func TestViewportShortContent(t *testing.T) {
	v := NewViewport()
	lines := numberedLines(3)
	visible := v.Visible(lines, 10)
	if len(visible) != 3 {
		t.Errorf("got %d lines, want all 3", len(visible))
	}
	if v.Visible(nil, 10) != nil {
		t.Error("empty content should yield nil window")
	}
}
