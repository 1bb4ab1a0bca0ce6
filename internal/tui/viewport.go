package tui

// ViewportCache memoizes one rendered line slice. The event log is
// append-only, so a matching (sourceID, sourceLen, width) triple means
// nothing that feeds the render changed and the cached lines are still
// exact. Any mismatch re-renders from scratch; there is no partial
// invalidation.
type ViewportCache struct {
	sourceID  string
	sourceLen int
	width     int
	lines     []string
}

// Lines returns the cached render for the triple, calling render and
// storing the result on a miss.
func (c *ViewportCache) Lines(sourceID string, sourceLen, width int, render func() []string) []string {
	if c.sourceID == sourceID && c.sourceLen == sourceLen && c.width == width && c.lines != nil {
		return c.lines
	}
	c.sourceID = sourceID
	c.sourceLen = sourceLen
	c.width = width
	c.lines = render()
	return c.lines
}

// Invalidate drops the cached lines so the next Lines call re-renders.
func (c *ViewportCache) Invalidate() {
	c.lines = nil
}

// Viewport tracks the scroll position over a rendered line slice.
// While pinned to the tail it follows new lines as they append; any
// upward scroll unpins it until the user returns to the bottom.
type Viewport struct {
	offset     int
	followTail bool
}

// NewViewport starts pinned to the tail.
func NewViewport() Viewport {
	return Viewport{followTail: true}
}

// FollowingTail reports whether the viewport is pinned to the bottom.
func (v *Viewport) FollowingTail() bool { return v.followTail }

// maxOffset is the topmost line index that still fills the window.
func maxOffset(total, height int) int {
	if m := total - height; m > 0 {
		return m
	}
	return 0
}

// ScrollBy moves the viewport by delta lines (negative is up), clamping
// to the valid range and updating tail-follow state.
func (v *Viewport) ScrollBy(delta, total, height int) {
	v.offset += delta
	v.clamp(total, height)
	v.followTail = v.offset >= maxOffset(total, height)
}

// ScrollToTop jumps to the first line and unpins the tail.
func (v *Viewport) ScrollToTop() {
	v.offset = 0
	v.followTail = false
}

// ScrollToBottom jumps to the last page and re-pins the tail.
func (v *Viewport) ScrollToBottom() {
	v.followTail = true
}

func (v *Viewport) clamp(total, height int) {
	if v.offset < 0 {
		v.offset = 0
	}
	if m := maxOffset(total, height); v.offset > m {
		v.offset = m
	}
}

// Visible returns the window of lines currently on screen.
func (v *Viewport) Visible(lines []string, height int) []string {
	total := len(lines)
	if height <= 0 || total == 0 {
		return nil
	}
	if v.followTail {
		v.offset = maxOffset(total, height)
	}
	v.clamp(total, height)
	end := v.offset + height
	if end > total {
		end = total
	}
	return lines[v.offset:end]
}
