package textwidth

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Ellipsis is appended when Clip truncates.
const Ellipsis = "…"

// styleReset clears all SGR attributes.
const styleReset = "\x1b[0m"

// Clip truncates s so its visible width is at most max, appending an
// ellipsis when anything was cut. Escape sequences inside the kept
// prefix are preserved verbatim and never split; grapheme clusters are
// kept or dropped whole. Degenerate widths: max <= 0 yields "", and a
// string that needs truncation at max == 1 yields just the ellipsis.
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if Visible(s) <= max {
		return s
	}
	if max == 1 {
		return Ellipsis
	}

	// Keep clusters while cumulative width stays within max-1, one cell
	// reserved for the ellipsis.
	budget := max - 1
	var b strings.Builder
	width := 0
	for i := 0; i < len(s); {
		if s[i] == 0x1b || s[i] == 0x9b {
			n := escapeLen(s[i:])
			if n == 0 {
				n = 1
			}
			b.WriteString(s[i : i+n])
			i += n
			continue
		}
		seg := s[i:nextEscape(s, i)]
		state := -1
		var cluster string
		rest := seg
		for len(rest) > 0 {
			cluster, rest, _, state = uniseg.StepString(rest, state)
			w := runewidth.StringWidth(cluster)
			if width+w > budget {
				return b.String() + Ellipsis
			}
			b.WriteString(cluster)
			width += w
		}
		i += len(seg)
	}
	return b.String() + Ellipsis
}

// nextEscape returns the index of the next escape introducer at or after
// i, stepping whole runes so multi-byte characters containing a 0x9B
// continuation byte are not split.
func nextEscape(s string, i int) int {
	for i < len(s) {
		if s[i] == 0x1b || s[i] == 0x9b {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return len(s)
}

// ClipReset clips like Clip, then appends a style reset if the input
// carried any escape sequence and the result does not already end with
// one. This stops partial styling from bleeding into padding or the
// next line.
func ClipReset(s string, max int) string {
	out := Clip(s, max)
	if out == "" {
		return out
	}
	if strings.IndexByte(out, 0x1b) < 0 && strings.IndexByte(out, 0x9b) < 0 {
		return out
	}
	if strings.HasSuffix(out, styleReset) || strings.HasSuffix(out, "\x1b[m") {
		return out
	}
	return out + styleReset
}

// Pad clips s to w cells and right-pads with spaces so the result is
// exactly w cells wide. w <= 0 yields "".
func Pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	clipped := ClipReset(s, w)
	if gap := w - Visible(clipped); gap > 0 {
		return clipped + strings.Repeat(" ", gap)
	}
	return clipped
}
