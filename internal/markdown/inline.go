package markdown

import (
	"regexp"
	"strings"
)

var (
	inlineCodeRe    = regexp.MustCompile("`([^`]+)`")
	boldRe          = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strikethroughRe = regexp.MustCompile(`~~(.+?)~~`)
	linkRe          = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// applyInline styles inline markdown: `code`, [text](url), **bold**,
// *italic*, ~~strikethrough~~. Never applied to code-fence lines.
func applyInline(s string) string {
	// Inline code first -- protect contents from further processing.
	s = inlineCodeRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := inlineCodeRe.FindStringSubmatch(match)[1]
		return inlineCodeStyle.Render(inner)
	})

	// Links: [text](url) -> text (url), href suppressed when the
	// visible text already is the href.
	s = linkRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := linkRe.FindStringSubmatch(match)
		text, href := parts[1], parts[2]
		if text == href {
			return linkTextStyle.Render(text)
		}
		return linkTextStyle.Render(text) + linkURLStyle.Render(" ("+href+")")
	})

	// Strikethrough: ~~text~~
	s = strikethroughRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := strikethroughRe.FindStringSubmatch(match)[1]
		return strikethroughStyle.Render(inner)
	})

	// Bold: **text** (must come before italic to avoid conflict)
	s = boldRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := boldRe.FindStringSubmatch(match)[1]
		return boldInlineStyle.Render(inner)
	})

	return applyItalic(s)
}

// applyItalic handles *italic* markers that weren't consumed by bold.
// It manually scans for single * delimiters that aren't adjacent to
// other *s, skipping escape sequences from already-styled content.
func applyItalic(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' {
			j := i + 1
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				j++
			}
			b.WriteString(s[i:j])
			i = j
			continue
		}

		if s[i] != '*' {
			b.WriteByte(s[i])
			i++
			continue
		}

		// Not ** (bold already handled).
		if i+1 < len(s) && s[i+1] == '*' {
			b.WriteByte(s[i])
			i++
			continue
		}

		end := strings.Index(s[i+1:], "*")
		if end < 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		end += i + 1

		if end+1 < len(s) && s[end+1] == '*' {
			b.WriteByte(s[i])
			i++
			continue
		}

		inner := s[i+1 : end]
		if len(inner) == 0 {
			b.WriteByte(s[i])
			i++
			continue
		}

		b.WriteString(italicInlineStyle.Render(inner))
		i = end + 1
	}
	return b.String()
}

// stripInline removes inline markers for width measurement, rendering
// links the way applyInline will ("text (href)" or bare text).
func stripInline(s string) string {
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = boldRe.ReplaceAllString(s, "$1")
	s = strikethroughRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := linkRe.FindStringSubmatch(match)
		if parts[1] == parts[2] {
			return parts[1]
		}
		return parts[1] + " (" + parts[2] + ")"
	})
	return s
}

// stripBold removes only bold markers; table headers are already
// rendered bold by their style.
func stripBold(s string) string {
	return boldRe.ReplaceAllString(s, "$1")
}
