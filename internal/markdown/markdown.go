// Package markdown converts markdown documents into styled,
// width-wrapped terminal lines. The renderer is line-based and
// deliberately tolerant of half-arrived input: the same document is
// re-rendered on every frame while an assistant is still streaming it,
// so partial tables and unclosed code fences must display sanely
// instead of erroring.
package markdown

import (
	"regexp"
	"strings"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

var (
	openFenceRe     = regexp.MustCompile("([^\\n])```([A-Za-z0-9_-]*)")
	numberedListRe  = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.+)`)
	hrRe            = regexp.MustCompile(`^[-*_]{3,}\s*$`)
	htmlBlockRe     = regexp.MustCompile(`^<[!/]?[A-Za-z]`)
	tableRowRe      = regexp.MustCompile(`^\s*\|(.+)\|\s*$`)          // rows with outer pipes
	tableRowLooseRe = regexp.MustCompile(`^[^|]*\|[^|]*(\|[^|]*)+$`)  // rows without outer pipes (2+ cells)
	tableSepRe      = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)+\|?\s*$`)
)

// defaultCacheSize bounds the render cache; a session rarely keeps
// more than a handful of distinct documents hot at once.
const defaultCacheSize = 128

// Renderer renders markdown with a bounded (width, text) -> lines
// cache, evicting least-recently-used entries.
type Renderer struct {
	cache *lruCache
}

// NewRenderer creates a Renderer with the default cache capacity.
func NewRenderer() *Renderer {
	return &Renderer{cache: newLRUCache(defaultCacheSize)}
}

// Render returns the wrapped terminal lines for text at width, serving
// repeated frames from cache. The returned slice is shared; callers
// must not mutate it.
func (r *Renderer) Render(text string, width int) []string {
	key := cacheKey{width: width, text: text}
	if lines, ok := r.cache.get(key); ok {
		return lines
	}
	lines := Render(text, width)
	r.cache.put(key, lines)
	return lines
}

// Render converts markdown content into styled, word-wrapped terminal
// lines without caching.
func Render(content string, width int) []string {
	if width < 20 {
		width = 20
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = openFenceRe.ReplaceAllString(normalized, "$1\n```$2")
	rawLines := strings.Split(normalized, "\n")
	out := make([]string, 0, len(rawLines)+8)

	inCode := false
	codeLang := ""
	codeBuf := make([]string, 0, 32)

	// Table accumulation state.
	inTable := false
	var tableHeaders []string
	var tableRows [][]string
	var tableSource []string

	flushTable := func() {
		if len(tableHeaders) > 0 {
			rendered := renderTable(tableHeaders, tableRows, width)
			if rendered == nil {
				// No layout fits; emit the raw source wrapped plain.
				for _, src := range tableSource {
					out = append(out, textwidth.Wrap(src, width)...)
				}
			} else {
				out = append(out, rendered...)
			}
		}
		inTable = false
		tableHeaders = nil
		tableRows = nil
		tableSource = nil
	}

	for i, raw := range rawLines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		// --- Code fence handling (highest priority) ---
		if strings.HasPrefix(trimmed, "```") {
			if inTable {
				flushTable()
			}
			if !inCode {
				inCode = true
				codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				codeBuf = codeBuf[:0]
			} else {
				out = append(out, renderCodeBlock(codeLang, strings.Join(codeBuf, "\n"), width)...)
				inCode = false
				codeLang = ""
				codeBuf = codeBuf[:0]
			}
			continue
		}

		if inCode {
			codeBuf = append(codeBuf, line)
			continue
		}

		// --- Table handling ---
		isTableRow := tableRowRe.MatchString(trimmed) || tableRowLooseRe.MatchString(trimmed)

		if inTable {
			if tableSepRe.MatchString(trimmed) {
				tableSource = append(tableSource, trimmed)
				continue
			}
			if isTableRow {
				cells := parseTableRow(trimmed)
				for len(cells) < len(tableHeaders) {
					cells = append(cells, "")
				}
				if len(cells) > len(tableHeaders) {
					cells = cells[:len(tableHeaders)]
				}
				tableRows = append(tableRows, cells)
				tableSource = append(tableSource, trimmed)
				continue
			}
			// Non-table line while in table. During streaming a new row
			// may be arriving incomplete (not enough pipes yet). If this
			// is the last non-empty line, skip it so it doesn't flash as
			// plain text below the table.
			if isLastNonEmptyLine(rawLines, i) {
				continue
			}
			flushTable()
		}

		// Table start: a pipe row whose next line is a separator.
		if !inTable && isTableRow {
			if i+1 < len(rawLines) && tableSepRe.MatchString(strings.TrimSpace(rawLines[i+1])) {
				inTable = true
				tableHeaders = parseTableRow(trimmed)
				tableRows = nil
				tableSource = []string{trimmed}
				continue
			}
			// Header may arrive before its separator mid-stream; hold it
			// back rather than flashing it as plain text.
			if isLastNonEmptyLine(rawLines, i) {
				continue
			}
		}

		if trimmed == "" {
			out = append(out, "")
			continue
		}

		// --- Horizontal rule ---
		if hrRe.MatchString(trimmed) {
			out = append(out, hrStyle.Render(strings.Repeat("─", min(width, 40))))
			continue
		}

		// --- Raw HTML passthrough ---
		if htmlBlockRe.MatchString(trimmed) {
			out = append(out, textwidth.Wrap(line, width)...)
			continue
		}

		// --- Blockquotes ---
		if strings.HasPrefix(trimmed, "> ") || trimmed == ">" {
			quoteText := strings.TrimPrefix(trimmed, "> ")
			quoteText = strings.TrimPrefix(quoteText, ">")
			for _, wl := range textwidth.Wrap(quoteText, max(width-4, 1)) {
				out = append(out, blockquoteStyle.Render("│ ")+blockquoteStyle.Render(applyInline(wl)))
			}
			continue
		}

		// --- Headings ---
		if level, text, ok := parseHeading(trimmed); ok {
			style := headingStyle
			display := text
			switch level {
			case 1:
				style = heading1Style
			case 2:
				style = heading2Style
			default:
				// Level 3+ keeps its literal # prefix.
				display = trimmed
			}
			for _, wl := range textwidth.Wrap(display, width) {
				out = append(out, style.Render(applyInline(wl)))
			}
			continue
		}

		// --- Bullet lists (supports nesting via indentation) ---
		if indent, item, ok := parseBulletLine(line); ok {
			indentStr := strings.Repeat(" ", indent)
			wrapped := textwidth.Wrap(item, max(width-2-indent, 1))
			if len(wrapped) > 0 {
				out = append(out, indentStr+bulletStyle.Render("• ")+applyInline(wrapped[0]))
				contIndent := indentStr + "  "
				for j := 1; j < len(wrapped); j++ {
					out = append(out, contIndent+applyInline(wrapped[j]))
				}
			}
			continue
		}

		// --- Numbered lists (supports indentation) ---
		if match := numberedListRe.FindStringSubmatch(line); match != nil {
			leadingSpaces := len(match[1])
			indentStr := strings.Repeat(" ", leadingSpaces)
			prefix := match[2] + ". "
			item := match[3]
			wrapped := textwidth.Wrap(item, max(width-len(prefix)-leadingSpaces, 1))
			if len(wrapped) > 0 {
				out = append(out, indentStr+bulletStyle.Render(prefix)+applyInline(wrapped[0]))
				contIndent := indentStr + strings.Repeat(" ", len(prefix))
				for j := 1; j < len(wrapped); j++ {
					out = append(out, contIndent+applyInline(wrapped[j]))
				}
			}
			continue
		}

		// --- Regular paragraph text ---
		for _, wl := range textwidth.Wrap(line, width) {
			out = append(out, applyInline(wl))
		}
	}

	if inCode {
		out = append(out, renderCodeBlock(codeLang, strings.Join(codeBuf, "\n"), width)...)
	}
	if inTable {
		flushTable()
	}

	return out
}

// parseHeading reports the level and text of an ATX heading line.
func parseHeading(trimmed string) (level int, text string, ok bool) {
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level >= len(trimmed) || trimmed[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(trimmed[level:]), true
}

// parseBulletLine detects a bullet list line (-, +, or *) with optional
// leading whitespace for nesting. Returns the indent in columns, the
// item text, and whether it matched. A tab counts as two columns but
// one byte, so the byte offset is tracked separately from the column
// count.
func parseBulletLine(line string) (indent int, item string, ok bool) {
	off := 0
scan:
	for off < len(line) {
		switch line[off] {
		case ' ':
			indent++
		case '\t':
			indent += 2
		default:
			break scan
		}
		off++
	}
	rest := line[off:]
	if strings.HasPrefix(rest, "- ") || strings.HasPrefix(rest, "+ ") {
		return indent, strings.TrimSpace(rest[2:]), true
	}
	if strings.HasPrefix(rest, "* ") && !hrRe.MatchString(strings.TrimSpace(rest)) {
		return indent, strings.TrimSpace(rest[2:]), true
	}
	return 0, "", false
}

// isLastNonEmptyLine reports whether rawLines[i] is the last line with
// non-whitespace content.
func isLastNonEmptyLine(rawLines []string, i int) bool {
	for j := i + 1; j < len(rawLines); j++ {
		if strings.TrimSpace(rawLines[j]) != "" {
			return false
		}
	}
	return true
}
