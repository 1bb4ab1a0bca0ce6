package markdown

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

// renderCodeBlock frames a fenced code block in a box sized to the
// longest wrapped code line, with the language label embedded in the
// top border. The body is syntax-highlighted with chroma; unknown
// languages fall back to plain text.
func renderCodeBlock(lang, code string, width int) []string {
	if width < 8 {
		width = 8
	}
	// Box overhead: "│ " + " │".
	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	raw := strings.Split(strings.TrimRight(code, "\n"), "\n")
	wrapped := make([]string, 0, len(raw))
	longest := 0
	for _, line := range raw {
		line = strings.ReplaceAll(line, "\t", "    ")
		for {
			if textwidth.Visible(line) <= inner {
				wrapped = append(wrapped, line)
				if w := textwidth.Visible(line); w > longest {
					longest = w
				}
				break
			}
			head, tail := splitAtWidth(line, inner)
			wrapped = append(wrapped, head)
			longest = inner
			line = tail
		}
	}
	if longest < 1 {
		longest = 1
	}

	highlighted := highlightLines(lang, strings.Join(wrapped, "\n"), len(wrapped))

	out := make([]string, 0, len(wrapped)+2)
	out = append(out, codeTopBorder(lang, longest))
	for i := range wrapped {
		body := wrapped[i]
		if i < len(highlighted) {
			body = highlighted[i]
		}
		pad := longest - textwidth.Visible(body)
		if pad < 0 {
			body = textwidth.ClipReset(body, longest)
			pad = 0
		}
		out = append(out, codeBorderStyle.Render("│ ")+body+strings.Repeat(" ", pad)+codeBorderStyle.Render(" │"))
	}
	out = append(out, codeBorderStyle.Render("╰"+strings.Repeat("─", longest+2)+"╯"))
	return out
}

// codeTopBorder builds the top frame, embedding the language label when
// there is room: ╭─ go ──────╮
func codeTopBorder(lang string, inner int) string {
	if lang == "" || lang == "text" || textwidth.Visible(lang)+4 > inner+2 {
		return codeBorderStyle.Render("╭" + strings.Repeat("─", inner+2) + "╮")
	}
	label := codeLangStyle.Render(lang)
	fill := inner + 2 - textwidth.Visible(lang) - 3
	return codeBorderStyle.Render("╭─ ") + label + codeBorderStyle.Render(" "+strings.Repeat("─", fill)+"╮")
}

// highlightLines runs chroma over the wrapped code and returns styled
// lines, or nil when highlighting fails entirely.
func highlightLines(lang, code string, want int) []string {
	if lang == "" {
		lang = "plaintext"
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, code, lang, "terminal256", "dracula"); err != nil {
		buf.Reset()
		if err := quick.Highlight(&buf, code, "plaintext", "terminal256", "dracula"); err != nil {
			return nil
		}
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != want {
		// Highlighting changed the line structure; keep the plain text.
		return nil
	}
	return lines
}

// splitAtWidth hard-breaks line at the last rune fitting in width
// cells; used for code where word wrapping would change meaning.
func splitAtWidth(line string, width int) (string, string) {
	w := 0
	for i, r := range line {
		rw := textwidth.Visible(string(r))
		if w+rw > width && i > 0 {
			return line[:i], line[i:]
		}
		w += rw
	}
	return line, ""
}
