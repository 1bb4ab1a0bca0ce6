package textwidth

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Wrap splits s into lines of at most width cells, breaking at word
// boundaries and hard-breaking words wider than a full line. Existing
// newlines are respected. Width is measured in terminal cells, so wide
// runes count as two. width < 1 is treated as 1. Empty input yields a
// single empty line.
func Wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 4)
	cur := ""
	curW := 0
	for _, word := range words {
		wordW := Visible(word)
		sep := 0
		if cur != "" {
			sep = 1
		}
		if curW+sep+wordW <= width {
			if cur != "" {
				cur += " "
			}
			cur += word
			curW += sep + wordW
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
			curW = 0
		}
		for wordW > width {
			head, tail := cutWord(word, width)
			lines = append(lines, head)
			word = tail
			wordW = Visible(word)
		}
		cur = word
		curW = wordW
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// cutWord splits word at the last grapheme cluster that keeps the head
// within width cells. The head is never empty so progress is
// guaranteed even for a leading double-width cluster at width 1.
func cutWord(word string, width int) (head, tail string) {
	state := -1
	var cluster string
	rest := word
	w := 0
	end := 0
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.StepString(rest, state)
		cw := runewidth.StringWidth(cluster)
		if end > 0 && w+cw > width {
			break
		}
		end += len(cluster)
		w += cw
	}
	return word[:end], word[end:]
}

// LongestWord returns the cell width of the widest
// whitespace-delimited word in s, considering every line.
func LongestWord(s string) int {
	longest := 0
	for _, word := range strings.Fields(s) {
		if w := Visible(word); w > longest {
			longest = w
		}
	}
	return longest
}

// LongestLine returns the cell width of the widest line in s.
func LongestLine(s string) int {
	longest := 0
	for _, line := range strings.Split(s, "\n") {
		if w := Visible(line); w > longest {
			longest = w
		}
	}
	return longest
}
