// Package textwidth measures and fits strings to terminal columns.
// All functions are total: any string in, well-defined string out,
// with ANSI escape sequences passed through untouched and uncounted.
package textwidth

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Visible returns the number of terminal cells s occupies when printed.
// Escape sequences (CSI, OSC, DCS/PM/APC and the bare C1 CSI byte 0x9B)
// contribute zero width. Combining marks, zero-width joiners and
// variation selectors are zero cells; East-Asian wide runes are two.
func Visible(s string) int {
	if s == "" {
		return 0
	}

	width := 0
	segStart := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b == 0x1b || b == 0x9b {
			width += segmentWidth(s[segStart:i])
			n := escapeLen(s[i:])
			if n == 0 {
				n = 1
			}
			i += n
			segStart = i
			continue
		}
		// Advance whole runes so a 0x9B continuation byte inside a
		// multi-byte rune is never mistaken for a C1 introducer.
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return width + segmentWidth(s[segStart:])
}

func segmentWidth(s string) int {
	if s == "" {
		return 0
	}
	w := 0
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.StepString(s, state)
		w += runewidth.StringWidth(cluster)
	}
	return w
}

// escapeLen returns the byte length of the escape sequence starting at
// s[0], or 0 if the sequence is unterminated. s[0] must be ESC or the
// single-byte C1 CSI introducer 0x9B.
func escapeLen(s string) int {
	if len(s) == 0 {
		return 0
	}
	if s[0] == 0x9b {
		// C1 CSI: parameters/intermediates up to a final byte 0x40-0x7E.
		for i := 1; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return 0
	}
	if s[0] != 0x1b {
		return 0
	}
	if len(s) == 1 {
		return 1
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return 0
	case ']':
		// OSC terminated by BEL or ST (ESC \).
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == '\\' && s[i-1] == 0x1b {
				return i + 1
			}
		}
		return 0
	case 'P', '^', '_':
		// DCS / PM / APC terminated by ST.
		for i := 2; i < len(s); i++ {
			if s[i] == '\\' && s[i-1] == 0x1b {
				return i + 1
			}
		}
		return 0
	default:
		// ESC plus a single character (e.g. ESC c).
		return 2
	}
}
