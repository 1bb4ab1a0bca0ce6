package textwidth

import (
	"strings"
	"unicode/utf8"
)

// Sanitize prepares streamed delta text for terminal display: tabs
// expand to two spaces, carriage returns are dropped, other control
// characters (except newline) are removed, and invalid UTF-8 becomes
// U+FFFD. Newlines are kept so callers can split into lines.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune('�')
			i++
			continue
		}
		i += size

		switch {
		case r == '\t':
			b.WriteString("  ")
		case r == '\n':
			b.WriteRune('\n')
		case r == '\r':
			// dropped
		case r < 0x20 || r == 0x7f:
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
