package textwidth

import "testing"

func TestVisible(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "plain ascii", in: "hello world", want: 11},
		{name: "sgr color ignored", in: "\x1b[31mred\x1b[0m", want: 3},
		{name: "osc hyperlink bel", in: "\x1b]8;;https://example.com\alink\x1b]8;;\a", want: 4},
		{name: "osc hyperlink st", in: "\x1b]8;;https://example.com\x1b\\label\x1b]8;;\x1b\\", want: 5},
		{name: "dcs ignored", in: "\x1bPq#0\x1b\\ok", want: 2},
		{name: "bare esc plus char", in: "ok\x1bc", want: 2},
		{name: "c1 csi byte", in: "a\x9b31mb", want: 2},
		{name: "east asian wide", in: "世界", want: 4},
		{name: "wide mixed", in: "a世b", want: 4},
		{name: "combining mark zero", in: "é", want: 1},
		{name: "variation selector zero", in: "❤️", want: 1},
		{name: "unterminated csi", in: "ab\x1b[31", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.in); got != tt.want {
				t.Errorf("Visible(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestVisibleMatchesLenForPrintableASCII(t *testing.T) {
	for _, s := range []string{"", "a", "hello", "  spaced  ", "~!@#$%^&*()_+", "0123456789"} {
		if got := Visible(s); got != len(s) {
			t.Errorf("Visible(%q) = %d, want len = %d", s, got, len(s))
		}
	}
}

func TestVisibleCJKContinuationByteNotCSI(t *testing.T) {
	// U+6F5B encodes as E6 BD 9B; the 0x9B byte must not start a
	// control sequence scan.
	if got := Visible("潛水"); got != 4 {
		t.Errorf("Visible(%q) = %d, want 4", "潛水", got)
	}
}
