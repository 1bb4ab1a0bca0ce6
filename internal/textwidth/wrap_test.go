package textwidth

import (
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{name: "empty", in: "", width: 10, want: []string{""}},
		{name: "fits", in: "hello", width: 10, want: []string{"hello"}},
		{name: "two lines", in: "hello world", width: 6, want: []string{"hello", "world"}},
		{name: "exact boundary", in: "ab cd", width: 5, want: []string{"ab cd"}},
		{name: "long word hard break", in: "abcdefgh", width: 3, want: []string{"abc", "def", "gh"}},
		{name: "newlines respected", in: "a\nb", width: 10, want: []string{"a", "b"}},
		{name: "blank line kept", in: "a\n\nb", width: 10, want: []string{"a", "", "b"}},
		{name: "wide runes", in: "世界 人", width: 4, want: []string{"世界", "人"}},
		{name: "wide rune not split", in: "a世界", width: 3, want: []string{"a世", "界"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.in, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			for _, line := range got {
				if Visible(line) > tt.width {
					t.Errorf("line %q exceeds width %d", line, tt.width)
				}
			}
		})
	}
}

func TestLongestWord(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "single", in: "hello", want: 5},
		{name: "multi", in: "a bb ccc", want: 3},
		{name: "across lines", in: "ab\nlonger cd", want: 6},
		{name: "wide", in: "a 世界", want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestWord(tt.in); got != tt.want {
				t.Errorf("LongestWord(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestLongestLine(t *testing.T) {
	if got := LongestLine("ab\nlonger line\nc"); got != 11 {
		t.Errorf("LongestLine = %d, want 11", got)
	}
}
