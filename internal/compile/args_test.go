package compile

import (
	"reflect"
	"testing"
)

func TestMergeArgsNestedObjects(t *testing.T) {
	dst := mergeArgs(nil, map[string]any{"opts": map[string]any{"a": 1.0}, "path": "x"})
	dst = mergeArgs(dst, map[string]any{"opts": map[string]any{"b": 2.0}, "path": "y"})
	want := map[string]any{
		"opts": map[string]any{"a": 1.0, "b": 2.0},
		"path": "y",
	}
	if !reflect.DeepEqual(dst, want) {
		t.Errorf("merged = %v, want %v", dst, want)
	}
}

func TestPreviewArgsFieldOrder(t *testing.T) {
	got := previewArgs(map[string]any{
		"zeta":    "last",
		"title":   "Fix it",
		"action":  "create",
		"alpha":   true,
		"retries": 3.0,
	})
	want := "action=create title=Fix it alpha=true retries=3 zeta=last"
	if got != want {
		t.Errorf("preview = %q, want %q", got, want)
	}
}

func TestFormatArgValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"a\nb", "a b"},
		{3.0, "3"},
		{3.5, "3.5"},
		{[]any{"x", 2.0}, "x, 2"},
		{map[string]any{"a": 1, "b": 2}, "{2 fields}"},
	}
	for _, tt := range tests {
		if got := FormatArgValue(tt.in); got != tt.want {
			t.Errorf("FormatArgValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractResultText(t *testing.T) {
	structured := map[string]any{
		"content": []any{
			map[string]any{"type": "text", "text": "first"},
			map[string]any{"type": "image"},
			map[string]any{"type": "text", "text": "second"},
		},
	}
	if got := extractResultText(structured); got != "first\nsecond" {
		t.Errorf("structured = %q", got)
	}
	if got := extractResultText("plain"); got != "plain" {
		t.Errorf("string = %q", got)
	}
	if got := extractResultText(map[string]any{"text": "inline"}); got != "inline" {
		t.Errorf("text field = %q", got)
	}
	if got := extractResultText(nil); got != "" {
		t.Errorf("nil = %q", got)
	}
}

func TestUnwrapQuoted(t *testing.T) {
	if got := unwrapQuoted(`"\"twice wrapped\""`, 2); got != "twice wrapped" {
		t.Errorf("double = %q", got)
	}
	if got := unwrapQuoted("not quoted", 2); got != "not quoted" {
		t.Errorf("plain = %q", got)
	}
	if got := unwrapQuoted(`"unterminated`, 2); got != `"unterminated` {
		t.Errorf("bad json = %q", got)
	}
}
