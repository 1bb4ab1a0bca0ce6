package compile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
)

// mergeArgs folds an argument fragment into the accumulated object.
// Last write wins per key; nested objects merge recursively so
// fragments like {"opts":{"a":1}} then {"opts":{"b":2}} accumulate.
func mergeArgs(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := dst[k].(map[string]any); ok {
				dst[k] = mergeArgs(cur, sub)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// parseArgs attempts to decode a raw argument buffer. Streamed
// providers emit JSON in fragments, so failure here is the normal
// mid-stream case, not an error: the caller keeps buffering and
// retries on the next delta.
func parseArgs(raw string) (map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] != '{' {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return out, true
}

// previewFieldOrder ranks well-known argument fields for previews; the
// most identifying field leads. Everything else follows alphabetically.
var previewFieldOrder = []string{
	"action", "command", "path", "file", "id", "taskId", "title",
	"query", "pattern", "url", "name", "status", "content",
}

// OrderedArgKeys returns args' keys with well-known fields first (in
// priority order) and the rest alphabetical.
func OrderedArgKeys(args map[string]any) []string {
	rest := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))
	keys := make([]string, 0, len(args))
	for _, k := range previewFieldOrder {
		if _, ok := args[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for k := range args {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// previewArgs renders a single-line summary of the arguments received
// so far, for the tool card header.
func previewArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, k := range OrderedArgKeys(args) {
		parts = append(parts, k+"="+FormatArgValue(args[k]))
	}
	return strings.Join(parts, " ")
}

// FormatArgValue renders one argument value compactly: arrays join
// with commas, nested objects show their size, strings flatten
// newlines.
func FormatArgValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		s := strings.ReplaceAll(val, "\n", " ")
		return s
	case bool:
		return fmt.Sprintf("%v", val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, FormatArgValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return fmt.Sprintf("{%d fields}", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}

// extractResultText pulls human-readable text out of a tool result.
// The common structured shape is {content: [{type:"text", text:...}]};
// anything else degrades to a best-effort rendering, never an error.
func extractResultText(result any) string {
	switch val := result.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any:
		if items := domain.List(val, "content"); items != nil {
			var parts []string
			for _, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if text := domain.Str(m, "text"); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "\n")
			}
		}
		if text := domain.Str(val, "text"); text != "" {
			return text
		}
		return jsonPreview(val)
	default:
		return jsonPreview(val)
	}
}

// jsonPreview formats an arbitrary JSON-like value as indented text,
// falling back to fmt when it cannot marshal.
func jsonPreview(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// unwrapQuoted peels up to depth layers of JSON-string quoting from a
// log message ("\"plain\"" -> "plain"), returning the input untouched
// when it is not a quoted JSON string.
func unwrapQuoted(s string, depth int) string {
	for i := 0; i < depth; i++ {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) < 2 || trimmed[0] != '"' {
			return s
		}
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return s
		}
		s = inner
	}
	return s
}
