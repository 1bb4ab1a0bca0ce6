package domain

import "time"

// Event is one record of the orchestration session's event log. Events
// arrive already deserialized, in delivery order, and are append-only.
// The shape is deliberately loose: producers add fields freely, and
// consumers must tolerate anything missing or extra.
type Event map[string]any

// Type returns the event's discriminant, or "" when absent.
func (e Event) Type() string { return Str(e, "type") }

// Data returns the nested payload map for rpc events, or nil.
func (e Event) Data() map[string]any { return Map(e, "data") }

// Str reads a string field from a loose map, "" when missing or not a
// string.
func Str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Map reads a nested map field, nil when missing or mistyped.
func Map(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

// Bool reads a boolean field, false when missing or mistyped.
func Bool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// Num reads a numeric field as float64; JSON decoding produces float64
// for all numbers. Returns 0 when missing or mistyped.
func Num(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// List reads an array field, nil when missing or mistyped.
func List(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]any)
	return v
}

// BlockKind discriminates Block variants.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockTool
	BlockSeparator
)

// TextStyle selects the palette and layout treatment for a text block.
type TextStyle string

const (
	StyleAssistant TextStyle = "assistant"
	StyleUser      TextStyle = "user"
	StyleThinking  TextStyle = "thinking"
	StyleDim       TextStyle = "dim"
	StyleError     TextStyle = "error"
	StyleWarn      TextStyle = "warn"
	StyleStatus    TextStyle = "status"
	StyleAgentLog  TextStyle = "agentLog"
)

// ToolState is a tool block's lifecycle position.
type ToolState string

const (
	ToolPending ToolState = "pending"
	ToolSuccess ToolState = "success"
	ToolError   ToolState = "error"
)

// Block is one semantic unit of rendered output produced by the event
// compiler: a styled text run, a tool invocation card, or a turn
// separator. Blocks are mutable only while the compiler is still
// appending to them; once the originating stream closes they are
// history and are never touched again.
type Block struct {
	Kind BlockKind

	// BlockText fields.
	Style     TextStyle
	Text      string
	Color     string // lifecycle tint for status lines, optional
	Role      string
	Lifecycle string
	Level     string

	// BlockTool fields.
	ToolName      string
	ArgsPreview   string
	ArgsData      map[string]any
	ResultPreview string
	ResultContent string
	ResultData    any
	State         ToolState
	ArgsComplete  bool

	// BlockSeparator fields.
	Label string
}

// Usage is an agent's accumulated token accounting.
type Usage struct {
	Input       int     `json:"input"`
	Output      int     `json:"output"`
	CacheRead   int     `json:"cacheRead"`
	CacheWrite  int     `json:"cacheWrite"`
	TotalTokens int     `json:"totalTokens"`
	Cost        float64 `json:"cost"`
}

// AgentInfo is the registry's snapshot of one running or finished
// agent. Events holds that agent's slice of the session event log.
type AgentInfo struct {
	ID              string    `json:"id"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	TaskID          string    `json:"taskId,omitempty"`
	Usage           Usage     `json:"usage"`
	SpawnedAt       time.Time `json:"spawnedAt"`
	LastActivity    time.Time `json:"lastActivity"`
	ContextWindow   int       `json:"contextWindow,omitempty"`
	ContextTokens   int       `json:"contextTokens,omitempty"`
	CompactionCount int       `json:"compactionCount,omitempty"`
	Events          []Event   `json:"-"`
}

// IssueComment is one comment on a task issue.
type IssueComment struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// TaskIssue is a snapshot of one tracked task.
type TaskIssue struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Priority     int            `json:"priority"`
	Labels       []string       `json:"labels,omitempty"`
	DependsOnIDs []string       `json:"dependsOnIds,omitempty"`
	Comments     []IssueComment `json:"comments,omitempty"`
}
