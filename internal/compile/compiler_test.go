package compile

import (
	"testing"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
)

func rpc(data map[string]any) domain.Event {
	return domain.Event{"type": "rpc", "data": data}
}

func assistantEvent(m map[string]any) domain.Event {
	return rpc(map[string]any{"type": "message_update", "assistantMessageEvent": m})
}

func toolBlocks(blocks []domain.Block) []domain.Block {
	var out []domain.Block
	for _, b := range blocks {
		if b.Kind == domain.BlockTool {
			out = append(out, b)
		}
	}
	return out
}

func TestCompileTextStream(t *testing.T) {
	events := []domain.Event{
		rpc(map[string]any{"type": "turn_start", "turnIndex": 0}),
		assistantEvent(map[string]any{"type": "text_start"}),
		assistantEvent(map[string]any{"type": "text_delta", "delta": "hello"}),
	}
	blocks := Compile(events)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Kind != domain.BlockSeparator || blocks[0].Label != "Turn 1" {
		t.Errorf("first block = %+v, want Turn 1 separator", blocks[0])
	}
	if blocks[1].Style != domain.StyleAssistant || blocks[1].Text != "hello" {
		t.Errorf("second block = %+v, want assistant 'hello'", blocks[1])
	}

	// Appending a delta and re-compiling grows the same logical block.
	events = append(events, assistantEvent(map[string]any{"type": "text_delta", "delta": " world"}))
	blocks = Compile(events)
	if len(blocks) != 2 {
		t.Fatalf("after append got %d blocks, want 2", len(blocks))
	}
	if blocks[1].Text != "hello world" {
		t.Errorf("text = %q, want %q", blocks[1].Text, "hello world")
	}
}

func TestCompileConsecutiveTurnStartsCoalesce(t *testing.T) {
	blocks := Compile([]domain.Event{
		rpc(map[string]any{"type": "turn_start", "turnIndex": 0}),
		rpc(map[string]any{"type": "turn_start", "turnIndex": 0}),
	})
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1 coalesced separator", len(blocks))
	}
}

func TestCompileTextEndSynthesizesFromFinalText(t *testing.T) {
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{"type": "text_end", "text": "full message"}),
	})
	if len(blocks) != 1 || blocks[0].Text != "full message" {
		t.Fatalf("blocks = %+v, want synthesized text block", blocks)
	}
}

func TestCompileDeltaSanitized(t *testing.T) {
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{"type": "text_delta", "delta": "a\tb\r\x07c"}),
	})
	if len(blocks) != 1 || blocks[0].Text != "a  bc" {
		t.Fatalf("blocks = %+v, want sanitized delta", blocks)
	}
}

func TestCompileToolCallObjectFragmentMerge(t *testing.T) {
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{
			"type":     "toolcall_start",
			"toolCall": map[string]any{"id": "c1", "name": "task", "arguments": map[string]any{"action": "create"}},
		}),
		assistantEvent(map[string]any{
			"type":       "toolcall_delta",
			"toolCallId": "c1",
			"arguments":  map[string]any{"title": "X"},
		}),
	})
	tools := toolBlocks(blocks)
	if len(tools) != 1 {
		t.Fatalf("got %d tool blocks, want 1", len(tools))
	}
	b := tools[0]
	if b.State != domain.ToolPending || b.ArgsComplete {
		t.Errorf("expected pending incomplete block, got %+v", b)
	}
	if b.ArgsData["action"] != "create" || b.ArgsData["title"] != "X" {
		t.Errorf("merged args = %v", b.ArgsData)
	}
}

func TestCompileToolCallStringFragments(t *testing.T) {
	start := assistantEvent(map[string]any{
		"type":     "toolcall_start",
		"toolCall": map[string]any{"id": "c2", "name": "task"},
	})
	frag1 := assistantEvent(map[string]any{
		"type":       "toolcall_delta",
		"toolCallId": "c2",
		"delta":      `{"action":"create","title":"A"`,
	})
	frag2 := assistantEvent(map[string]any{
		"type":       "toolcall_delta",
		"toolCallId": "c2",
		"delta":      `}`,
	})

	// After the first fragment: raw buffered state, no parse, no panic.
	tools := toolBlocks(Compile([]domain.Event{start, frag1}))
	if len(tools) != 1 {
		t.Fatalf("got %d tool blocks", len(tools))
	}
	if len(tools[0].ArgsData) != 0 {
		t.Errorf("args parsed too early: %v", tools[0].ArgsData)
	}
	if tools[0].ArgsPreview == "" {
		t.Error("raw buffer should show as preview while unparsed")
	}

	// After the closing fragment the buffer parses.
	tools = toolBlocks(Compile([]domain.Event{start, frag1, frag2}))
	if tools[0].ArgsData["action"] != "create" || tools[0].ArgsData["title"] != "A" {
		t.Errorf("args = %v, want parsed object", tools[0].ArgsData)
	}
}

func TestCompileToolCallActiveIDFallback(t *testing.T) {
	// Provider streams one call at a time without ids.
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{
			"type":     "toolcall_start",
			"toolCall": map[string]any{"name": "bash"},
		}),
		assistantEvent(map[string]any{
			"type":  "toolcall_delta",
			"delta": `{"command":"ls"}`,
		}),
		assistantEvent(map[string]any{"type": "toolcall_end"}),
	})
	tools := toolBlocks(blocks)
	if len(tools) != 1 {
		t.Fatalf("got %d tool blocks, want 1", len(tools))
	}
	if tools[0].ArgsData["command"] != "ls" || !tools[0].ArgsComplete {
		t.Errorf("block = %+v", tools[0])
	}
}

func TestCompileToolCallEndForUnknownIDSynthesizes(t *testing.T) {
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{
			"type":     "toolcall_end",
			"toolCall": map[string]any{"id": "c9", "name": "grep", "arguments": map[string]any{"pattern": "x"}},
		}),
	})
	tools := toolBlocks(blocks)
	if len(tools) != 1 || !tools[0].ArgsComplete || tools[0].ToolName != "grep" {
		t.Fatalf("blocks = %+v", tools)
	}
}

func TestCompileExecutionCorrelatesWithStreamedCall(t *testing.T) {
	// toolcall_end then execution start/end for the same id must yield
	// exactly one tool card.
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{
			"type":     "toolcall_start",
			"toolCall": map[string]any{"id": "c3", "name": "task", "arguments": map[string]any{"action": "list"}},
		}),
		assistantEvent(map[string]any{"type": "toolcall_end", "toolCallId": "c3"}),
		rpc(map[string]any{"type": "tool_execution_start", "callId": "c3", "toolName": "task"}),
		rpc(map[string]any{
			"type":   "tool_execution_end",
			"callId": "c3",
			"result": map[string]any{"content": []any{map[string]any{"type": "text", "text": "3 tasks"}}},
		}),
	})
	tools := toolBlocks(blocks)
	if len(tools) != 1 {
		t.Fatalf("got %d tool cards, want 1", len(tools))
	}
	b := tools[0]
	if b.State != domain.ToolSuccess || b.ResultContent != "3 tasks" {
		t.Errorf("block = %+v", b)
	}
}

func TestCompileExecutionWithoutStream(t *testing.T) {
	blocks := Compile([]domain.Event{
		rpc(map[string]any{
			"type": "tool_execution_start", "callId": "s1", "toolName": "read",
			"args": map[string]any{"path": "go.mod"},
		}),
		rpc(map[string]any{"type": "tool_execution_update", "callId": "s1", "content": "partial"}),
		rpc(map[string]any{"type": "tool_execution_end", "callId": "s1", "result": "module x"}),
	})
	tools := toolBlocks(blocks)
	if len(tools) != 1 {
		t.Fatalf("got %d tool blocks, want 1", len(tools))
	}
	if tools[0].ResultContent != "module x" || tools[0].State != domain.ToolSuccess {
		t.Errorf("block = %+v", tools[0])
	}
}

func TestCompileExecutionError(t *testing.T) {
	blocks := Compile([]domain.Event{
		rpc(map[string]any{"type": "tool_execution_end", "callId": "e1", "toolName": "bash", "isError": true}),
	})
	tools := toolBlocks(blocks)
	if len(tools) != 1 {
		t.Fatalf("got %d tool blocks", len(tools))
	}
	if tools[0].State != domain.ToolError || tools[0].ResultContent != "" {
		t.Errorf("block = %+v, want error state with empty content", tools[0])
	}
}

func TestCompileUserInterruptionSplitsAssistantText(t *testing.T) {
	blocks := Compile([]domain.Event{
		assistantEvent(map[string]any{"type": "text_delta", "delta": "before"}),
		rpc(map[string]any{"type": "message_start", "role": "user"}),
		rpc(map[string]any{"type": "message_end", "role": "user", "content": "stop that"}),
		assistantEvent(map[string]any{"type": "text_delta", "delta": "after"}),
	})
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3 (split assistant text)", len(blocks))
	}
	if blocks[0].Text != "before" || blocks[2].Text != "after" {
		t.Errorf("blocks = %+v", blocks)
	}
	if blocks[1].Style != domain.StyleUser || blocks[1].Text != "stop that" {
		t.Errorf("user block = %+v", blocks[1])
	}
}

func TestCompileMessageEndWithoutStartEmits(t *testing.T) {
	blocks := Compile([]domain.Event{
		rpc(map[string]any{"type": "message_end", "content": "late input"}),
	})
	if len(blocks) != 1 || blocks[0].Style != domain.StyleUser || blocks[0].Text != "late input" {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestCompileLogClassification(t *testing.T) {
	tests := []struct {
		name      string
		ev        domain.Event
		wantStyle domain.TextStyle
		wantText  string
	}{
		{
			name:      "system error",
			ev:        domain.Event{"type": "log", "level": "error", "message": "boom"},
			wantStyle: domain.StyleError,
			wantText:  "boom",
		},
		{
			name:      "system warn",
			ev:        domain.Event{"type": "log", "level": "warn", "message": "careful"},
			wantStyle: domain.StyleWarn,
			wantText:  "careful",
		},
		{
			name:      "system info dims",
			ev:        domain.Event{"type": "log", "message": "note"},
			wantStyle: domain.StyleDim,
			wantText:  "note",
		},
		{
			name: "agent lifecycle summary",
			ev: domain.Event{
				"type": "log", "agentId": "builder-2", "role": "builder",
				"lifecycle": "started", "message": "spawning",
				"data": map[string]any{"taskId": "task-17", "context": "wire the loader"},
			},
			wantStyle: domain.StyleAgentLog,
			wantText:  "start builder-2 for task-17 — wire the loader",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Compile([]domain.Event{tt.ev})
			if len(blocks) != 1 {
				t.Fatalf("got %d blocks", len(blocks))
			}
			if blocks[0].Style != tt.wantStyle {
				t.Errorf("style = %q, want %q", blocks[0].Style, tt.wantStyle)
			}
			if blocks[0].Text != tt.wantText {
				t.Errorf("text = %q, want %q", blocks[0].Text, tt.wantText)
			}
		})
	}
}

func TestCompileQuotedLogMessageUnwrapped(t *testing.T) {
	blocks := Compile([]domain.Event{
		{"type": "log", "message": `"plain text inside quotes"`},
	})
	if len(blocks) != 1 || blocks[0].Text != "plain text inside quotes" {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestCompileStatusEvent(t *testing.T) {
	blocks := Compile([]domain.Event{
		{"type": "status", "status": "running", "note": "3 agents"},
	})
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if blocks[0].Text != "running: 3 agents" || blocks[0].Style != domain.StyleStatus {
		t.Errorf("block = %+v", blocks[0])
	}
	if blocks[0].Color == "" {
		t.Error("status block missing lifecycle tint")
	}
}

func TestCompileMalformedEventsNeverPanic(t *testing.T) {
	events := []domain.Event{
		nil,
		{},
		{"type": 42},
		{"type": "rpc"},
		{"type": "rpc", "data": "not a map"},
		{"type": "rpc", "data": map[string]any{"type": "message_update"}},
		{"type": "rpc", "data": map[string]any{"type": "message_update", "assistantMessageEvent": map[string]any{"type": "toolcall_delta"}}},
		{"type": "log"},
		{"type": "status"},
		{"type": "rpc", "data": map[string]any{"type": "agent_start"}},
		{"type": "mystery", "payload": []any{1, 2}},
	}
	blocks := Compile(events)
	for _, b := range blocks {
		if b.Kind == domain.BlockText && b.Text == "" {
			t.Errorf("empty text block leaked: %+v", b)
		}
	}
}
