// Package compile folds the ordered session event log into semantic
// render blocks. One pass is run per frame over the full event slice;
// the scratch state lives only for that pass, so the compiler is a
// pure function of the log. Nothing here ever fails: malformed events
// degrade to best-effort text lines or are dropped.
package compile

import (
	"fmt"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

// toolTrack accumulates one streamed tool call's raw argument buffer.
type toolTrack struct {
	idx int
	buf string
}

// compiler is the per-pass scratch state: open block indices for each
// logical text stream, argument accumulation per call id, and the
// persistent call-id to block mapping used to correlate execution
// events with their streamed call.
//
// The unkeyed "active" fallback assumes at most one id-less call is in
// flight at a time; providers that interleave id-less calls are
// ambiguous by construction and are rendered in arrival order.
type compiler struct {
	blocks []domain.Block

	assistantIdx int
	thinkingIdx  int
	userIdx      int

	argTracks   map[string]*toolTrack
	blockByCall map[string]int
	active      *toolTrack

	turn int
}

// Compile converts the event log into an ordered block list.
func Compile(events []domain.Event) []domain.Block {
	c := &compiler{
		assistantIdx: -1,
		thinkingIdx:  -1,
		userIdx:      -1,
		argTracks:    make(map[string]*toolTrack),
		blockByCall:  make(map[string]int),
	}
	for _, ev := range events {
		c.handle(ev)
	}
	return c.blocks
}

func (c *compiler) handle(ev domain.Event) {
	switch ev.Type() {
	case "log":
		c.handleLog(ev)
	case "status":
		c.handleStatus(ev)
	case "rpc":
		c.handleRPC(ev.Data())
	default:
		// Unknown event types are dropped, never an error.
	}
}

func (c *compiler) handleRPC(d map[string]any) {
	switch domain.Str(d, "type") {
	case "turn_start":
		c.turn++
		if _, ok := d["turnIndex"]; ok {
			c.turn = int(domain.Num(d, "turnIndex")) + 1
		}
		c.pushSeparator(fmt.Sprintf("Turn %d", c.turn))
	case "turn_end":
		c.userIdx = -1
	case "message_start":
		c.handleMessageStart(d)
	case "message_end":
		c.handleMessageEnd(d)
	case "message_update":
		c.handleAssistantEvent(domain.Map(d, "assistantMessageEvent"))
	case "tool_execution_start":
		c.handleExecStart(d)
	case "tool_execution_update":
		c.handleExecUpdate(d)
	case "tool_execution_end":
		c.handleExecEnd(d)
	case "agent_start", "agent_end":
		// Structural markers, intentionally suppressed.
	default:
	}
}

// --- separators -----------------------------------------------------------

// pushSeparator appends a separator, coalescing consecutive ones so
// duplicate turn markers around interruptions collapse to a single
// rule.
func (c *compiler) pushSeparator(label string) {
	if n := len(c.blocks); n > 0 && c.blocks[n-1].Kind == domain.BlockSeparator {
		return
	}
	c.closeTextStreams()
	c.blocks = append(c.blocks, domain.Block{Kind: domain.BlockSeparator, Label: label})
}

// --- text streams ---------------------------------------------------------

// closeTextStreams closes every open text block; opening a stream of a
// different kind implicitly ends the others (this is how an
// interruption splits surrounding narrative text).
func (c *compiler) closeTextStreams() {
	c.assistantIdx = -1
	c.thinkingIdx = -1
	c.userIdx = -1
}

// openText returns the index of the open block for style, creating one
// if needed and closing the other text streams.
func (c *compiler) openText(style domain.TextStyle) int {
	var idx *int
	switch style {
	case domain.StyleAssistant:
		idx = &c.assistantIdx
	case domain.StyleThinking:
		idx = &c.thinkingIdx
	default:
		idx = &c.userIdx
	}
	if *idx >= 0 {
		return *idx
	}
	c.closeTextStreams()
	c.blocks = append(c.blocks, domain.Block{Kind: domain.BlockText, Style: style})
	*idx = len(c.blocks) - 1
	return *idx
}

func (c *compiler) appendText(style domain.TextStyle, delta string) {
	idx := c.openText(style)
	c.blocks[idx].Text += textwidth.Sanitize(delta)
}

// endText closes the stream for style. If nothing was ever opened but
// the closing event carries the full final text, a block is
// synthesized so no content is lost.
func (c *compiler) endText(style domain.TextStyle, finalText string) {
	var idx *int
	switch style {
	case domain.StyleAssistant:
		idx = &c.assistantIdx
	case domain.StyleThinking:
		idx = &c.thinkingIdx
	default:
		idx = &c.userIdx
	}
	if *idx < 0 && finalText != "" {
		c.blocks = append(c.blocks, domain.Block{
			Kind:  domain.BlockText,
			Style: style,
			Text:  textwidth.Sanitize(finalText),
		})
	}
	*idx = -1
}

func (c *compiler) handleAssistantEvent(m map[string]any) {
	if m == nil {
		return
	}
	switch domain.Str(m, "type") {
	case "text_start":
		c.openText(domain.StyleAssistant)
	case "text_delta":
		c.appendText(domain.StyleAssistant, domain.Str(m, "delta"))
	case "text_end":
		c.endText(domain.StyleAssistant, domain.Str(m, "text"))
	case "thinking_start":
		c.openText(domain.StyleThinking)
	case "thinking_delta":
		c.appendText(domain.StyleThinking, domain.Str(m, "delta"))
	case "thinking_end":
		c.endText(domain.StyleThinking, domain.Str(m, "text"))
	case "toolcall_start":
		c.handleToolCallStart(m)
	case "toolcall_delta":
		c.handleToolCallDelta(m)
	case "toolcall_end":
		c.handleToolCallEnd(m)
	default:
	}
}

// --- user input splicing --------------------------------------------------

// handleMessageStart opens a dedicated user-input block when the
// message role is absent or "user". The block marks an interruption
// point: it splits surrounding assistant text even when no content
// ever arrives.
func (c *compiler) handleMessageStart(d map[string]any) {
	role := domain.Str(d, "role")
	if role != "" && role != "user" {
		return
	}
	c.closeTextStreams()
	c.blocks = append(c.blocks, domain.Block{
		Kind:  domain.BlockText,
		Style: domain.StyleUser,
		Text:  textwidth.Sanitize(domain.Str(d, "content")),
	})
	c.userIdx = len(c.blocks) - 1
}

func (c *compiler) handleMessageEnd(d map[string]any) {
	role := domain.Str(d, "role")
	if role != "" && role != "user" {
		return
	}
	content := textwidth.Sanitize(domain.Str(d, "content"))
	if c.userIdx >= 0 {
		if content != "" && c.blocks[c.userIdx].Text == "" {
			c.blocks[c.userIdx].Text = content
		}
		c.userIdx = -1
		return
	}
	// No matching start; still emit so the content is not lost.
	if content != "" {
		c.blocks = append(c.blocks, domain.Block{
			Kind:  domain.BlockText,
			Style: domain.StyleUser,
			Text:  content,
		})
	}
}

// --- streamed tool calls --------------------------------------------------

// resolveCallID extracts the correlation id for a streamed tool-call
// event: the nested call object's id, then the event-level id field.
func resolveCallID(m map[string]any) string {
	if id := domain.Str(domain.Map(m, "toolCall"), "id"); id != "" {
		return id
	}
	return domain.Str(m, "toolCallId")
}

// findTrack locates the in-progress call for id, falling back to the
// single active unkeyed call when id is empty.
func (c *compiler) findTrack(id string) *toolTrack {
	if id != "" {
		return c.argTracks[id]
	}
	return c.active
}

func (c *compiler) handleToolCallStart(m map[string]any) {
	call := domain.Map(m, "toolCall")
	id := resolveCallID(m)

	name := domain.Str(call, "name")
	if name == "" {
		name = domain.Str(m, "toolName")
	}
	if name == "" {
		name = "tool"
	}

	block := domain.Block{
		Kind:     domain.BlockTool,
		ToolName: name,
		State:    domain.ToolPending,
	}
	args := domain.Map(call, "arguments")
	if args == nil {
		args = domain.Map(m, "arguments")
	}
	if args != nil {
		block.ArgsData = mergeArgs(nil, args)
		block.ArgsPreview = previewArgs(block.ArgsData)
	}
	c.blocks = append(c.blocks, block)
	idx := len(c.blocks) - 1

	track := &toolTrack{idx: idx}
	if id != "" {
		c.argTracks[id] = track
		c.blockByCall[id] = idx
	}
	c.active = track
}

func (c *compiler) handleToolCallDelta(m map[string]any) {
	id := resolveCallID(m)
	track := c.findTrack(id)
	if track == nil {
		// Delta without a start; open a call so nothing is dropped.
		c.handleToolCallStart(m)
		track = c.findTrack(id)
		if track == nil {
			return
		}
	}
	c.mergeCallFragment(track, m)
}

// mergeCallFragment folds one delta's argument payload into the
// tracked block. Object fragments deep-merge immediately; string
// fragments accumulate in the raw buffer and are promoted to
// structured data as soon as the buffer parses.
func (c *compiler) mergeCallFragment(track *toolTrack, m map[string]any) {
	block := &c.blocks[track.idx]

	var fragment any
	if call := domain.Map(m, "toolCall"); call != nil {
		if _, ok := call["arguments"]; ok {
			fragment = call["arguments"]
		}
	}
	if fragment == nil {
		if _, ok := m["arguments"]; ok {
			fragment = m["arguments"]
		} else if _, ok := m["delta"]; ok {
			fragment = m["delta"]
		}
	}

	switch frag := fragment.(type) {
	case map[string]any:
		block.ArgsData = mergeArgs(block.ArgsData, frag)
	case string:
		track.buf += frag
		if parsed, ok := parseArgs(track.buf); ok {
			block.ArgsData = mergeArgs(block.ArgsData, parsed)
		}
	}

	if len(block.ArgsData) > 0 {
		block.ArgsPreview = previewArgs(block.ArgsData)
	} else if track.buf != "" {
		block.ArgsPreview = track.buf
	}
}

func (c *compiler) handleToolCallEnd(m map[string]any) {
	id := resolveCallID(m)
	track := c.findTrack(id)
	if track == nil {
		// End for a call never seen; synthesize the complete block.
		c.handleToolCallStart(m)
		track = c.active
		if track == nil {
			return
		}
	}
	c.mergeCallFragment(track, m)

	block := &c.blocks[track.idx]
	// Undecodable leftover buffer: show it verbatim rather than hiding it.
	if len(block.ArgsData) == 0 && track.buf != "" {
		block.ArgsPreview = track.buf
	}
	block.ArgsComplete = true

	if id != "" {
		delete(c.argTracks, id)
	}
	if c.active == track {
		c.active = nil
	}
}

// --- tool execution lifecycle ---------------------------------------------

func execCallID(d map[string]any) string {
	if id := domain.Str(d, "callId"); id != "" {
		return id
	}
	return domain.Str(d, "toolCallId")
}

// handleExecStart upgrades the streamed call for this id, or creates a
// fresh pending block for synchronous tools that never streamed.
func (c *compiler) handleExecStart(d map[string]any) {
	id := execCallID(d)
	if idx, ok := c.blockByCall[id]; ok && id != "" {
		block := &c.blocks[idx]
		block.ArgsComplete = true
		if args := execArgs(d); args != nil {
			// Execution arguments are authoritative.
			block.ArgsData = mergeArgs(block.ArgsData, args)
			block.ArgsPreview = previewArgs(block.ArgsData)
		}
		if name := domain.Str(d, "toolName"); name != "" {
			block.ToolName = name
		}
		return
	}

	name := domain.Str(d, "toolName")
	if name == "" {
		name = "tool"
	}
	block := domain.Block{
		Kind:         domain.BlockTool,
		ToolName:     name,
		State:        domain.ToolPending,
		ArgsComplete: true,
	}
	if args := execArgs(d); args != nil {
		block.ArgsData = args
		block.ArgsPreview = previewArgs(args)
	}
	c.blocks = append(c.blocks, block)
	if id != "" {
		c.blockByCall[id] = len(c.blocks) - 1
	}
}

func execArgs(d map[string]any) map[string]any {
	if args := domain.Map(d, "args"); args != nil {
		return args
	}
	return domain.Map(d, "arguments")
}

func (c *compiler) handleExecUpdate(d map[string]any) {
	id := execCallID(d)
	idx, ok := c.blockByCall[id]
	if !ok || id == "" {
		return
	}
	block := &c.blocks[idx]
	if text := extractResultText(resultPayload(d)); text != "" {
		block.ResultContent = text
		block.ResultPreview = firstLine(text)
	}
}

func (c *compiler) handleExecEnd(d map[string]any) {
	id := execCallID(d)
	idx, ok := c.blockByCall[id]
	if !ok {
		// Execution end with no start: synthesize, then finish it.
		c.handleExecStart(d)
		idx, ok = c.blockByCall[id]
		if !ok {
			idx = len(c.blocks) - 1
			if idx < 0 || c.blocks[idx].Kind != domain.BlockTool {
				return
			}
		}
	}
	block := &c.blocks[idx]

	result := resultPayload(d)
	block.ResultData = result
	block.ResultContent = extractResultText(result)
	block.ResultPreview = firstLine(block.ResultContent)
	block.ArgsComplete = true
	if domain.Bool(d, "isError") {
		block.State = domain.ToolError
	} else {
		block.State = domain.ToolSuccess
	}

	if id != "" {
		delete(c.blockByCall, id)
		delete(c.argTracks, id)
	}
}

// resultPayload finds the tool result in its several observed homes.
func resultPayload(d map[string]any) any {
	for _, key := range []string{"result", "content", "output"} {
		if v, ok := d[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
