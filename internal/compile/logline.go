package compile

import (
	"strings"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

// lifecycleColors tints status lines by lifecycle phase. Values are
// 256-color palette indices consumed by the renderer.
var lifecycleColors = map[string]string{
	"spawned":  "114",
	"started":  "114",
	"running":  "81",
	"working":  "81",
	"waiting":  "245",
	"idle":     "245",
	"finished": "240",
	"stopped":  "240",
	"failed":   "203",
	"error":    "203",
}

// handleLog classifies a log event as agent-authored (it names a role
// or agent id) or system-authored and emits one text block. Agent
// lines get a lifecycle-aware one-line summary; system lines get
// level-based styling.
func (c *compiler) handleLog(ev domain.Event) {
	message := unwrapQuoted(domain.Str(ev, "message"), 2)

	role := domain.Str(ev, "role")
	agentID := domain.Str(ev, "agentId")
	if role != "" || agentID != "" {
		c.blocks = append(c.blocks, c.agentLogBlock(ev, role, agentID, message))
		return
	}

	level := strings.ToLower(domain.Str(ev, "level"))
	style := domain.StyleDim
	switch level {
	case "error", "fatal":
		style = domain.StyleError
	case "warn", "warning":
		style = domain.StyleWarn
	}
	if message == "" {
		// Unknown shape without a message degrades to a rough preview
		// rather than vanishing.
		if data := ev.Data(); data != nil {
			message = previewArgs(data)
		}
	}
	if message == "" {
		return
	}
	c.blocks = append(c.blocks, domain.Block{
		Kind:  domain.BlockText,
		Style: style,
		Text:  textwidth.Sanitize(message),
		Level: level,
	})
}

// agentLogBlock summarizes an agent-authored log line. Lifecycle
// markers with a structured payload collapse to a single line such as
// "start builder-2 for task-17 — wire the config loader".
func (c *compiler) agentLogBlock(ev domain.Event, role, agentID, message string) domain.Block {
	lifecycle := strings.ToLower(domain.Str(ev, "lifecycle"))
	data := ev.Data()

	text := message
	switch lifecycle {
	case "started", "spawned", "start":
		text = summarizeLifecycle("start", agentID, role, data, message)
	case "finished", "stopped", "done":
		text = summarizeLifecycle("done", agentID, role, data, message)
	case "failed":
		text = summarizeLifecycle("fail", agentID, role, data, message)
	}

	return domain.Block{
		Kind:      domain.BlockText,
		Style:     domain.StyleAgentLog,
		Text:      textwidth.Sanitize(text),
		Role:      role,
		Lifecycle: lifecycle,
		Color:     lifecycleColors[lifecycle],
	}
}

func summarizeLifecycle(verb, agentID, role string, data map[string]any, message string) string {
	who := agentID
	if who == "" {
		who = role
	}
	var b strings.Builder
	b.WriteString(verb)
	b.WriteString(" ")
	b.WriteString(who)
	if taskID := domain.Str(data, "taskId"); taskID != "" {
		b.WriteString(" for ")
		b.WriteString(taskID)
	}
	context := domain.Str(data, "context")
	if context == "" {
		context = domain.Str(data, "title")
	}
	if context == "" && message != "" {
		context = message
	}
	if context != "" {
		b.WriteString(" — ")
		b.WriteString(context)
	}
	return b.String()
}

// handleStatus renders a status change as "status[: note]" tinted by
// its lifecycle.
func (c *compiler) handleStatus(ev domain.Event) {
	status := domain.Str(ev, "status")
	if status == "" {
		return
	}
	text := status
	if note := domain.Str(ev, "note"); note != "" {
		text += ": " + note
	}
	lifecycle := strings.ToLower(domain.Str(ev, "lifecycle"))
	if lifecycle == "" {
		lifecycle = strings.ToLower(status)
	}
	c.blocks = append(c.blocks, domain.Block{
		Kind:      domain.BlockText,
		Style:     domain.StyleStatus,
		Text:      textwidth.Sanitize(text),
		Lifecycle: lifecycle,
		Color:     lifecycleColors[lifecycle],
	})
}
