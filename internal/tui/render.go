package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/compile"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/markdown"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

const (
	maxToolBodyLines = 12
	maxDiffLines     = 10
	maxResultIssues  = 8
)

// BlockRenderer turns compiled blocks into styled terminal lines. The
// embedded markdown renderer carries the width-keyed line cache, so one
// BlockRenderer should live for the whole program run. SpinnerFrame is
// the current animation frame for pending tool cards; the model updates
// it on every spinner tick.
type BlockRenderer struct {
	md           *markdown.Renderer
	SpinnerFrame string
}

// NewBlockRenderer creates a renderer with a fresh markdown cache.
func NewBlockRenderer() *BlockRenderer {
	return &BlockRenderer{md: markdown.NewRenderer(), SpinnerFrame: "◌"}
}

// Render converts blocks into display lines for the given width. Total:
// malformed blocks degrade to plain text, never an error.
func (r *BlockRenderer) Render(blocks []domain.Block, width int) []string {
	if width < 20 {
		width = 20
	}

	// Log-style lines share one tag column per pass so their messages
	// align regardless of role name length.
	tagWidth := 0
	for _, b := range blocks {
		if tag := logTag(b); tag != "" {
			if w := textwidth.Visible(tag); w > tagWidth {
				tagWidth = w
			}
		}
	}

	out := make([]string, 0, len(blocks)*2)
	for _, b := range blocks {
		switch b.Kind {
		case domain.BlockSeparator:
			if len(out) > 0 {
				out = append(out, "")
			}
			out = append(out, renderSeparator(b.Label, width), "")
		case domain.BlockTool:
			out = append(out, r.renderToolCard(b, width)...)
		default:
			out = append(out, r.renderTextBlock(b, width, tagWidth)...)
		}
	}
	return out
}

// logTag returns the tag-column label for log-style blocks, "" for
// everything else.
func logTag(b domain.Block) string {
	if b.Kind != domain.BlockText {
		return ""
	}
	switch b.Style {
	case domain.StyleAgentLog:
		if b.Role != "" {
			return b.Role
		}
		return "agent"
	case domain.StyleStatus:
		return "status"
	case domain.StyleDim, domain.StyleError, domain.StyleWarn:
		if b.Level != "" {
			return b.Level
		}
		return "sys"
	}
	return ""
}

func (r *BlockRenderer) renderTextBlock(b domain.Block, width, tagWidth int) []string {
	switch b.Style {
	case domain.StyleAssistant:
		lines := r.md.Render(b.Text, width-2)
		return prefixLines(lines, AsstIconStyle.Render("● "), "  ")
	case domain.StyleThinking:
		wrapped := textwidth.Wrap(b.Text, width-2)
		out := make([]string, 0, len(wrapped))
		for _, l := range wrapped {
			out = append(out, "  "+ThinkingStyle.Render(l))
		}
		return out
	case domain.StyleUser:
		wrapped := textwidth.Wrap(b.Text, width-2)
		styled := make([]string, len(wrapped))
		for i, l := range wrapped {
			styled[i] = UserTextStyle.Render(l)
		}
		return prefixLines(styled, UserIconStyle.Render("❯ "), "  ")
	default:
		return renderLogLine(b, width, tagWidth)
	}
}

// renderLogLine lays out a tagged log line: the shared tag column, a
// severity glyph on the first wrapped line only, then the message with
// a hanging indent.
func renderLogLine(b domain.Block, width, tagWidth int) []string {
	tag := logTag(b)
	tagCol := TagStyle.Render(textwidth.Pad(tag, tagWidth)) + " "
	indent := strings.Repeat(" ", tagWidth+1)

	style := DimLineStyle
	glyph := ""
	switch b.Style {
	case domain.StyleError:
		style, glyph = ErrorLineStyle, "✗ "
	case domain.StyleWarn:
		style, glyph = WarnLineStyle, "▲ "
	case domain.StyleStatus:
		style = StatusStyle
	case domain.StyleAgentLog:
		style = AgentLogStyle
	}
	if b.Color != "" {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color))
	}

	avail := width - tagWidth - 1 - textwidth.Visible(glyph)
	if avail < 10 {
		avail = 10
	}
	wrapped := textwidth.Wrap(b.Text, avail)
	out := make([]string, 0, len(wrapped))
	for i, l := range wrapped {
		if i == 0 {
			out = append(out, tagCol+style.Render(glyph+l))
		} else {
			out = append(out, indent+style.Render(l))
		}
	}
	return out
}

func renderSeparator(label string, width int) string {
	if label == "" {
		return SeparatorStyle.Render(strings.Repeat("─", width))
	}
	inner := " " + label + " "
	side := (width - textwidth.Visible(inner)) / 2
	if side < 2 {
		side = 2
	}
	rest := width - side - textwidth.Visible(inner)
	if rest < 2 {
		rest = 2
	}
	return SeparatorStyle.Render(strings.Repeat("─", side)+inner) +
		SeparatorStyle.Render(strings.Repeat("─", rest))
}

// prefixLines puts head before the first line and cont before the rest.
func prefixLines(lines []string, head, cont string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	out[0] = head + lines[0]
	for i := 1; i < len(lines); i++ {
		out[i] = cont + lines[i]
	}
	return out
}

// --- tool cards -------------------------------------------------------------

func (r *BlockRenderer) renderToolCard(b domain.Block, width int) []string {
	icon := ToolPendingIcon.Render(r.SpinnerFrame)
	switch b.State {
	case domain.ToolSuccess:
		icon = ToolSuccessIcon.Render("✓")
	case domain.ToolError:
		icon = ToolErrorIcon.Render("✗")
	}

	inner := width - 6 // border + padding on both sides
	if inner < 12 {
		inner = 12
	}

	header := icon + " " + ToolNameStyle.Render(b.ToolName)
	if b.ArgsPreview != "" {
		room := inner - textwidth.Visible(b.ToolName) - 3
		if room > 4 {
			header += " " + ToolArgsStyle.Render(textwidth.ClipReset(b.ArgsPreview, room))
		}
	}

	lines := []string{header}
	lines = append(lines, r.toolCardBody(b, inner)...)

	card := toolCardStyle(b.State, width)
	return strings.Split(card.Render(strings.Join(lines, "\n")), "\n")
}

// toolCardStyle builds the bordered card frame for a tool state; the
// border color and background tint both follow the call's lifecycle.
func toolCardStyle(state domain.ToolState, width int) lipgloss.Style {
	edge, bg := ToolPendingEdge, ToolPendingBg
	switch state {
	case domain.ToolSuccess:
		edge, bg = ToolSuccessEdge, ToolSuccessBg
	case domain.ToolError:
		edge, bg = ToolErrorEdge, ToolErrorBg
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge.GetForeground()).
		Background(bg.GetBackground()).
		Padding(0, 1).
		Width(width - 2)
}

// toolCardBody picks the most informative body for the card: streaming
// argument fields while the call is still arriving, then an edit diff,
// a recognized structured result, plain result text, or an explicit
// empty marker once the tool finished.
func (r *BlockRenderer) toolCardBody(b domain.Block, width int) []string {
	var out []string

	if !b.ArgsComplete && len(b.ArgsData) > 0 {
		for _, k := range compile.OrderedArgKeys(b.ArgsData) {
			line := ToolDimStyle.Render(k+": ") + ToolBodyStyle.Render(
				textwidth.ClipReset(compile.FormatArgValue(b.ArgsData[k]), width-textwidth.Visible(k)-2))
			out = append(out, line)
		}
		return out
	}

	if old, new, ok := editArgs(b.ArgsData); ok {
		out = append(out, renderArgDiff(old, new, width)...)
	}

	if issues, more := resultIssues(b.ResultData); len(issues) > 0 {
		if len(issues) == 1 && more == 0 {
			out = append(out, renderIssueCard(issues[0], width)...)
		} else {
			out = append(out, r.renderIssueTable(issues, width)...)
			if more > 0 {
				out = append(out, ToolTruncateNote.Render(fmt.Sprintf("…%d more", more)))
			}
		}
		return out
	}

	if b.ResultContent != "" {
		body := strings.Split(b.ResultContent, "\n")
		shown := body
		if len(shown) > maxToolBodyLines {
			shown = shown[:maxToolBodyLines]
		}
		for _, l := range shown {
			out = append(out, ToolBodyStyle.Render(textwidth.ClipReset(l, width)))
		}
		if n := len(body) - len(shown); n > 0 {
			out = append(out, ToolTruncateNote.Render(fmt.Sprintf("…%d more lines", n)))
		}
		return out
	}

	switch b.State {
	case domain.ToolSuccess:
		out = append(out, ToolDimStyle.Render("(no output)"))
	case domain.ToolError:
		out = append(out, ErrorLineStyle.Render("(error; no output)"))
	}
	return out
}

// editArgs detects edit-style arguments carrying an old and new string.
func editArgs(args map[string]any) (old, new string, ok bool) {
	if args == nil {
		return "", "", false
	}
	old = domain.Str(args, "old_string")
	new = domain.Str(args, "new_string")
	if old == "" && new == "" {
		old = domain.Str(args, "oldText")
		new = domain.Str(args, "newText")
	}
	return old, new, old != "" || new != ""
}

// renderArgDiff shows a compact colored diff of an edit's old and new
// strings. Unchanged runs are dropped entirely; only the add and delete
// hunks matter at card size.
func renderArgDiff(oldText, newText string, width int) []string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, true))

	var out []string
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, line := range strings.Split(strings.Trim(d.Text, "\n"), "\n") {
			if len(out) >= maxDiffLines {
				out = append(out, ToolTruncateNote.Render("…diff truncated"))
				return out
			}
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				out = append(out, DiffDelStyle.Render(textwidth.Clip("- "+line, width)))
			case diffmatchpatch.DiffInsert:
				out = append(out, DiffAddStyle.Render(textwidth.Clip("+ "+line, width)))
			}
		}
	}
	return out
}

// --- structured results -----------------------------------------------------

// resultIssues recognizes task-shaped tool results: either a list of
// issue objects or a wrapper map with a tasks/issues list, or a single
// issue object. Returns the issues (capped) and how many were cut.
func resultIssues(result any) ([]domain.TaskIssue, int) {
	var items []any
	switch val := result.(type) {
	case []any:
		items = val
	case map[string]any:
		if l := domain.List(val, "tasks"); l != nil {
			items = l
		} else if l := domain.List(val, "issues"); l != nil {
			items = l
		} else if issue, ok := asIssue(val); ok {
			return []domain.TaskIssue{issue}, 0
		}
	}
	var issues []domain.TaskIssue
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if issue, ok := asIssue(m); ok {
			issues = append(issues, issue)
		}
	}
	more := 0
	if len(issues) > maxResultIssues {
		more = len(issues) - maxResultIssues
		issues = issues[:maxResultIssues]
	}
	return issues, more
}

// asIssue converts a loose map into a TaskIssue when it carries at
// least an id and a title.
func asIssue(m map[string]any) (domain.TaskIssue, bool) {
	id := domain.Str(m, "id")
	title := domain.Str(m, "title")
	if id == "" || title == "" {
		return domain.TaskIssue{}, false
	}
	issue := domain.TaskIssue{
		ID:       id,
		Title:    title,
		Status:   domain.Str(m, "status"),
		Priority: int(domain.Num(m, "priority")),
	}
	for _, l := range domain.List(m, "labels") {
		if s, ok := l.(string); ok {
			issue.Labels = append(issue.Labels, s)
		}
	}
	for _, d := range domain.List(m, "dependsOnIds") {
		if s, ok := d.(string); ok {
			issue.DependsOnIDs = append(issue.DependsOnIDs, s)
		}
	}
	for _, c := range domain.List(m, "comments") {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		issue.Comments = append(issue.Comments, domain.IssueComment{
			Author: domain.Str(cm, "author"),
			Body:   domain.Str(cm, "body"),
		})
	}
	return issue, true
}

// renderIssueTable lays the issues out through the markdown table
// pipeline so column sizing follows the same adaptive rules as
// assistant-authored tables.
func (r *BlockRenderer) renderIssueTable(issues []domain.TaskIssue, width int) []string {
	var b strings.Builder
	b.WriteString("| ID | Status | Title |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			escapeCell(issue.ID), escapeCell(issue.Status), escapeCell(issue.Title))
	}
	return r.md.Render(b.String(), width)
}

// escapeCell keeps issue text from breaking the pipe-table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "│")
	return strings.ReplaceAll(s, "\n", " ")
}

// renderIssueCard renders one issue as a short detail card.
func renderIssueCard(issue domain.TaskIssue, width int) []string {
	out := []string{
		IssueTitleStyle.Render(textwidth.Clip(issue.ID+" "+issue.Title, width)),
	}
	meta := issue.Status
	if issue.Priority > 0 {
		meta += fmt.Sprintf(" · p%d", issue.Priority)
	}
	if len(issue.DependsOnIDs) > 0 {
		meta += " · needs " + strings.Join(issue.DependsOnIDs, ", ")
	}
	if meta != "" {
		out = append(out, IssueMetaStyle.Render(textwidth.Clip(meta, width)))
	}
	if len(issue.Labels) > 0 {
		out = append(out, IssueLabelStyle.Render(textwidth.Clip(strings.Join(issue.Labels, " "), width)))
	}
	for i, c := range issue.Comments {
		if i >= 3 {
			out = append(out, ToolTruncateNote.Render(fmt.Sprintf("…%d more comments", len(issue.Comments)-i)))
			break
		}
		line := c.Author + ": " + c.Body
		out = append(out, IssueMetaStyle.Render(textwidth.Clip(line, width)))
	}
	return out
}
