package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

// renderAgentPane renders one status card per agent: role and status
// badge, token usage with cost, and a context-window fill bar when the
// agent reports its window size.
func renderAgentPane(agents []domain.AgentInfo, width int) []string {
	if len(agents) == 0 {
		return []string{DimLineStyle.Render("no agents")}
	}
	out := make([]string, 0, len(agents)*3)
	for i, a := range agents {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, agentCardLines(a, width)...)
	}
	return out
}

func agentCardLines(a domain.AgentInfo, width int) []string {
	statusStyle := AgentMetaStyle
	if c, ok := agentStatusColors[strings.ToLower(a.Status)]; ok {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	head := AgentRoleStyle.Render(a.Role)
	if a.ID != "" {
		head += AgentMetaStyle.Render(" " + a.ID)
	}
	head += " " + statusStyle.Render(a.Status)
	if a.TaskID != "" {
		head += AgentMetaStyle.Render(" · " + a.TaskID)
	}
	lines := []string{textwidth.ClipReset(head, width)}

	usage := fmt.Sprintf("%s tok · $%.4f", formatTokens(a.Usage.TotalTokens), a.Usage.Cost)
	if a.Usage.CacheRead > 0 {
		usage += fmt.Sprintf(" · cache %s", formatTokens(a.Usage.CacheRead))
	}
	lines = append(lines, "  "+AgentUsageStyle.Render(textwidth.Clip(usage, width-2)))

	if a.ContextWindow > 0 {
		lines = append(lines, "  "+contextBar(a.ContextTokens, a.ContextWindow, a.CompactionCount, width-2))
	}
	return lines
}

// contextBar draws a fill bar for the agent's context window, tinted by
// how full it is.
func contextBar(used, window, compactions, width int) string {
	barWidth := width - 10
	if barWidth > 20 {
		barWidth = 20
	}
	if barWidth < 4 {
		barWidth = 4
	}
	ratio := float64(used) / float64(window)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(barWidth))
	color := "114"
	switch {
	case ratio > 0.9:
		color = "203"
	case ratio > 0.7:
		color = "214"
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).
		Render(strings.Repeat("█", filled)) +
		DimLineStyle.Render(strings.Repeat("░", barWidth-filled))
	label := fmt.Sprintf(" %d%%", int(ratio*100))
	if compactions > 0 {
		label += fmt.Sprintf(" c%d", compactions)
	}
	return bar + AgentMetaStyle.Render(label)
}

func formatTokens(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// renderTaskPane renders the issue list with per-status tinting; the
// selected row gets a pointer marker.
func renderTaskPane(issues []domain.TaskIssue, selected, width int) []string {
	if len(issues) == 0 {
		return []string{DimLineStyle.Render("no tasks")}
	}
	out := make([]string, 0, len(issues))
	for i, issue := range issues {
		marker := "  "
		if i == selected {
			marker = UserIconStyle.Render("❯ ")
		}
		style := IssueMetaStyle
		if c, ok := issueStatusColors[strings.ToLower(issue.Status)]; ok {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
		}
		line := fmt.Sprintf("%s %s %s", issue.ID, style.Render(issue.Status), issue.Title)
		out = append(out, marker+textwidth.ClipReset(line, width-2))
	}
	return out
}

// renderIssueDetail renders the full card for one issue, comments
// included.
func renderIssueDetail(issue domain.TaskIssue, width int) []string {
	out := []string{
		IssueTitleStyle.Render(textwidth.Clip(issue.ID+" "+issue.Title, width)),
	}
	meta := issue.Status
	if issue.Priority > 0 {
		meta += fmt.Sprintf(" · p%d", issue.Priority)
	}
	out = append(out, IssueMetaStyle.Render(meta))
	if len(issue.Labels) > 0 {
		out = append(out, IssueLabelStyle.Render(textwidth.Clip(strings.Join(issue.Labels, " "), width)))
	}
	if len(issue.DependsOnIDs) > 0 {
		out = append(out, IssueMetaStyle.Render(textwidth.Clip("depends on "+strings.Join(issue.DependsOnIDs, ", "), width)))
	}
	for _, c := range issue.Comments {
		out = append(out, "")
		out = append(out, AgentRoleStyle.Render(c.Author))
		out = append(out, textwidth.Wrap(c.Body, width-2)...)
	}
	return out
}
