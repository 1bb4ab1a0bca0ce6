package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	FooterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	PaneTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	PaneTitleSel = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)

	UserIconStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	AsstIconStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	UserTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	ThinkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	DimLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ErrorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	WarnLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	StatusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	AgentLogStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("146"))
	TagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	SeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	ToolNameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)
	ToolArgsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ToolBodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	ToolDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ToolPendingEdge  = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	ToolSuccessEdge  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ToolErrorEdge    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	ToolPendingBg    = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	ToolSuccessBg    = lipgloss.NewStyle().Background(lipgloss.Color("235"))
	ToolErrorBg      = lipgloss.NewStyle().Background(lipgloss.Color("52"))
	ToolSuccessIcon  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	ToolErrorIcon    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	ToolPendingIcon  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	ToolTruncateNote = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

	DiffAddStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	DiffDelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	AgentRoleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)
	AgentMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	AgentUsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))

	IssueTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	IssueMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	IssueLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))

	ErrorLoadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// agentStatusColors tints the agent pane status badge.
var agentStatusColors = map[string]string{
	"spawned":  "114",
	"running":  "81",
	"working":  "81",
	"waiting":  "245",
	"idle":     "245",
	"finished": "240",
	"stopped":  "240",
	"failed":   "203",
}

// issueStatusColors tints task list rows by status.
var issueStatusColors = map[string]string{
	"open":        "81",
	"in_progress": "214",
	"blocked":     "203",
	"done":        "114",
	"closed":      "240",
}
