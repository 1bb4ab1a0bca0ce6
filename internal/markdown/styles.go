package markdown

import "github.com/charmbracelet/lipgloss"

var (
	heading1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("222")).Bold(true).Underline(true)
	heading2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("222")).Bold(true)
	headingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("222"))

	bulletStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	blockquoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	hrStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	boldInlineStyle    = lipgloss.NewStyle().Bold(true)
	italicInlineStyle  = lipgloss.NewStyle().Italic(true)
	strikethroughStyle = lipgloss.NewStyle().Strikethrough(true)
	linkTextStyle      = lipgloss.NewStyle().Underline(true)
	linkURLStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	inlineCodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))

	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))

	codeBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	codeLangStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
