package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/registry"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/taskstore"
)

// Prog holds a reference to the running Bubble Tea program so external
// goroutines (feed appenders, the poller) can push messages into it.
var Prog *tea.Program

// SetProgram sets the global Prog variable.
func SetProgram(p *tea.Program) {
	Prog = p
}

// Run wires the data-source callbacks into a Bubble Tea program and
// blocks until the user quits. poller may be nil.
func Run(m Model, feed *registry.Feed, reg *registry.Registry, poller *taskstore.Poller) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	SetProgram(p)

	feed.OnAppend(func(total int) {
		p.Send(FeedChangedMsg{Total: total})
	})
	reg.OnEvent(func(string) {
		p.Send(AgentsChangedMsg{})
	})
	if poller != nil {
		poller.OnChanged(func(issues []domain.TaskIssue) {
			p.Send(TasksChangedMsg{Issues: issues})
		})
	}

	_, err := p.Run()
	return err
}
