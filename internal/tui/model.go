package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/compile"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/config"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/registry"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/taskstore"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/textwidth"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// FeedChangedMsg signals that the session event log grew.
type FeedChangedMsg struct {
	Total int
}

// AgentsChangedMsg signals that an agent's state or log changed.
type AgentsChangedMsg struct{}

// TasksChangedMsg delivers a fresh task snapshot from the poller.
type TasksChangedMsg struct {
	Issues []domain.TaskIssue
}

// IssueDetailMsg delivers the result of an async issue-detail fetch.
// Gen ties the result to the request that started it; the model drops
// results whose generation is stale.
type IssueDetailMsg struct {
	Gen   int
	Issue domain.TaskIssue
	Found bool
	Err   error
}

// cachedTasksMsg carries the store snapshot loaded at startup.
type cachedTasksMsg struct {
	issues []domain.TaskIssue
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type pane int

const (
	paneEvents pane = iota
	paneAgents
	paneTasks
)

var paneNames = []string{"events", "agents", "tasks"}

// Model is the Bubble Tea model for the dashboard: an event feed pane,
// an agent status pane, and a task pane, one active at a time.
type Model struct {
	width   int
	height  int
	version string
	prefs   config.Preferences
	logger  *config.Logger

	feed  *registry.Feed
	reg   *registry.Registry
	tasks *taskstore.Store

	// renderer and cache are pointers: Bubble Tea copies the model on
	// every Update, and the render cache must survive those copies.
	renderer *BlockRenderer
	cache    *ViewportCache
	vp       Viewport
	spinner  spinner.Model

	active  pane
	agents  []domain.AgentInfo
	issues  []domain.TaskIssue
	taskSel int

	detail    *domain.TaskIssue
	detailErr string
	detailGen int
}

// InitialModel creates the dashboard model. tasks may be nil when the
// snapshot store failed to open; the task pane then fills on the first
// poll only.
func InitialModel(feed *registry.Feed, reg *registry.Registry, tasks *taskstore.Store, prefs config.Preferences, logger *config.Logger, version string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(prefs.AccentColor))

	return Model{
		version:  version,
		prefs:    prefs,
		logger:   logger,
		feed:     feed,
		reg:      reg,
		tasks:    tasks,
		renderer: NewBlockRenderer(),
		cache:    &ViewportCache{},
		vp:       NewViewport(),
		spinner:  sp,
	}
}

// Init starts the spinner and loads the cached task snapshot so the
// pane renders before the first poll completes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.tasks != nil {
		st := m.tasks
		logger := m.logger
		cmds = append(cmds, func() tea.Msg {
			issues, err := st.All()
			if err != nil {
				logger.Printf("tui: load cached tasks: %v", err)
				return cachedTasksMsg{}
			}
			return cachedTasksMsg{issues: issues}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cache.Invalidate()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.renderer.SpinnerFrame = m.spinner.View()
		// Pending tool cards embed the frame, so the cached render is
		// stale whenever a pending call is on screen.
		m.cache.Invalidate()
		return m, cmd

	case FeedChangedMsg:
		// The render cache keys on feed length; nothing else to do.
		return m, nil

	case AgentsChangedMsg:
		m.agents = m.reg.Agents()
		return m, nil

	case TasksChangedMsg:
		m.issues = msg.Issues
		m.clampTaskSel()
		return m, nil

	case cachedTasksMsg:
		// Cached snapshot never overrides a live poll result.
		if len(m.issues) == 0 {
			m.issues = msg.issues
			m.clampTaskSel()
		}
		return m, nil

	case IssueDetailMsg:
		if msg.Gen != m.detailGen {
			return m, nil
		}
		m.detail = nil
		m.detailErr = ""
		switch {
		case msg.Err != nil:
			m.detailErr = fmt.Sprintf("Error loading task: %v", msg.Err)
		case !msg.Found:
			m.detailErr = "Error loading task: not found"
		default:
			issue := msg.Issue
			m.detail = &issue
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) clampTaskSel() {
	if m.taskSel >= len(m.issues) {
		m.taskSel = len(m.issues) - 1
	}
	if m.taskSel < 0 {
		m.taskSel = 0
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.active = (m.active + 1) % 3
		m.detail = nil
		m.detailErr = ""
		return m, nil

	case "esc":
		m.detail = nil
		m.detailErr = ""
		return m, nil

	case "up", "k":
		if m.active == paneTasks {
			if m.taskSel > 0 {
				m.taskSel--
			}
			return m, nil
		}
		m.scrollEvents(-1)
		return m, nil

	case "down", "j":
		if m.active == paneTasks {
			if m.taskSel < len(m.issues)-1 {
				m.taskSel++
			}
			return m, nil
		}
		m.scrollEvents(1)
		return m, nil

	case "pgup":
		m.scrollEvents(-m.paneHeight())
		return m, nil

	case "pgdown":
		m.scrollEvents(m.paneHeight())
		return m, nil

	case "g", "home":
		m.vp.ScrollToTop()
		return m, nil

	case "G", "end":
		m.vp.ScrollToBottom()
		return m, nil

	case "enter":
		if m.active == paneTasks && m.taskSel < len(m.issues) {
			return m.fetchIssueDetail(m.issues[m.taskSel].ID)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) scrollEvents(delta int) {
	lines := m.eventLines()
	m.vp.ScrollBy(delta, len(lines), m.paneHeight())
}

// fetchIssueDetail starts an async store lookup tagged with a fresh
// generation; any in-flight older fetch resolves to a stale message
// and is discarded.
func (m Model) fetchIssueDetail(id string) (tea.Model, tea.Cmd) {
	m.detailGen++
	gen := m.detailGen
	st := m.tasks
	return m, func() tea.Msg {
		if st == nil {
			return IssueDetailMsg{Gen: gen, Err: fmt.Errorf("task store unavailable")}
		}
		issue, found, err := st.Get(id)
		return IssueDetailMsg{Gen: gen, Issue: issue, Found: found, Err: err}
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// paneHeight is the pane body height: total minus header and footer.
func (m Model) paneHeight() int {
	h := m.height - 3
	if h < 4 {
		h = 4
	}
	return h
}

func (m Model) contentWidth() int {
	if m.width < 24 {
		return 24
	}
	return m.width
}

// eventLines renders the compiled session feed through the cache.
func (m *Model) eventLines() []string {
	width := m.contentWidth()
	return m.cache.Lines(m.feed.ID(), m.feed.Len(), width, func() []string {
		blocks := compile.Compile(m.feed.Snapshot())
		lines := m.renderer.Render(blocks, width)
		if max := m.prefs.MaxLogLines; max > 0 && len(lines) > max {
			lines = lines[len(lines)-max:]
		}
		return lines
	})
}

// View renders the whole dashboard frame.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	height := m.paneHeight()
	var body []string
	switch m.active {
	case paneAgents:
		body = renderAgentPane(m.agents, m.contentWidth())
		if len(body) > height {
			body = body[:height]
		}
	case paneTasks:
		body = m.taskPaneLines(height)
	default:
		body = m.vp.Visible(m.eventLines(), height)
	}
	for _, line := range body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := len(body); i < height; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.footerLine())
	return b.String()
}

func (m Model) taskPaneLines(height int) []string {
	width := m.contentWidth()
	if m.detailErr != "" {
		return []string{ErrorLoadStyle.Render(m.detailErr)}
	}
	if m.detail != nil {
		lines := renderIssueDetail(*m.detail, width)
		if len(lines) > height {
			lines = lines[:height]
		}
		return lines
	}
	lines := renderTaskPane(m.issues, m.taskSel, width)
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

func (m Model) headerLine() string {
	var parts []string
	for i, name := range paneNames {
		if pane(i) == m.active {
			parts = append(parts, PaneTitleSel.Render("["+name+"]"))
		} else {
			parts = append(parts, PaneTitle.Render(" "+name+" "))
		}
	}
	title := TitleStyle.Render("omsdash") + " " + strings.Join(parts, " ")
	return textwidth.ClipReset(title, m.contentWidth())
}

func (m Model) footerLine() string {
	parts := []string{fmt.Sprintf("omsdash %s", m.version)}
	if m.prefs.FooterStats {
		var total int
		var cost float64
		for _, a := range m.agents {
			total += a.Usage.TotalTokens
			cost += a.Usage.Cost
		}
		if total > 0 {
			parts = append(parts, fmt.Sprintf("%s tok · $%.4f", formatTokens(total), cost))
		}
	}
	if m.active == paneEvents && !m.vp.FollowingTail() {
		parts = append(parts, "scrolled (G to follow)")
	}
	parts = append(parts, "tab: pane · q: quit")
	return FooterStyle.Render(textwidth.Clip(strings.Join(parts, "  ·  "), m.contentWidth()))
}
