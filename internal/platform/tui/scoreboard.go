package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-archery/internal/storage"
)

// Runs board layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the policy sidebar
	sidebarWidth       = 26  // Width of policy sidebar
	maxRuns            = 200 // Max runs to load
	allPolicies        = "all"
)

// BoardKeyMap defines the key bindings for the runs board.
type BoardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPolicy key.Binding
	PrevPolicy key.Binding
	Refresh    key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPolicy, k.PrevPolicy, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPolicy, k.PrevPolicy},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPolicy: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next policy"),
		),
		PrevPolicy: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev policy"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BoardModel is the Bubble Tea model listing recorded runs.
type BoardModel struct {
	store       *storage.Store
	policies    []string // "all" followed by every policy with runs
	cursor      int
	stats       map[string]*storage.PolicyStats
	runs        []storage.RunSummary // Filtered by the selected policy
	loadErr     error
	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewBoardModel creates a runs board. store may be nil.
func NewBoardModel(store *storage.Store, width, height int) BoardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := BoardModel{
		store:       store,
		keys:        DefaultBoardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a new table sized for the current window.
func (m *BoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 8},
		{Title: "Policy", Width: 10},
		{Title: "Source", Width: 10},
		{Title: "Shots", Width: 6},
		{Title: "Acc", Width: 7},
		{Title: "Reward", Width: 8},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	used := 0
	for _, c := range columns[:len(columns)-1] {
		used += c.Width + 2
	}
	// Give the date column any room that is left
	if free := tableWidth - used - 2; free > columns[6].Width {
		columns[6].Width = min(free, 20)
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload refreshes policy stats and runs from the store.
func (m *BoardModel) reload() {
	selected := allPolicies
	if m.cursor < len(m.policies) {
		selected = m.policies[m.cursor]
	}

	m.policies = []string{allPolicies}
	m.stats = nil
	m.runs = nil
	m.loadErr = nil

	if m.store != nil {
		stats, err := m.store.GetAllPolicyStats()
		if err != nil {
			m.loadErr = err
		} else {
			m.stats = stats
			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)
			m.policies = append(m.policies, names...)
		}
	}

	m.cursor = 0
	for i, p := range m.policies {
		if p == selected {
			m.cursor = i
		}
	}
	m.loadRuns()
}

// loadRuns loads recent runs for the selected policy.
func (m *BoardModel) loadRuns() {
	m.runs = nil
	if m.store != nil && m.loadErr == nil {
		policy := m.policies[m.cursor]
		if policy == allPolicies {
			policy = ""
		}
		runs, err := m.store.RecentPolicyRuns(policy, maxRuns)
		if err != nil {
			m.loadErr = err
		}
		m.runs = runs
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *BoardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			shortID(r.ID),
			r.Policy,
			r.Source,
			fmt.Sprintf("%d", r.Shots),
			fmt.Sprintf("%.1f%%", r.Accuracy()*100),
			fmt.Sprintf("%.2f", r.MeanReward),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the board model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPolicy):
			m.cursor = (m.cursor + 1) % len(m.policies)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevPolicy):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.policies) - 1
			}
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board.
func (m BoardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("RUNS - %s", m.SelectedPolicy())
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the board with a sidebar of policy stats.
func (m BoardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Policies\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, p := range m.policies {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		line := p
		if st, ok := m.stats[p]; ok {
			line = fmt.Sprintf("%-10s %5.1f%%", p, st.Accuracy()*100)
		}
		sidebar.WriteString(style.Render(cursor + line))
		sidebar.WriteString("\n")
	}

	if st, ok := m.stats[m.SelectedPolicy()]; ok {
		sidebar.WriteString("\n")
		sidebar.WriteString(fmt.Sprintf("runs   %d\nshots  %d\nhits   %d\nticks  %.1f\n",
			st.Runs, st.Shots, st.Hits, st.MeanTicks))
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the board with policy tabs above the table.
func (m BoardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.policies))
	for i, p := range m.policies {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(p)
		} else {
			tabs[i] = tabStyle.Render(" " + p + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.SelectedPolicy())
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an explanatory message.
func (m BoardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("No shot log available.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load runs:\n" + m.loadErr.Error())
	case len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.\nTry `archery run --save`!")
	}
	return m.table.View()
}

// SelectedPolicy returns the policy filter currently shown.
func (m BoardModel) SelectedPolicy() string {
	if m.cursor < len(m.policies) {
		return m.policies[m.cursor]
	}
	return allPolicies
}

// Runs returns the runs currently listed.
func (m BoardModel) Runs() []storage.RunSummary {
	return m.runs
}

// IsGoingBack returns true if user wants to go back.
func (m BoardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// RunBoard runs the board screen on its own.
func RunBoard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewBoardModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
