package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/registry"
)

// MenuKeyMap defines the key bindings of the policy picker.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Preset key.Binding
	Select key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
		Preset: key.NewBinding(key.WithKeys("tab", "right", "l")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// MenuModel is the Bubble Tea model for the policy picker.
type MenuModel struct {
	items    []registry.PolicyInfo
	presets  []config.Preset
	cursor   int
	preset   int
	width    int
	height   int
	keys     MenuKeyMap
	quitting bool
	selected *registry.PolicyInfo // Set when user picks a policy
}

// NewMenuModel creates a picker over every registered policy. initial
// preselects a preset; unknown names fall back to normal.
func NewMenuModel(initial string, width, height int) MenuModel {
	m := MenuModel{
		items:   registry.List(),
		presets: config.Presets(),
		width:   width,
		height:  height,
		keys:    DefaultMenuKeyMap(),
	}
	for i, p := range m.presets {
		if string(p) == initial || (initial == "" && p == config.PresetNormal) {
			m.preset = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Preset):
		m.preset = (m.preset + 1) % len(m.presets)

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start watching
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  A R C H E R Y  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a policy to watch", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, item.ID, item.Description)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Preset: < %s >", m.Preset()), m.width))
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Tab: Preset  |  Enter: Watch  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the picked policy, or nil if none was picked.
func (m MenuModel) Selected() *registry.PolicyInfo {
	return m.selected
}

// Preset returns the preset currently shown.
func (m MenuModel) Preset() config.Preset {
	return m.presets[m.preset]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Policy string
	Preset config.Preset
	Quit   bool
}

// RunMenu runs the picker and returns the selection.
func RunMenu(initialPreset string, width, height int) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(initialPreset, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Quit: true}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Quit: true}, nil
	}
	return MenuResult{Policy: m.Selected().ID, Preset: m.Preset()}, nil
}
