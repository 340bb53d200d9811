package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/registry"
)

func menuKey(m MenuModel, msg tea.KeyMsg) (MenuModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(MenuModel), cmd
}

func TestMenuDefaults(t *testing.T) {
	m := NewMenuModel("", 80, 24)
	if m.Preset() != config.PresetNormal {
		t.Errorf("default preset = %q, want normal", m.Preset())
	}
	if len(m.items) != len(registry.List()) {
		t.Errorf("menu should list every policy")
	}

	m = NewMenuModel("legacy", 80, 24)
	if m.Preset() != config.PresetLegacy {
		t.Errorf("initial preset = %q, want legacy", m.Preset())
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel("", 80, 24)
	if len(m.items) < 2 {
		t.Fatal("expected the built-in policies to be registered")
	}

	m, _ = menuKey(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Error("cursor should not move above the first item")
	}
	m, _ = menuKey(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = menuKey(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Preset() != config.PresetHard {
		t.Errorf("tab should cycle to hard, got %q", m.Preset())
	}

	m, cmd := menuKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("selecting should exit the menu")
	}
	if m.Selected() == nil || m.Selected().ID != m.items[1].ID {
		t.Errorf("selected = %+v, want %s", m.Selected(), m.items[1].ID)
	}
	if m.View() == "" {
		t.Error("View should still render after a selection")
	}
}

func TestMenuQuit(t *testing.T) {
	m := NewMenuModel("", 80, 24)
	m, _ = menuKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.IsQuitting() || m.Selected() != nil {
		t.Error("q should quit without a selection")
	}
	if m.View() != "" {
		t.Error("quitting menu should render nothing")
	}
}
