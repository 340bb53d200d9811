package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "shots.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, policy := range []string{"aim", "random", "aim"} {
		id, err := store.CreateRun(storage.Run{Policy: policy, Source: "run"})
		if err != nil {
			t.Fatalf("CreateRun() failed: %v", err)
		}
		if _, err := store.SaveShot(storage.Shot{RunID: id, Hit: policy == "aim", Reward: 1}); err != nil {
			t.Fatalf("SaveShot() failed: %v", err)
		}
	}
	return store
}

func boardKey(t *testing.T, m BoardModel, msg tea.KeyMsg) (BoardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(BoardModel), cmd
}

func TestBoardWithoutStore(t *testing.T) {
	m := NewBoardModel(nil, 80, 24)
	if m.SelectedPolicy() != "all" {
		t.Errorf("selected = %q", m.SelectedPolicy())
	}
	if !strings.Contains(m.View(), "No shot log") {
		t.Error("board should explain the missing shot log")
	}
}

func TestBoardFiltersByPolicy(t *testing.T) {
	m := NewBoardModel(seededStore(t), 120, 30)

	if got := len(m.Runs()); got != 3 {
		t.Fatalf("all runs = %d, want 3", got)
	}

	m, _ = boardKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.SelectedPolicy() != "aim" {
		t.Fatalf("selected = %q, want aim", m.SelectedPolicy())
	}
	if got := len(m.Runs()); got != 2 {
		t.Errorf("aim runs = %d, want 2", got)
	}

	m, _ = boardKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.SelectedPolicy() != "random" || len(m.Runs()) != 1 {
		t.Errorf("random filter: %q with %d runs", m.SelectedPolicy(), len(m.Runs()))
	}

	// Wraps around
	m, _ = boardKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.SelectedPolicy() != "all" {
		t.Errorf("tab should wrap to all, got %q", m.SelectedPolicy())
	}
	m, _ = boardKey(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.SelectedPolicy() != "random" {
		t.Errorf("shift+tab should wrap back, got %q", m.SelectedPolicy())
	}

	view := m.View()
	if !strings.Contains(view, "RUNS - random") {
		t.Errorf("title missing from view:\n%s", view)
	}
}

func TestBoardNarrowLayout(t *testing.T) {
	m := NewBoardModel(seededStore(t), 60, 20)
	if m.showSidebar {
		t.Fatal("narrow board should not show a sidebar")
	}
	if m.View() == "" {
		t.Error("View should render")
	}
}

func TestBoardBackAndQuit(t *testing.T) {
	m := NewBoardModel(nil, 80, 24)
	back, cmd := boardKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || cmd == nil {
		t.Error("esc should go back")
	}

	quit, _ := boardKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}

func TestSessionTogglesBoard(t *testing.T) {
	store := seededStore(t)
	s, err := NewSessionModel(config.Default(), ViewerOptions{Policy: "aim", Seed: 5, Source: "ssh:test"}, store, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSessionModel() failed: %v", err)
	}

	update := func(msg tea.Msg) tea.Cmd {
		next, cmd := s.Update(msg)
		s = next.(SessionModel)
		return cmd
	}

	update(TickMsg(time.Time{}))
	update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if !s.OnBoard() {
		t.Fatal("b should open the runs board")
	}
	// The session's own run shows up next to the seeded ones
	if got := len(s.board.Runs()); got != 4 {
		t.Errorf("board runs = %d, want 4", got)
	}

	shots := s.viewer.Tally().Shots
	if cmd := update(TickMsg(time.Time{})); cmd == nil {
		t.Error("ticks should keep flowing while the board is open")
	}
	if s.viewer.Tally().Shots != shots {
		t.Error("viewer should not fire while the board is open")
	}

	if cmd := update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("going back should not quit the session")
	}
	if s.OnBoard() {
		t.Error("esc should return to the viewer")
	}

	update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if s.View() != "" {
		t.Error("quitting session should render nothing")
	}
}
