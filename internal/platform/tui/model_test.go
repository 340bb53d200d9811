package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	_ "github.com/vovakirdan/tui-archery/internal/agent"
	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
	"github.com/vovakirdan/tui-archery/internal/sim"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

func newTestViewer(t *testing.T, opts ViewerOptions, store *storage.Store) ViewerModel {
	t.Helper()
	if opts.Policy == "" {
		opts.Policy = "aim"
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	m, err := NewViewerModel(config.Default(), opts, store, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewViewerModel() failed: %v", err)
	}
	return m
}

func tick(t *testing.T, m ViewerModel) (ViewerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(TickMsg(time.Time{}))
	vm, ok := next.(ViewerModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return vm, cmd
}

func press(t *testing.T, m ViewerModel, k string) (ViewerModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(ViewerModel), cmd
}

func TestNewViewerRejectsUnknownPolicy(t *testing.T) {
	_, err := NewViewerModel(config.Default(), ViewerOptions{Policy: "nope"}, nil, log.New(io.Discard))
	if err == nil {
		t.Error("expected an error for an unknown policy")
	}
}

func TestNewViewerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 0
	_, err := NewViewerModel(cfg, ViewerOptions{Policy: "aim"}, nil, log.New(io.Discard))
	if err == nil {
		t.Error("expected an error for an invalid config")
	}
}

func TestViewerFiresAndReplays(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{FPS: 10}, nil)

	m, cmd := tick(t, m)
	if cmd == nil {
		t.Fatal("viewer should keep ticking")
	}
	if m.Tally().Shots != 1 {
		t.Fatalf("first tick should fire a shot, got %d shots", m.Tally().Shots)
	}
	if len(m.frames) < 2 {
		t.Fatalf("expected recorded frames, got %d", len(m.frames))
	}
	if m.frames[0].Phase != sim.PhaseAwaitingShot {
		t.Errorf("first frame phase = %v", m.frames[0].Phase)
	}
	if last := m.frames[len(m.frames)-1]; last.Phase != sim.PhaseTerminal || last.Outcome == sim.OutcomeNone {
		t.Errorf("last frame should be resolved, got %+v", last)
	}

	// Replaying one frame per tick; no new shot until the flight is shown
	n := len(m.frames)
	for i := 1; i < n; i++ {
		m, _ = tick(t, m)
		if m.frame != i {
			t.Fatalf("frame = %d, want %d", m.frame, i)
		}
		if m.Tally().Shots != 1 {
			t.Fatalf("shot fired mid-replay at frame %d", i)
		}
	}
	if len(m.trail) != n-1 {
		t.Errorf("trail has %d points, want %d", len(m.trail), n-1)
	}

	// Linger, then fire the next shot
	for i := 0; i < 10/2; i++ {
		m, _ = tick(t, m)
	}
	if m.Tally().Shots != 1 {
		t.Fatal("next shot fired before the linger elapsed")
	}
	m, _ = tick(t, m)
	if m.Tally().Shots != 2 {
		t.Fatalf("expected the second shot, got %d", m.Tally().Shots)
	}
	if len(m.trail) != 0 {
		t.Error("trail should reset for a new flight")
	}
}

func TestViewerShotLimit(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{Shots: 2, FPS: 4}, nil)

	var cmd tea.Cmd
	for i := 0; i < 1000 && !m.Done(); i++ {
		m, cmd = tick(t, m)
	}
	if !m.Done() {
		t.Fatal("viewer should stop after the shot limit")
	}
	if m.Tally().Shots != 2 {
		t.Errorf("shots = %d, want 2", m.Tally().Shots)
	}
	if cmd != nil {
		t.Error("viewer should stop ticking once done")
	}
	if !strings.Contains(m.hud(), "[done]") {
		t.Errorf("HUD should show done, got %q", m.hud())
	}
}

func TestViewerPauseAndSkip(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{FPS: 10}, nil)
	m, _ = tick(t, m)

	m, _ = press(t, m, "p")
	if !m.paused {
		t.Fatal("p should pause")
	}
	frame := m.frame
	m, _ = tick(t, m)
	if m.frame != frame {
		t.Error("paused viewer should not advance")
	}
	m, _ = press(t, m, "p")

	m, _ = press(t, m, "n")
	if m.frame != len(m.frames)-1 {
		t.Errorf("skip should jump to the last frame, got %d of %d", m.frame, len(m.frames))
	}
	if len(m.trail) != len(m.frames) {
		t.Errorf("skip should fill the trail")
	}
	m, _ = tick(t, m)
	if m.Tally().Shots != 2 {
		t.Errorf("skip should fire the next shot on the following tick")
	}
}

func TestViewerQuit(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{}, nil)

	m, cmd := press(t, m, "q")
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("quit should return a command")
	}
	if m.View() != "" {
		t.Error("quitting viewer should render nothing")
	}
}

func TestViewerBoardKeyDisabledByDefault(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{}, nil)

	m, _ = press(t, m, "b")
	if m.WantsBoard() {
		t.Error("board key should be disabled outside SSH sessions")
	}

	m = m.WithBoardKey()
	m, _ = press(t, m, "b")
	if !m.WantsBoard() {
		t.Error("board key should work once enabled")
	}
	if m.Resume().WantsBoard() {
		t.Error("Resume should clear the request")
	}
}

func TestViewerAccuracyLabel(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{Width: 100, Height: 30}, nil)
	if !strings.Contains(m.hud(), "accuracy 0.0%") {
		t.Errorf("HUD = %q", m.hud())
	}

	for m.Tally().Shots < 3 {
		m, _ = tick(t, m)
	}
	if !strings.Contains(m.hud(), "accuracy "+m.Tally().Label()) {
		t.Errorf("HUD %q should carry label %q", m.hud(), m.Tally().Label())
	}
	if m.View() == "" {
		t.Error("View should render")
	}
}

func TestViewerBudgetErrorStops(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.MaxTicks = 1
	m, err := NewViewerModel(cfg, ViewerOptions{Policy: "aim", Seed: 1}, nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewViewerModel() failed: %v", err)
	}

	m, _ = tick(t, m)
	if m.Err() == nil {
		t.Fatal("expected a tick budget error")
	}
	if !m.Done() {
		t.Error("viewer should stop after an error")
	}
	if m.Tally().Shots != 0 {
		t.Error("failed shots should not be tallied")
	}
	if !strings.Contains(m.hud(), "error") {
		t.Errorf("HUD should show the error, got %q", m.hud())
	}
}

func TestViewerRecordsShots(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "shots.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestViewer(t, ViewerOptions{Preset: "easy"}, store)
	if m.RunID() == "" {
		t.Fatal("viewer should create a run")
	}
	for m.Tally().Shots < 3 {
		m, _ = tick(t, m)
	}

	shots, err := store.RunShots(m.RunID())
	if err != nil {
		t.Fatalf("RunShots() failed: %v", err)
	}
	if len(shots) != 3 {
		t.Fatalf("expected 3 recorded shots, got %d", len(shots))
	}
	run, _ := store.RunByID(m.RunID())
	if run == nil || run.Source != "watch" || run.Preset != "easy" {
		t.Errorf("unexpected run %+v", run)
	}
}

func TestViewerResize(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{}, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(ViewerModel)
	if m.screen.Width() != 120 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestSceneDraw(t *testing.T) {
	cfg := config.Default()
	s := core.NewScreen(80, 24)
	sc := Scene{
		Config: cfg,
		Frame: sim.Snapshot{
			Phase:    sim.PhaseInFlight,
			Arrow:    core.V(200, 300),
			Velocity: core.V(5, -5),
			Target:   core.V(600, 300),
		},
		Trail:  []core.Vec2{core.V(100, 400)},
		HUD:    "hud",
		Footer: "help",
	}
	sc.Draw(s)

	out := s.String()
	for _, want := range []string{"hud", "help", "@", "O", "/", "^", "."} {
		if !strings.Contains(out, want) {
			t.Errorf("scene should contain %q:\n%s", want, out)
		}
	}
	if !strings.Contains(s.String(), "____") {
		t.Error("scene should draw the ground")
	}
}

func TestProjection(t *testing.T) {
	world := config.Default().World
	p := NewProjection(world, 0, 1, 80, 26)

	x, y, ok := p.Cell(core.V(0, -world.TopMargin))
	if !ok || x != 0 || y != 1 {
		t.Errorf("top-left = (%d,%d,%v)", x, y, ok)
	}
	x, y, ok = p.Cell(core.V(799, 599))
	if !ok || x != 79 || y != 26 {
		t.Errorf("bottom-right = (%d,%d,%v)", x, y, ok)
	}
	if _, _, ok := p.Cell(core.V(-1, 10)); ok {
		t.Error("left of the world should not be visible")
	}
	if _, _, ok := p.Cell(core.V(10, 600)); ok {
		t.Error("below the floor should not be visible")
	}
}

func TestArrowGlyph(t *testing.T) {
	tests := []struct {
		vel  core.Vec2
		want rune
	}{
		{core.V(5, 0), '>'},
		{core.V(5, -5), '/'},
		{core.V(5, 5), '\\'},
		{core.V(0.1, -5), '|'},
		{core.V(0.1, 5), '|'},
		{core.V(0, 0), '>'},
	}
	for _, tt := range tests {
		if got := ArrowGlyph(tt.vel); got != tt.want {
			t.Errorf("ArrowGlyph(%v) = %q, want %q", tt.vel, got, tt.want)
		}
	}
}
