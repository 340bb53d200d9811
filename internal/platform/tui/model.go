package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
	"github.com/vovakirdan/tui-archery/internal/registry"
	"github.com/vovakirdan/tui-archery/internal/runner"
	"github.com/vovakirdan/tui-archery/internal/sim"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

// Viewer defaults
const (
	DefaultFPS    = 30
	DefaultWidth  = 80
	DefaultHeight = 24
)

// ViewerOptions configures a shot viewer.
type ViewerOptions struct {
	Policy string
	Shots  int   // Stop after this many shots; 0 runs until quit
	FPS    int   // Replay rate
	Seed   int64 // 0 seeds from the clock
	Preset string
	Source string // Recorded with the run; defaults to "watch"
	Width  int
	Height int
}

// ViewerModel fires one policy shot after another through its own
// environment and replays each recorded flight frame by frame.
// The flight is fully resolved before the first frame is shown.
type ViewerModel struct {
	cfg    config.Archery
	opts   ViewerOptions
	env    *sim.Env
	rec    *sim.Recorder
	policy registry.Policy
	store  *storage.Store
	runID  string
	logger *log.Logger

	screen *core.Screen
	keys   ViewerKeyMap
	help   help.Model

	frames []sim.Snapshot
	frame  int
	trail  []core.Vec2
	linger int // Ticks to keep a resolved flight on screen

	tally runner.Tally
	last  *sim.StepResult
	err   error

	paused   bool
	done     bool
	quitting bool
	board    bool // Set when the user asked for the runs board
}

// NewViewerModel builds a viewer with its own environment and policy.
// store may be nil; shots are then not recorded.
func NewViewerModel(cfg config.Archery, opts ViewerOptions, store *storage.Store, logger *log.Logger) (ViewerModel, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Source == "" {
		opts.Source = "watch"
	}
	if logger == nil {
		logger = log.Default()
	}

	rec := &sim.Recorder{}
	env, err := sim.New(cfg, sim.WithSeed(opts.Seed), sim.WithSink(rec))
	if err != nil {
		return ViewerModel{}, err
	}
	policy, err := registry.Create(opts.Policy, cfg, opts.Seed)
	if err != nil {
		env.Close()
		return ViewerModel{}, err
	}

	m := ViewerModel{
		cfg:    cfg,
		opts:   opts,
		env:    env,
		rec:    rec,
		policy: policy,
		store:  store,
		logger: logger,
		screen: core.NewScreen(opts.Width, opts.Height),
		keys:   DefaultViewerKeyMap(),
		help:   help.New(),
	}
	m.help.Width = opts.Width

	if store != nil {
		id, err := store.CreateRun(storage.Run{
			Policy: opts.Policy,
			Source: opts.Source,
			Preset: opts.Preset,
			Seed:   opts.Seed,
		})
		if err != nil {
			// Keep watching without a shot log
			logger.Warn("could not record run", "error", err)
			m.store = nil
		} else {
			m.runID = id
		}
	}
	return m, nil
}

// Init starts the replay loop.
func (m ViewerModel) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width = msg.Width
		m.opts.Height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m = m.advance()
		if m.done && m.frame >= len(m.frames)-1 {
			// Nothing left to replay; stop ticking
			return m, nil
		}
		return m, tickCmd(m.opts.FPS)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.env.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Skip):
		if len(m.frames) > 0 {
			m.frame = len(m.frames) - 1
			m.trail = trailOf(m.frames)
			m.linger = 0
		}

	case key.Matches(msg, m.keys.Board):
		m.board = true
	}
	return m, nil
}

// advance moves the replay forward one frame, firing the next shot once
// the current flight has been shown.
func (m ViewerModel) advance() ViewerModel {
	if m.paused || m.quitting {
		return m
	}
	if m.frame < len(m.frames)-1 {
		m.frame++
		m.trail = append(m.trail, m.frames[m.frame].Arrow)
		if m.frame == len(m.frames)-1 {
			m.linger = m.opts.FPS / 2
		}
		return m
	}
	if m.linger > 0 {
		m.linger--
		return m
	}
	if m.done {
		return m
	}
	return m.fire()
}

// fire resolves one shot and queues its frames for replay.
func (m ViewerModel) fire() ViewerModel {
	if m.opts.Shots > 0 && m.tally.Shots >= m.opts.Shots {
		m.done = true
		return m
	}

	obs, _ := m.env.Reset()
	action := m.policy.Act(obs)
	res, err := m.env.Step(action)
	m.frames = m.rec.Drain()
	m.frame = 0
	m.trail = nil

	if err != nil {
		m.err = err
		m.done = true
		m.logger.Error("shot failed", "policy", m.policy.ID(), "error", err)
		return m
	}

	m.tally.Add(res.Hit, res.Reward)
	m.last = &res

	if m.store != nil {
		shot := runner.ShotRecord(m.runID, m.tally.Shots-1, action, res)
		if _, err := m.store.SaveShot(shot); err != nil {
			m.logger.Warn("could not save shot", "error", err)
		}
	}
	return m
}

// trailOf collects every arrow position of a flight.
func trailOf(frames []sim.Snapshot) []core.Vec2 {
	trail := make([]core.Vec2, 0, len(frames))
	for _, f := range frames {
		trail = append(trail, f.Arrow)
	}
	return trail
}

// Tally returns the running shot count.
func (m ViewerModel) Tally() runner.Tally {
	return m.tally
}

// Err returns the error that stopped the viewer, if any.
func (m ViewerModel) Err() error {
	return m.err
}

// RunID returns the shot-log run ID, or "" when shots are not recorded.
func (m ViewerModel) RunID() string {
	return m.runID
}

// Done reports whether the viewer stopped firing shots.
func (m ViewerModel) Done() bool {
	return m.done
}

// IsQuitting returns true if user requested to quit.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// WantsBoard reports whether the user asked to switch to the runs board.
func (m ViewerModel) WantsBoard() bool {
	return m.board
}

// WithBoardKey enables the key that switches to the runs board.
func (m ViewerModel) WithBoardKey() ViewerModel {
	m.keys.Board.SetEnabled(true)
	return m
}

// Resume clears a pending board request.
func (m ViewerModel) Resume() ViewerModel {
	m.board = false
	return m
}

// scene assembles what the current frame looks like.
func (m ViewerModel) scene() Scene {
	sc := Scene{
		Config:   m.cfg,
		Trail:    m.trail,
		HUD:      m.hud(),
		Footer:   m.help.View(m.keys),
		HUDColor: core.ColorDefault,
	}
	if m.frame < len(m.frames) {
		sc.Frame = m.frames[m.frame]
	}
	if m.err != nil {
		sc.HUDColor = core.ColorBrightRed
	}
	return sc
}

func (m ViewerModel) hud() string {
	shots := fmt.Sprintf("%d", m.tally.Shots)
	if m.opts.Shots > 0 {
		shots = fmt.Sprintf("%d/%d", m.tally.Shots, m.opts.Shots)
	}
	line := fmt.Sprintf(" %s  shot %s  accuracy %s", m.policy.ID(), shots, m.tally.Label())

	switch {
	case m.err != nil:
		line += "  error: " + m.err.Error()
	case m.last != nil && m.frame >= len(m.frames)-1:
		if m.last.Hit {
			line += fmt.Sprintf("  HIT  %+.2f", m.last.Reward)
		} else {
			line += fmt.Sprintf("  miss %+.2f", m.last.Reward)
		}
	}
	if m.paused {
		line += "  [paused]"
	}
	if m.done && m.err == nil {
		line += "  [done]"
	}
	return line
}

// saveScreenshot saves the current screen to a file.
func (m *ViewerModel) saveScreenshot() {
	m.scene().Draw(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".archery", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.policy.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, the viewer continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting {
		return ""
	}
	m.scene().Draw(m.screen)
	return RenderScreen(m.screen)
}

// RunViewer starts the Bubble Tea program for a local viewer and returns
// the final model.
func RunViewer(cfg config.Archery, opts ViewerOptions, store *storage.Store, logger *log.Logger) (ViewerModel, error) {
	model, err := NewViewerModel(cfg, opts, store, logger)
	if err != nil {
		return ViewerModel{}, err
	}
	defer model.env.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return model, err
	}
	if vm, ok := final.(ViewerModel); ok {
		return vm, nil
	}
	return model, nil
}
