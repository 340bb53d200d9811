package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.archery/host_key.
	HostKeyPath string

	// DBPath is the path to the shot log. Empty disables recording.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Policy is the policy every session watches.
	Policy string

	// Preset is recorded with each session's run.
	Preset string

	// FPS is the replay rate of each session.
	FPS int
}

// SSHServer wraps a Wish SSH server that gives every session its own
// environment and viewer.
type SSHServer struct {
	config SSHServerConfig
	world  config.Archery
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, world config.Archery, logger *log.Logger) (*SSHServer, error) {
	if err := world.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "archery-ssh",
		})
	}

	var store *storage.Store
	if cfg.DBPath != "" {
		var err error
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open shot log", "error", err)
			// Continue without storage
			store = nil
		}
	}

	srv := &SSHServer{
		config: cfg,
		world:  world,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".archery", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model, err := NewSessionModel(s.world, ViewerOptions{
		Policy: s.config.Policy,
		FPS:    s.config.FPS,
		Seed:   time.Now().UnixNano(),
		Preset: s.config.Preset,
		Source: "ssh:" + sshSession.User(),
		Width:  pty.Window.Width,
		Height: pty.Window.Height,
	}, s.store, s.logger.With("user", sshSession.User()))
	if err != nil {
		s.logger.Error("cannot start session", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "policy", s.config.Policy)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages one SSH session: the viewer, with the runs board
// one key away.
type SessionModel struct {
	store    *storage.Store
	viewer   ViewerModel
	board    BoardModel
	onBoard  bool
	width    int
	height   int
	quitting bool
}

// NewSessionModel creates a session with its own environment.
func NewSessionModel(world config.Archery, opts ViewerOptions, store *storage.Store, logger *log.Logger) (SessionModel, error) {
	viewer, err := NewViewerModel(world, opts, store, logger)
	if err != nil {
		return SessionModel{}, err
	}
	return SessionModel{
		store:  store,
		viewer: viewer.WithBoardKey(),
		width:  viewer.opts.Width,
		height: viewer.opts.Height,
	}, nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.viewer.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.onBoard {
		return m.updateBoard(msg)
	}
	return m.updateViewer(msg)
}

func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.viewer.Update(msg)
	if vm, ok := next.(ViewerModel); ok {
		m.viewer = vm
	}

	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.viewer.WantsBoard() {
		m.viewer = m.viewer.Resume()
		m.viewer.paused = true
		m.board = NewBoardModel(m.store, m.width, m.height)
		m.onBoard = true
		return m, m.board.Init()
	}
	return m, cmd
}

func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The replay loop keeps ticking while the board is up.
	if _, ok := msg.(TickMsg); ok {
		return m, tickCmd(m.viewer.opts.FPS)
	}
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		next, _ := m.viewer.Update(wsm)
		if vm, ok := next.(ViewerModel); ok {
			m.viewer = vm
		}
	}

	next, cmd := m.board.Update(msg)
	if bm, ok := next.(BoardModel); ok {
		m.board = bm
	}

	if m.board.IsQuitting() {
		m.quitting = true
		m.viewer.env.Close()
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		// Swallow the board's quit command; the session continues.
		m.onBoard = false
		m.viewer.paused = false
		return m, nil
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.onBoard {
		return m.board.View()
	}
	return m.viewer.View()
}

// OnBoard reports whether the runs board is showing.
func (m SessionModel) OnBoard() bool {
	return m.onBoard
}
