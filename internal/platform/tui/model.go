package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubble-arcade/internal/core"
	"github.com/vovakirdan/bubble-arcade/internal/registry"
	"github.com/vovakirdan/bubble-arcade/internal/storage"
)

// ScoreSubmitter records a finished game.
type ScoreSubmitter interface {
	SubmitScore(gameID, player string, score int) error
}

// Broadcaster receives live state from running sessions.
type Broadcaster interface {
	Broadcast(session, player, game string, st core.GameState, snapshot any)
	Leave(session string)
}

// Observer is implemented by games that expose a serializable snapshot
// for spectators.
type Observer interface {
	Observe() any
}

// Options are the collaborators of a game model. All fields are optional.
type Options struct {
	Scores        ScoreSubmitter
	Player        string
	Live          Broadcaster
	Session       string
	Logger        *log.Logger
	ScreenshotDir string // Defaults to ~/.arcade/screenshots

	// Embedded models belong to a menu session: b leaves the game instead
	// of the whole program.
	Embedded bool
}

// Model is the Bubble Tea model for running a single arcade game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	submitted  bool // Whether the score of the current game was submitted
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Player == "" {
		opts.Player = storage.AnonymousPlayer
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		logger:     logger,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// gameState is set on the first tick (value receiver)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		// The game lays itself out per frame; only the buffer changes.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.leave()
		return m, tea.Quit
	}

	switch {
	case msg.String() == "ctrl+s":
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "err", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
	case m.inputFrame.Has(core.ActionBack) && m.opts.Embedded:
		m.backToMenu = true
		m.leave()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.submitted = false
		m.inputFrame.Clear()
		m.broadcast()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Ended && !m.submitted {
		m.submit()
	}
	m.broadcast()

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// submit records the finished game once.
func (m *Model) submit() {
	m.submitted = true
	if m.opts.Scores == nil {
		return
	}
	if err := m.opts.Scores.SubmitScore(m.game.ID(), m.opts.Player, m.gameState.Score); err != nil {
		m.logger.Warn("score submission failed",
			"game", m.game.ID(),
			"player", m.opts.Player,
			"score", m.gameState.Score,
			"err", err,
		)
		return
	}
	m.logger.Info("score submitted", "game", m.game.ID(), "player", m.opts.Player, "score", m.gameState.Score)
}

func (m *Model) broadcast() {
	if m.opts.Live == nil {
		return
	}
	var snapshot any
	if o, ok := m.game.(Observer); ok {
		snapshot = o.Observe()
	}
	m.opts.Live.Broadcast(m.opts.Session, m.opts.Player, m.game.ID(), m.gameState, snapshot)
}

func (m *Model) leave() {
	if m.opts.Live != nil {
		m.opts.Live.Leave(m.opts.Session)
	}
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() (string, error) {
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: home directory: %w", err)
		}
		dir = filepath.Join(home, ".arcade", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: create screenshot dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // pointer aim follows the mouse
	)

	_, err := p.Run()
	return err
}
