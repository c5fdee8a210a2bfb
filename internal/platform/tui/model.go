package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/sim"
	"github.com/vovakirdan/superbreak/internal/storage"
)

// footerRows is the number of rows under the game screen used by the help bar.
const footerRows = 1

// ResultSaver persists finished games. *storage.Store implements it.
type ResultSaver interface {
	SaveResult(r storage.Result) (int64, error)
}

// Options configures a Model.
type Options struct {
	Store         ResultSaver // Optional; results are dropped when nil
	Logger        *log.Logger
	MaxDelta      float64 // Frame delta cap in seconds, 0 = none
	ScreenshotDir string  // Defaults to ~/.superbreak/screenshots
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       core.Game
	screen     *core.Screen
	store      ResultSaver
	logger     *log.Logger
	config     core.RuntimeConfig
	clock      *sim.Clock
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       KeyMap
	help       help.Model
	shotDir    string
	status     string
	quitting   bool
	saved      bool // Whether the current game's result has been stored
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game core.Game, cfg core.RuntimeConfig, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	shotDir := opts.ScreenshotDir
	if shotDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			shotDir = filepath.Join(home, ".superbreak", "screenshots")
		}
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, fieldHeight(cfg.ScreenH)),
		store:      opts.Store,
		logger:     logger,
		config:     cfg,
		clock:      sim.NewClock(opts.MaxDelta),
		inputFrame: core.NewInputFrame(),
		keys:       DefaultKeyMap(),
		help:       h,
		shotDir:    shotDir,
	}
}

func fieldHeight(screenH int) int {
	return core.Max(screenH-footerRows, 1)
}

// Init starts the game and the frame loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.fieldConfig())
	// gameState is set on the first tick
	return tickCmd(m.config.FrameInterval())
}

func (m Model) fieldConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = fieldHeight(cfg.ScreenH)
	return cfg
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.inputFrame.Point(msg.X)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.saveResult()
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize only changes the projection; the session keeps running.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, fieldHeight(msg.Height))
	m.game.Resize(msg.Width, fieldHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick runs one frame of simulation.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.saveResult()
		m.game.Reset(m.fieldConfig())
		m.gameState = m.game.State()
		m.clock.Reset()
		m.saved = false
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.FrameInterval())
	}

	m.inputFrame.Delta = m.clock.Step(now, m.gameState.Paused)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.FullWin {
		m.saveResult()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.FrameInterval())
}

// saveResult stores the current game once. Empty games are not recorded.
func (m *Model) saveResult() {
	if m.saved || m.gameState.Score <= 0 {
		return
	}
	m.saved = true
	if m.store == nil {
		return
	}

	_, err := m.store.SaveResult(storage.Result{
		GameID:    m.game.ID(),
		Score:     m.gameState.Score,
		Destroyed: m.gameState.Destroyed,
		Total:     m.gameState.Total,
		FullClear: m.gameState.FullWin,
	})
	if err != nil {
		// Best-effort save, game continues regardless
		m.logger.Warn("cannot save result", "error", err)
		return
	}
	m.logger.Info("result saved", "score", m.gameState.Score, "destroyed", m.gameState.Destroyed, "full_clear", m.gameState.FullWin)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.shotDir == "" {
		return
	}
	m.game.Render(m.screen)

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	m.status = "saved " + path
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := helpStyle.Render(m.help.View(m.keys))
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// State returns the latest game summary.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given model.
func Run(game core.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err := p.Run()
	return err
}
