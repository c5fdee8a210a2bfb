// Package superbreak adapts the superellipse breakout simulation to the
// terminal platform: it maps cell input to world coordinates, drives the
// session and rasterizes the world into a core.Screen.
package superbreak

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/superbreak/internal/config"
	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/sim"
)

// GameID is the identifier used for score storage.
const GameID = "superbreak"

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger handed to every session.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// Game implements core.Game on top of a sim.Session.
type Game struct {
	cfg     config.Config
	logger  *log.Logger
	session *sim.Session
	last    sim.FrameResult
	view    viewport
	pointer float64 // Paddle target in world x
}

var _ core.Game = (*Game)(nil)

// New creates a game for the given configuration. Call Reset before stepping.
func New(cfg config.Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("superbreak: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.newSession(); err != nil {
		return nil, err
	}
	rt := core.DefaultConfig()
	g.Resize(rt.ScreenW, rt.ScreenH)
	return g, nil
}

func (g *Game) newSession() error {
	s, err := sim.NewSession(g.cfg, sim.WithLogger(g.logger))
	if err != nil {
		return fmt.Errorf("superbreak: %w", err)
	}
	g.session = s
	g.pointer = g.cfg.World.Width / 2
	g.last = s.Frame()
	return nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Superbreak"
}

// Reset starts a fresh session sized for the terminal.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if err := g.newSession(); err != nil {
		// The configuration was validated in New.
		g.logger.Error("cannot start session", "error", err)
		return
	}
	g.Resize(runtime.ScreenW, runtime.ScreenH)
	g.logger.Debug("session started", "blocks", g.session.Total(), "cols", runtime.ScreenW, "rows", runtime.ScreenH)
}

// Resize recomputes the world to screen projection. The session is untouched.
func (g *Game) Resize(width, height int) {
	g.view = newViewport(width, height, g.cfg.World.Width, g.cfg.World.Height)
}

// Step advances the session by in.Delta seconds. A pointer position replaces
// the paddle target; left/right nudge it by paddle.key_step.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.HasPointer {
		g.pointer = g.view.worldX(in.PointerX)
	}
	if in.Has(core.ActionLeft) {
		g.pointer -= g.cfg.Paddle.KeyStep
	}
	if in.Has(core.ActionRight) {
		g.pointer += g.cfg.Paddle.KeyStep
	}
	g.pointer = core.ClampF(g.pointer, 0, g.cfg.World.Width)

	wasPartial, wasFull := g.last.PartialWin, g.last.FullWin
	g.last = g.session.Tick(sim.Input{
		Delta:       in.Delta,
		PointerX:    g.pointer,
		TogglePause: in.Has(core.ActionPause),
	})

	for _, k := range g.last.Hits {
		g.logger.Debug("block destroyed", "block", k, "combo", g.last.Combo, "score", g.last.Score)
	}
	if g.last.PartialWin && !wasPartial {
		g.logger.Info("partial win", "score", g.last.Score, "destroyed", g.last.Destroyed)
	}
	if g.last.FullWin && !wasFull {
		g.logger.Info("full win", "score", g.last.Score, "ticks", g.session.Ticks())
	}

	return core.StepResult{State: g.State()}
}

// State returns the current game summary.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:      g.last.Score,
		Combo:      g.last.Combo,
		Destroyed:  g.last.Destroyed,
		Total:      g.last.Total,
		Paused:     g.last.Paused,
		PartialWin: g.last.PartialWin,
		FullWin:    g.last.FullWin,
	}
}

// Session returns the underlying simulation.
func (g *Game) Session() *sim.Session {
	return g.session
}

// Pointer returns the paddle target in world x.
func (g *Game) Pointer() float64 {
	return g.pointer
}
