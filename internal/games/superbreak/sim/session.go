// Package sim runs the superbreak simulation: a session owns the block grid,
// the paddle and the ball, and advances them one frame at a time.
//
// A Session is not safe for concurrent use. The platform loop owns it and
// must snapshot it before handing state to another goroutine.
package sim

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/superbreak/internal/config"
	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/physics"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

// Input is what the session consumes each frame.
type Input struct {
	Delta       float64 // Seconds since the previous frame
	PointerX    float64 // Paddle center x in world units, clamped by the caller
	TogglePause bool
}

// BlockView is a visible block as handed to the renderer.
type BlockView struct {
	Key    Key
	Bounds core.RectF
}

// FrameResult is what the session exposes after each frame.
type FrameResult struct {
	Score     int
	Combo     int
	Destroyed int
	Total     int

	Blocks []BlockView // Visible blocks in row-major order
	Paddle core.RectF
	Ball   core.RectF

	PartialWin bool
	FullWin    bool
	Paused     bool

	Hits       []Key // Blocks destroyed this frame, in resolution order
	PaddleHit  bool  // Ball started touching the paddle this frame
	Degenerate int   // Reflections skipped this frame for a zero normal
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for unexpected numeric states.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is the complete mutable game state.
type Session struct {
	cfg    config.Config
	grid   *Grid
	paddle surface.Obstacle
	ball   physics.Ball

	score     int
	combo     int // Blocks broken since the last paddle contact
	destroyed int

	paddleContact bool // Ball box overlapped the paddle last frame
	partialWin    bool
	fullWin       bool
	paused        bool

	ticks      uint64
	degenerate int

	logger *log.Logger
}

// NewSession builds a fresh session from a validated configuration.
func NewSession(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	grid, err := NewGrid(cfg)
	if err != nil {
		return nil, err
	}

	paddle, err := surface.New(
		cfg.World.Width/2,
		cfg.Paddle.YFraction*cfg.World.Height,
		cfg.Paddle.ScaleY,
		cfg.Paddle.HypRadius,
		surface.RolePaddle,
	)
	if err != nil {
		return nil, fmt.Errorf("sim: paddle: %w", err)
	}

	s := &Session{
		cfg:    cfg,
		grid:   grid,
		paddle: paddle,
		ball: physics.NewBall(
			surface.V(cfg.Ball.X, cfg.Ball.Y),
			surface.V(cfg.Ball.VX, cfg.Ball.VY),
			cfg.Ball.Radius,
		),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tick advances the session by one frame. A paused session only reports its
// state; no simulated time passes.
func (s *Session) Tick(in Input) FrameResult {
	if in.TogglePause {
		s.paused = !s.paused
	}
	if s.paused {
		return s.frame(frameEvents{})
	}

	s.ticks++
	return s.frame(s.step(in.Delta, in.PointerX))
}

// Frame reports the current state without advancing the session.
func (s *Session) Frame() FrameResult {
	return s.frame(frameEvents{})
}

func (s *Session) frame(ev frameEvents) FrameResult {
	blocks := make([]BlockView, 0, s.grid.Visible())
	s.grid.Each(func(k Key, b *surface.Obstacle) {
		if !b.Hidden {
			blocks = append(blocks, BlockView{Key: k, Bounds: b.Bounds()})
		}
	})

	return FrameResult{
		Score:      s.score,
		Combo:      s.combo,
		Destroyed:  s.destroyed,
		Total:      s.grid.Len(),
		Blocks:     blocks,
		Paddle:     s.paddle.Bounds(),
		Ball:       s.ball.Bounds(),
		PartialWin: s.partialWin,
		FullWin:    s.fullWin,
		Paused:     s.paused,
		Hits:       ev.hits,
		PaddleHit:  ev.paddleHit,
		Degenerate: ev.degenerate,
	}
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.Config { return s.cfg }

// Grid returns the block grid.
func (s *Session) Grid() *Grid { return s.grid }

// Ball returns a copy of the ball.
func (s *Session) Ball() physics.Ball { return s.ball }

// Paddle returns a copy of the paddle.
func (s *Session) Paddle() surface.Obstacle { return s.paddle }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Combo returns the current combo.
func (s *Session) Combo() int { return s.combo }

// Destroyed returns the number of destroyed blocks.
func (s *Session) Destroyed() int { return s.destroyed }

// Total returns the number of blocks the session started with.
func (s *Session) Total() int { return s.grid.Len() }

// PartialWin reports whether the ball broke out with blocks remaining.
func (s *Session) PartialWin() bool { return s.partialWin }

// FullWin reports whether every block has been destroyed.
func (s *Session) FullWin() bool { return s.fullWin }

// Paused reports whether the session is paused.
func (s *Session) Paused() bool { return s.paused }

// Ticks returns the number of simulated (unpaused) frames.
func (s *Session) Ticks() uint64 { return s.ticks }

// DegenerateNormals returns how many reflections were skipped so far.
func (s *Session) DegenerateNormals() int { return s.degenerate }
