package sim

import (
	"github.com/vovakirdan/superbreak/internal/games/superbreak/physics"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

type frameEvents struct {
	hits       []Key
	paddleHit  bool
	degenerate int
}

// step runs one unpaused frame of motion and collision resolution.
func (s *Session) step(dt, pointerX float64) frameEvents {
	var ev frameEvents
	eps := s.cfg.Ball.MinVerticalSpeed

	s.ball.Integrate(dt)
	s.paddle.CX = pointerX

	s.resolvePaddle(&ev)
	s.ball.EnforceMinVerticalSpeed(eps)
	s.resolveSideWalls()
	s.resolveBlocks(&ev)
	s.resolveTop()
	s.checkFullWin()
	s.resolveBottom()
	// Block reflections can flatten the path too.
	s.ball.EnforceMinVerticalSpeed(eps)

	return ev
}

// resolvePaddle reflects off the paddle on the first overlapping frame only;
// the contact flag clears once the boxes separate.
func (s *Session) resolvePaddle(ev *frameEvents) {
	overlap := physics.BroadOverlap(s.ball, s.paddle)
	if !overlap {
		s.paddleContact = false
		return
	}
	if s.paddleContact {
		return
	}

	s.paddleContact = true
	s.combo = 0
	ev.paddleHit = true
	s.bounce(&s.paddle, ev)
}

func (s *Session) resolveSideWalls() {
	b := &s.ball
	if (b.Pos.X <= b.Radius && b.Vel.X < 0) || (b.Pos.X > s.cfg.World.Width-b.Radius && b.Vel.X > 0) {
		b.Vel.X = -b.Vel.X
	}
}

// resolveBlocks destroys every visible block the ball overlaps, in row-major
// order. Each one scores and reflects independently, so the first reflection
// already shapes the path used by the next.
func (s *Session) resolveBlocks(ev *frameEvents) {
	r := s.ball.Radius
	row0, row1, col0, col1 := s.grid.Span(s.ball.Pos.X, s.ball.Pos.Y, r, r)

	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			b := s.grid.At(row, col)
			if b.Hidden || !physics.BroadOverlap(s.ball, *b) {
				continue
			}

			s.combo++
			s.score += s.cfg.Scoring.Increment * s.combo
			s.bounce(b, ev)
			b.Hidden = true
			s.destroyed++
			ev.hits = append(ev.hits, Key{Row: row, Col: col})
		}
	}
}

// resolveTop marks a partial win the first time the ball leaves through the
// top with blocks remaining.
func (s *Session) resolveTop() {
	b := &s.ball
	if b.Pos.Y > 0 || b.Vel.Y >= 0 {
		return
	}
	if s.destroyed < s.grid.Len() && !s.partialWin && !s.fullWin {
		s.partialWin = true
		s.logger.Info("ball broke out", "destroyed", s.destroyed, "total", s.grid.Len(), "score", s.score)
	}
	if s.cfg.World.TopBounce {
		b.Vel.Y = -b.Vel.Y
	}
}

func (s *Session) checkFullWin() {
	if s.fullWin || s.destroyed != s.grid.Len() {
		return
	}
	s.fullWin = true
	s.score += s.cfg.Scoring.ClearBonus
	s.logger.Info("all blocks destroyed", "score", s.score, "ticks", s.ticks)
}

func (s *Session) resolveBottom() {
	b := &s.ball
	if b.Pos.Y > s.cfg.World.Height-b.Radius && b.Vel.Y > 0 {
		b.Vel.Y = -b.Vel.Y
	}
}

// bounce reflects the ball off o at the estimated touch point. A degenerate
// normal skips the reflection for this obstacle only.
func (s *Session) bounce(o *surface.Obstacle, ev *frameEvents) {
	p := o.EstimateIntersection(s.ball.Pos, s.ball.Radius)
	if err := s.ball.Reflect(o.Normal(p), s.ball.Speed); err != nil {
		ev.degenerate++
		s.degenerate++
		s.logger.Warn("skipping reflection",
			"role", o.Role,
			"x", p.X,
			"y", p.Y,
			"error", err,
		)
	}
}
