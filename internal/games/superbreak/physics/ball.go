// Package physics owns the ball: integration at a fixed speed, broad-phase
// overlap against an obstacle's bounding box, and speed-preserving reflection.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

var (
	// ErrDegenerateNormal is returned by Reflect for a zero or non-finite normal.
	ErrDegenerateNormal = errors.New("physics: degenerate normal")

	// ErrZeroVelocity marks an invariant violation: the ball lost all speed.
	ErrZeroVelocity = errors.New("physics: zero velocity")
)

// Ball is a circular body moving at a fixed target speed.
type Ball struct {
	Pos    surface.Vec
	Vel    surface.Vec // World units per second
	Radius float64
	Speed  float64 // Velocity is renormalized to this magnitude
}

// NewBall creates a ball whose target speed is the magnitude of the initial velocity.
func NewBall(pos, vel surface.Vec, radius float64) Ball {
	return Ball{
		Pos:    pos,
		Vel:    vel,
		Radius: radius,
		Speed:  vel.Len(),
	}
}

// Bounds returns the ball's bounding box.
func (b Ball) Bounds() core.RectF {
	return core.NewRectF(b.Pos.X-b.Radius, b.Pos.Y-b.Radius, 2*b.Radius, 2*b.Radius)
}

// Integrate advances the position by dt seconds, then renormalizes velocity to
// the target speed to cancel drift from earlier reflections.
func (b *Ball) Integrate(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Vel = rescale(b.Vel, b.Speed)
}

// Reflect mirrors the velocity about the plane with normal n and rescales it
// to speed. n need not be unit length. The ball is left untouched when n is
// degenerate.
func (b *Ball) Reflect(n surface.Vec, speed float64) error {
	nn := n.LenSq()
	if nn == 0 || math.IsNaN(nn) || math.IsInf(nn, 0) {
		return fmt.Errorf("%w: (%g, %g)", ErrDegenerateNormal, n.X, n.Y)
	}
	k := 2 * b.Vel.Dot(n) / nn
	b.Vel = rescale(b.Vel.Sub(n.Scale(k)), speed)
	return nil
}

// EnforceMinVerticalSpeed lifts |vy| to eps, keeping its sign, so the ball
// never settles into a near-horizontal path. A vy of exactly zero is sent
// downward toward the paddle.
func (b *Ball) EnforceMinVerticalSpeed(eps float64) {
	if math.Abs(b.Vel.Y) >= eps {
		return
	}
	if b.Vel.Y < 0 {
		b.Vel.Y = -eps
		return
	}
	b.Vel.Y = eps
}

// BroadOverlap reports whether the ball's box overlaps the obstacle's
// bounding box. Cheaper and looser than the exact boundary distance.
func BroadOverlap(b Ball, o surface.Obstacle) bool {
	return b.Bounds().Intersects(o.Bounds())
}

// rescale returns v with magnitude speed. A zero v can only come from an
// upstream logic error, so it panics.
func rescale(v surface.Vec, speed float64) surface.Vec {
	l := v.Len()
	if l == 0 {
		panic(ErrZeroVelocity)
	}
	return v.Scale(speed / l)
}
