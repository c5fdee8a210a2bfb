// Package surface models blocks and the paddle as degree-4 superellipses:
//
//	|x-cx|^4 + (sy*(y-cy))^4 = h^4
//
// which gives a rounded-rectangle silhouette of half-width h and half-height
// h/sy. The package estimates where a circular body touches the boundary and
// returns the outward normal there.
package surface

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/superbreak/internal/core"
)

// Samples is the number of evenly spaced vertical offsets scanned by
// EstimateIntersection.
const Samples = 25

// ErrInvalidShape is returned when an obstacle has a non-positive size or scale.
var ErrInvalidShape = errors.New("surface: invalid shape")

// Role distinguishes breakable blocks from the paddle.
type Role int

const (
	RoleBlock Role = iota
	RolePaddle
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	switch r {
	case RoleBlock:
		return "block"
	case RolePaddle:
		return "paddle"
	default:
		return "unknown"
	}
}

// Obstacle is a superellipse-shaped block or paddle.
type Obstacle struct {
	CX, CY    float64 // Center
	ScaleY    float64 // Vertical anisotropy (sy)
	HypRadius float64 // Half-width (h)
	Hidden    bool    // Destroyed blocks are hidden for good
	Role      Role
}

// New creates an obstacle, rejecting non-positive hypradius or scale.
func New(cx, cy, scaleY, hypRadius float64, role Role) (Obstacle, error) {
	if !(hypRadius > 0) || !(scaleY > 0) {
		return Obstacle{}, fmt.Errorf("%w: hypradius=%g scale_y=%g", ErrInvalidShape, hypRadius, scaleY)
	}
	return Obstacle{
		CX:        cx,
		CY:        cy,
		ScaleY:    scaleY,
		HypRadius: hypRadius,
		Role:      role,
	}, nil
}

// Center returns the obstacle center.
func (o Obstacle) Center() Vec {
	return Vec{o.CX, o.CY}
}

// HalfWidth returns the horizontal extent from the center.
func (o Obstacle) HalfWidth() float64 {
	return o.HypRadius
}

// HalfHeight returns the vertical extent from the center.
func (o Obstacle) HalfHeight() float64 {
	return o.HypRadius / o.ScaleY
}

// Bounds returns the axis-aligned bounding box of the boundary.
func (o Obstacle) Bounds() core.RectF {
	hw, hh := o.HalfWidth(), o.HalfHeight()
	return core.NewRectF(o.CX-hw, o.CY-hh, 2*hw, 2*hh)
}

// implicit evaluates |x-cx|^4 + (sy*(y-cy))^4.
func (o Obstacle) implicit(p Vec) float64 {
	dx := p.X - o.CX
	dy := o.ScaleY * (p.Y - o.CY)
	return pow4(dx) + pow4(dy)
}

// Residual returns how far p is from satisfying the boundary equation.
// Zero on the boundary, negative inside, positive outside.
func (o Obstacle) Residual(p Vec) float64 {
	return o.implicit(p) - pow4(o.HypRadius)
}

// RelativeResidual returns |Residual(p)| / h^4.
func (o Obstacle) RelativeResidual(p Vec) float64 {
	return math.Abs(o.Residual(p)) / pow4(o.HypRadius)
}

// Contains reports whether p lies on or inside the boundary.
func (o Obstacle) Contains(p Vec) bool {
	return o.Residual(p) <= 0
}

// halfWidthAt returns the boundary half-width at vertical offset d from the
// center. ok is false when d lies outside the vertical extent, in which case
// the radicand has been clamped to zero.
func (o Obstacle) halfWidthAt(d float64) (c float64, ok bool) {
	radicand := pow4(o.HypRadius) - pow4(o.ScaleY*d)
	if radicand < 0 {
		return 0, false
	}
	return math.Sqrt(math.Sqrt(radicand)), true
}

// EstimateIntersection returns the boundary point where a circle of the given
// radius centered at ball is closest to tangent.
//
// Offsets d are sampled over [0, ball.Y-cy]; each yields the boundary point
// (cx ± c, cy + d) on the side the ball approaches from, scored by how far its
// squared distance to the ball deviates from radius^2. Offsets outside the
// vertical extent are never picked unless nothing else is valid.
func (o Obstacle) EstimateIntersection(ball Vec, radius float64) Vec {
	span := ball.Y - o.CY
	side := 1.0
	if ball.X < o.CX {
		side = -1.0
	}
	r2 := radius * radius

	bestD := 0.0
	bestErr := math.Inf(1)
	for i := range Samples {
		d := span * float64(i) / float64(Samples-1)
		c, ok := o.halfWidthAt(d)
		if !ok {
			continue
		}
		p := Vec{o.CX + side*c, o.CY + d}
		e := math.Abs(p.Sub(ball).LenSq() - r2)
		if e < bestErr {
			bestErr = e
			bestD = d
		}
	}

	c, _ := o.halfWidthAt(bestD)
	return Vec{o.CX + side*c, o.CY + bestD}
}

// Normal returns the gradient of the implicit function at p:
// (4(x-cx)^3, 4 sy^4 (y-cy)^3). It is not unit length and is the zero
// vector at the center.
func (o Obstacle) Normal(p Vec) Vec {
	dx := p.X - o.CX
	dy := p.Y - o.CY
	return Vec{
		X: 4 * dx * dx * dx,
		Y: 4 * pow4(o.ScaleY) * dy * dy * dy,
	}
}

func pow4(v float64) float64 {
	v2 := v * v
	return v2 * v2
}
