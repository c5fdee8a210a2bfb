// Package core provides fundamental types shared by the game and the platform
// layer. It contains no Bubble Tea dependency to keep game logic pure and
// testable.
package core

import "math"

// Rect is an integer rectangle in terminal cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new cell rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// RectF is an axis-aligned rectangle in world units, used for broad-phase
// overlap and as the drawing rectangle handed to the renderer.
type RectF struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// NewRectF creates a new world rectangle.
func NewRectF(x, y, w, h float64) RectF {
	return RectF{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point.
func (r RectF) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects reports whether the open interiors of r and other overlap.
// Touching edges do not count.
func (r RectF) Intersects(other RectF) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Scale maps r into another coordinate space with independent x/y factors.
func (r RectF) Scale(sx, sy float64) RectF {
	return RectF{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

// Cells snaps r to the smallest cell rectangle covering its area.
// Degenerate rectangles still cover at least one cell.
func (r RectF) Cells() Rect {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	x1 := int(math.Ceil(r.Right()))
	y1 := int(math.Ceil(r.Bottom()))
	return Rect{X: x0, Y: y0, W: Max(x1-x0, 1), H: Max(y1-y0, 1)}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
