package superbreak

import (
	"math"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

const (
	hudRows = 1 // Screen rows above the play field

	minScreenW = 20
	minScreenH = 8
)

// viewport maps world units onto terminal cells. The play field is stretched
// to fill the screen below the HUD, so cells are generally not square in
// world units.
type viewport struct {
	cols, rows int
	top        int     // First play-field row
	sx, sy     float64 // Cells per world unit
}

func newViewport(cols, rows int, worldW, worldH float64) viewport {
	playRows := core.Max(rows-hudRows, 1)
	cols = core.Max(cols, 1)
	return viewport{
		cols: cols,
		rows: rows,
		top:  hudRows,
		sx:   float64(cols) / worldW,
		sy:   float64(playRows) / worldH,
	}
}

func (v viewport) tooSmall() bool {
	return v.cols < minScreenW || v.rows < minScreenH
}

// worldX returns the world x at the center of a screen column.
func (v viewport) worldX(col int) float64 {
	return (float64(col) + 0.5) / v.sx
}

// worldPoint returns the world position at the center of a screen cell.
func (v viewport) worldPoint(col, row int) surface.Vec {
	return surface.V(
		(float64(col)+0.5)/v.sx,
		(float64(row-v.top)+0.5)/v.sy,
	)
}

// cellOf returns the screen cell containing world point p.
func (v viewport) cellOf(p surface.Vec) (col, row int) {
	return int(math.Floor(p.X * v.sx)), int(math.Floor(p.Y*v.sy)) + v.top
}

// cellRect returns the cells covering a world rectangle.
func (v viewport) cellRect(r core.RectF) core.Rect {
	c := r.Scale(v.sx, v.sy).Cells()
	c.Y += v.top
	return c
}

// inField reports whether a cell lies inside the play field.
func (v viewport) inField(col, row int) bool {
	return col >= 0 && col < v.cols && row >= v.top && row < v.rows
}
