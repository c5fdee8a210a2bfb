package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/superbreak/internal/config"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

// Key identifies a grid cell.
type Key struct {
	Row, Col int
}

// String formats the key as "row:col".
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.Row, k.Col)
}

// Grid is a fixed-capacity rows x cols block layout indexed by (row, col).
type Grid struct {
	rows, cols   int
	originX      float64 // Center of column 0
	originY      float64 // Center of row 0
	stepX, stepY float64
	blocks       []surface.Obstacle // row*cols + col
}

// NewGrid lays blocks out on a regular grid whose first center sits at
// (h, floor(h/sy)) so the leftmost block touches the left edge.
func NewGrid(cfg config.Config) (*Grid, error) {
	h := cfg.BlockHypRadius()
	g := &Grid{
		rows:    cfg.Grid.Rows,
		cols:    cfg.Grid.Columns,
		originX: h,
		originY: math.Floor(h / cfg.Grid.ScaleY),
		stepX:   cfg.StepX(),
		stepY:   cfg.StepY(),
		blocks:  make([]surface.Obstacle, 0, cfg.Grid.Rows*cfg.Grid.Columns),
	}

	for row := range g.rows {
		for col := range g.cols {
			cx := g.originX + float64(col)*g.stepX
			cy := g.originY + float64(row)*g.stepY
			b, err := surface.New(cx, cy, cfg.Grid.ScaleY, h, surface.RoleBlock)
			if err != nil {
				return nil, fmt.Errorf("sim: block %d:%d: %w", row, col, err)
			}
			g.blocks = append(g.blocks, b)
		}
	}
	return g, nil
}

// Rows returns the number of block rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of block columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Len returns the total number of blocks.
func (g *Grid) Len() int {
	return len(g.blocks)
}

// At returns the block at (row, col). The pointer stays valid for the
// lifetime of the grid.
func (g *Grid) At(row, col int) *surface.Obstacle {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return nil
	}
	return &g.blocks[row*g.cols+col]
}

// Visible returns the number of blocks not yet destroyed.
func (g *Grid) Visible() int {
	n := 0
	for i := range g.blocks {
		if !g.blocks[i].Hidden {
			n++
		}
	}
	return n
}

// Each calls fn for every block in row-major order.
func (g *Grid) Each(fn func(k Key, b *surface.Obstacle)) {
	for i := range g.blocks {
		fn(Key{Row: i / g.cols, Col: i % g.cols}, &g.blocks[i])
	}
}

// Span returns the inclusive row/column range of cells whose blocks could
// overlap a box centered at (x, y) with half extents (hw, hh) padded by the
// block extents. The result is clamped to the grid and may be empty.
func (g *Grid) Span(x, y, hw, hh float64) (row0, row1, col0, col1 int) {
	if len(g.blocks) == 0 {
		return 0, -1, 0, -1
	}
	bw := g.blocks[0].HalfWidth() + hw
	bh := g.blocks[0].HalfHeight() + hh

	col0, col1 = g.axisSpan(x, bw, g.originX, g.stepX, g.cols)
	row0, row1 = g.axisSpan(y, bh, g.originY, g.stepY, g.rows)
	return row0, row1, col0, col1
}

// axisSpan maps [v-reach, v+reach] to cell indices along one axis, widened by
// one cell so floating point rounding never drops a candidate.
func (g *Grid) axisSpan(v, reach, origin, step float64, n int) (int, int) {
	if n == 1 || step <= 0 {
		return 0, n - 1
	}
	lo := int(math.Floor((v-reach-origin)/step)) - 1
	hi := int(math.Ceil((v+reach-origin)/step)) + 1
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}
